package importer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/graph"
)

// ValidatePlanFile checks the plan for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePlanFile(plan *PlanFile) []error {
	var errs []error

	errs = append(errs, validateProject(&plan.Project)...)
	errs = append(errs, validateResources(plan.Resources)...)

	refs := make(map[string]bool)
	for _, t := range plan.Tasks {
		if t.Ref != "" {
			refs[t.Ref] = true
		}
	}
	errs = append(errs, validateTasks(plan.Tasks, plan.Resources, refs)...)
	errs = append(errs, detectCycles(plan.Tasks)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.Budget < 0 {
		errs = append(errs, fmt.Errorf("project.budget must not be negative"))
	}
	if p.Currency != "" && (len(p.Currency) != 3 || strings.ToUpper(p.Currency) != p.Currency) {
		errs = append(errs, fmt.Errorf("project.currency: invalid code %q (expected three upper-case letters)", p.Currency))
	}

	return errs
}

func validateResources(resources []string) []error {
	var errs []error
	seen := make(map[string]bool, len(resources))
	for i, r := range resources {
		prefix := fmt.Sprintf("resources[%d]", i)
		if strings.TrimSpace(r) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", prefix))
		} else if seen[r] {
			errs = append(errs, fmt.Errorf("%s: duplicate resource %q", prefix, r))
		}
		seen[r] = true
	}
	return errs
}

func validateTasks(tasks []TaskImport, resources []string, refs map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool, len(tasks))

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if seen[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		}

		if t.ParentRef != nil && *t.ParentRef != "" {
			if !seen[*t.ParentRef] {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in tasks list)", prefix, *t.ParentRef))
			}
		}
		if t.Ref != "" {
			seen[t.Ref] = true
		}

		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateDates(prefix, t)...)

		if t.Progress != nil && (*t.Progress < 0 || *t.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress must be between 0 and 100", prefix))
		}
		if t.Cost != nil && *t.Cost < 0 {
			errs = append(errs, fmt.Errorf("%s.cost must not be negative", prefix))
		}
		if t.Status != "" && !domain.ValidTaskStatuses[t.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.Assignee != "" && len(resources) > 0 && !slices.Contains(resources, t.Assignee) {
			errs = append(errs, fmt.Errorf("%s.assignee: %q is not a listed resource", prefix, t.Assignee))
		}

		linked := make(map[string]bool, len(t.Predecessors))
		for j, p := range t.Predecessors {
			pp := fmt.Sprintf("%s.predecessors[%d]", prefix, j)
			switch {
			case p.Ref == "":
				errs = append(errs, fmt.Errorf("%s.ref is required", pp))
			case p.Ref == t.Ref:
				errs = append(errs, fmt.Errorf("%s: self-dependency on %q", pp, p.Ref))
			case !refs[p.Ref]:
				errs = append(errs, fmt.Errorf("%s.ref: ref %q not found in tasks", pp, p.Ref))
			case linked[p.Ref]:
				errs = append(errs, fmt.Errorf("%s.ref: duplicate link to %q", pp, p.Ref))
			}
			linked[p.Ref] = true
			if p.Type != "" && !domain.ValidDependencyTypes[p.Type] {
				errs = append(errs, fmt.Errorf("%s.type: invalid value %q (expected FS or SS)", pp, p.Type))
			}
		}
	}

	return errs
}

func validateDates(prefix string, t TaskImport) []error {
	if t.Start == "" {
		return []error{fmt.Errorf("%s.start is required", prefix)}
	}
	start, err := calendar.Parse(t.Start)
	if err != nil {
		return []error{fmt.Errorf("%s.start: %w", prefix, err)}
	}

	switch {
	case t.End != nil && t.Duration != nil:
		return []error{fmt.Errorf("%s: set end or duration, not both", prefix)}
	case t.Duration != nil:
		if *t.Duration < 1 {
			return []error{fmt.Errorf("%s.duration must be at least 1 day", prefix)}
		}
	case t.End != nil:
		end, err := calendar.Parse(*t.End)
		if err != nil {
			return []error{fmt.Errorf("%s.end: %w", prefix, err)}
		}
		if calendar.Before(end, start) {
			return []error{fmt.Errorf("%s: end %s is before start %s", prefix, *t.End, t.Start)}
		}
	}
	return nil
}

// detectCycles reports one error per file if the predecessor links form a
// cycle.
func detectCycles(tasks []TaskImport) []error {
	edges := make(map[string][]string)
	for _, t := range tasks {
		for _, p := range t.Predecessors {
			if t.Ref != "" && p.Ref != "" && p.Ref != t.Ref {
				edges[t.Ref] = append(edges[t.Ref], p.Ref)
			}
		}
	}
	if cycle := graph.FindCycle(edges); cycle != nil {
		return []error{fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " -> "))}
	}
	return nil
}
