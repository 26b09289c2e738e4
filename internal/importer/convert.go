package importer

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/google/uuid"
)

// Plan is a converted plan file ready for persistence. Tasks are ordered so
// that parents precede their children.
type Plan struct {
	Project *domain.Project
	Tasks   []*domain.Task
}

// DependencyCount returns the number of predecessor links in the plan.
func (p *Plan) DependencyCount() int {
	n := 0
	for _, t := range p.Tasks {
		n += len(t.Predecessors)
	}
	return n
}

// Convert transforms a validated PlanFile into domain objects.
// Call ValidatePlanFile first; Convert assumes the plan is valid.
func Convert(plan *PlanFile) (*Plan, error) {
	now := time.Now().UTC()

	currency := plan.Project.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	project := &domain.Project{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(plan.Project.Name),
		Budget:    plan.Project.Budget,
		Currency:  currency,
		OwnerID:   plan.Project.Owner,
		Resources: slices.Clone(plan.Resources),
		CreatedAt: now,
		UpdatedAt: now,
	}

	refMap := make(map[string]string, len(plan.Tasks)) // ref -> UUID
	for _, t := range plan.Tasks {
		refMap[t.Ref] = uuid.New().String()
	}

	nextOrder := make(map[string]int)
	tasks := make([]*domain.Task, 0, len(plan.Tasks))
	for _, ti := range plan.Tasks {
		start, err := calendar.Parse(ti.Start)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", ti.Ref, err)
		}
		end := start
		switch {
		case ti.Duration != nil:
			end = calendar.EndFromStart(start, *ti.Duration)
		case ti.End != nil:
			if end, err = calendar.Parse(*ti.End); err != nil {
				return nil, fmt.Errorf("task %q: %w", ti.Ref, err)
			}
		}

		var parentID *string
		parentKey := ""
		if ti.ParentRef != nil && *ti.ParentRef != "" {
			pid, ok := refMap[*ti.ParentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for task %q", *ti.ParentRef, ti.Ref)
			}
			parentID = &pid
			parentKey = pid
		}
		order := domain.Coalesce(nextOrder[parentKey], ti.Order)
		nextOrder[parentKey] = max(nextOrder[parentKey], order+1)

		task := &domain.Task{
			ID:          refMap[ti.Ref],
			ProjectID:   project.ID,
			ParentID:    parentID,
			OrderIndex:  order,
			Name:        strings.TrimSpace(ti.Name),
			StartDate:   start,
			EndDate:     end,
			ProgressPct: domain.Coalesce(0, ti.Progress),
			Assignee:    ti.Assignee,
			Cost:        domain.Coalesce(0, ti.Cost),
			Status:      domain.TaskStatus(ti.Status),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, p := range ti.Predecessors {
			predID, ok := refMap[p.Ref]
			if !ok {
				return nil, fmt.Errorf("predecessor ref %q not found for task %q", p.Ref, ti.Ref)
			}
			typ := domain.DependencyType(p.Type)
			if typ == "" {
				typ = domain.FinishToStart
			}
			task.Predecessors = append(task.Predecessors, domain.Predecessor{TaskID: predID, Type: typ})
		}
		if task.Assignee != "" && !project.HasResource(task.Assignee) {
			project.Resources = append(project.Resources, task.Assignee)
		}
		task.Normalize()
		tasks = append(tasks, task)
	}

	return &Plan{Project: project, Tasks: tasks}, nil
}
