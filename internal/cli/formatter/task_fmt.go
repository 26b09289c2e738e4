package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
)

// TaskTreeItems converts visible rows into tree lines. A row is last when
// no later sibling follows it.
func TaskTreeItems(rows []schedule.Row) []TreeItem {
	items := make([]TreeItem, 0, len(rows))
	for i, r := range rows {
		last := true
		for _, next := range rows[i+1:] {
			if next.Depth < r.Depth {
				break
			}
			if next.Depth == r.Depth {
				last = false
				break
			}
		}
		detail := fmt.Sprintf("%s %dd", calendar.Format(r.Task.StartDate), r.Task.Duration())
		if r.Collapsed {
			detail += fmt.Sprintf(" +%d", r.ChildCount)
		}
		items = append(items, TreeItem{
			Title:  r.Task.Name,
			Level:  r.Depth + 1,
			IsLast: last,
			Status: r.Task.EffectiveStatus(),
			Phase:  r.IsPhase,
			Detail: detail,
		})
	}
	return items
}

// FormatTaskTree renders the task hierarchy with dates as badges.
func FormatTaskTree(rows []schedule.Row) string {
	return RenderTree(TaskTreeItems(rows))
}

// FormatTaskTable renders rows as a flat table with their short IDs.
func FormatTaskTable(rows []schedule.Row, currency string) string {
	headers := []string{"ID", "TASK", "DATES", "PROGRESS", "ASSIGNEE", "COST", "AFTER"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		t := r.Task
		name := strings.Repeat("  ", r.Depth) + t.Name
		if r.IsPhase {
			name = Bold(name)
		}
		assignee := t.Assignee
		if assignee == "" {
			assignee = Dim("--")
		}
		out = append(out, []string{
			TruncID(t.ID),
			name,
			DateRange(t.StartDate, t.EndDate),
			RenderProgress(t.ProgressPct, 8),
			assignee,
			Money(t.Cost, currency),
			predecessorList(t),
		})
	}
	return RenderTable(headers, out)
}

func predecessorList(t *domain.Task) string {
	if len(t.Predecessors) == 0 {
		return Dim("--")
	}
	parts := make([]string, 0, len(t.Predecessors))
	for _, p := range t.Predecessors {
		id := p.TaskID
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, fmt.Sprintf("%s %s", id, p.Type))
	}
	return strings.Join(parts, ", ")
}

// FormatTaskDetail renders every field of one task. name resolves
// predecessor IDs to names; unknown IDs are shown as missing.
func FormatTaskDetail(t *domain.Task, currency string, name func(id string) (string, bool)) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	field("ID", t.ID)
	field("DATES", DateRange(t.StartDate, t.EndDate))
	field("STATUS", StatusPill(t.EffectiveStatus()))
	field("PROGRESS", RenderProgress(t.ProgressPct, 12))
	if t.Assignee != "" {
		field("ASSIGNEE", t.Assignee)
	}
	field("COST", Money(t.Cost, currency))
	if t.HasBaseline() {
		field("BASELINE", DateRange(*t.BaselineStart, *t.BaselineEnd))
		field("VARIANCE", VarianceBadge(
			calendar.DaysBetween(*t.BaselineStart, t.StartDate),
			calendar.DaysBetween(*t.BaselineEnd, t.EndDate)))
	}
	for _, p := range t.Predecessors {
		label, ok := name(p.TaskID)
		if !ok {
			label = StyleRed.Render("missing " + p.TaskID)
		}
		field("AFTER", fmt.Sprintf("%s %s", label, Dim(string(p.Type))))
	}
	field("UPDATED", HumanTimestamp(t.UpdatedAt))
	return RenderBox(t.Name, b.String())
}
