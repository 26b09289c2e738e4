package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders the project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "BUDGET", "RESOURCES", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		resources := Dim("--")
		if len(p.Resources) > 0 {
			resources = strings.Join(p.Resources, ", ")
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			Money(p.Budget, p.Currency),
			resources,
			HumanTimestamp(p.UpdatedAt),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectCard renders a project summary with its stats next to the
// task tree.
func FormatProjectCard(p *domain.Project, stats service.ProjectStats, tree string) string {
	left := lipgloss.NewStyle().Width(44).Render(projectMeta(p, stats))
	if strings.TrimSpace(tree) == "" {
		tree = Dim("No tasks")
	}
	right := StyleHeader.Render("PLAN") + "\n" + Dim(strings.Repeat("─", 4)) + "\n" + tree
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func projectMeta(p *domain.Project, st service.ProjectStats) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	field("ID", TruncID(p.ID))
	if p.OwnerID != "" {
		field("OWNER", StyleFg.Render(p.OwnerID))
	}
	field("TASKS", fmt.Sprintf("%d (%d complete)", st.TaskCount, st.CompletedCount))
	field("PROGRESS", RenderProgress(st.AverageProgress, 12))
	field("BUDGET", Money(st.Budget, st.Currency))
	field("COST", Money(st.CommittedCost, st.Currency))
	remaining := Money(st.RemainingBudget, st.Currency)
	if st.RemainingBudget < 0 {
		remaining = StyleRed.Render(remaining)
	}
	field("REMAINING", remaining)
	if len(p.Resources) > 0 {
		field("RESOURCES", strings.Join(p.Resources, ", "))
	}
	field("UPDATED", HumanTimestamp(p.UpdatedAt))
	return b.String()
}

// FormatStats renders the aggregate numbers of one project.
func FormatStats(p *domain.Project, st service.ProjectStats) string {
	return RenderBox(p.Name, projectMeta(p, st))
}
