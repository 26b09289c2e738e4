package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/spf13/cobra"
)

func newChartCmd(app *App) *cobra.Command {
	var project, assignee, status, query string
	var collapse []string
	var baseline, interactiveFlag bool

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Draw the Gantt chart",
		Long: `Draw the Gantt chart.

With -i the chart opens full screen: drag a bar with the mouse to move
it, drag its first or last cell to resize it. Esc cancels a drag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			opts, err := viewOptions(ctx, app, projectID, collapse, assignee, status, query)
			if err != nil {
				return err
			}
			if interactiveFlag {
				if !app.interactive() {
					return fmt.Errorf("the interactive chart needs a terminal")
				}
				m := newChartModel(ctx, app, projectID, opts)
				m.baseline = baseline
				return app.runProgram(ctx, m)
			}

			chart, err := app.Charts.Layout(ctx, projectID, opts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStaticChart(chart, app.Settings, baseline))
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	addViewFlags(cmd, &collapse, &assignee, &status, &query)
	cmd.Flags().BoolVar(&baseline, "baseline", false, "Draw baseline dates under the bars")
	cmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false, "Open the interactive chart")
	return cmd
}

// chartTitle is a single line so that row positions stay predictable.
func chartTitle(chart *service.Chart) string {
	w := chart.Mapper.Window
	return formatter.StyleHeader.Render(chart.Project.Name) + "  " +
		formatter.Dim(formatter.DateRange(w.Start, w.End))
}

func textMapper(chart *service.Chart, s Settings) geometry.Mapper {
	return geometry.NewMapper(chart.Mapper.Window, max(s.CellWidth, 1))
}

func renderStaticChart(chart *service.Chart, s Settings, baseline bool) string {
	var b strings.Builder
	b.WriteString(chartTitle(chart) + "\n")
	if len(chart.Rows) == 0 {
		b.WriteString("No tasks found.\n")
		return b.String()
	}
	b.WriteString(formatter.RenderGantt(chart.Rows, formatter.GanttOptions{
		Mapper:       textMapper(chart, s),
		LabelWidth:   s.LabelWidth,
		Selected:     -1,
		Today:        calendar.Today(),
		ShowBaseline: baseline,
	}))
	b.WriteString(formatter.Dim(fmt.Sprintf("%d rows, %d dependency arrows", len(chart.Rows), len(chart.Arrows))) + "\n")
	for _, l := range chart.Dangling {
		name := l.Successor
		if t, ok := chart.Table.Get(l.Successor); ok {
			name = t.Name
		}
		b.WriteString(formatter.StyleYellow.Render(fmt.Sprintf("! %s depends on missing task %s", name, formatter.TruncID(l.Predecessor))) + "\n")
	}
	return b.String()
}
