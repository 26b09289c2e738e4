package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/interaction"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/spf13/cobra"
)

func newTaskDragCmd(app *App) *cobra.Command {
	var project, mode string
	var px, days int

	cmd := &cobra.Command{
		Use:   "drag TASK",
		Short: "Replay a pointer drag on a task's bar",
		Long: `Replay a pointer drag on a task's bar.

The pixel distance is converted to whole days with the chart's column
width, exactly as a mouse drag in "chart -i" would be. --days is a
shorthand for that many columns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := interaction.ParseMode(mode)
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			chart, err := app.Charts.Layout(ctx, projectID, schedule.ViewOptions{})
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("days") {
				px = days * chart.Mapper.ColumnWidth
			}

			machine := interaction.NewMachine(chart.Mapper, app.Tasks)
			if err := machine.PointerDown(projectID, t, m); err != nil {
				return err
			}
			machine.PointerMove(px)
			start, end, _ := machine.Preview()
			outcome, err := machine.PointerUp(ctx)
			switch outcome {
			case interaction.OutcomeNoop:
				fmt.Fprintf(cmd.OutOrStdout(), "%s unchanged (%dpx rounds to 0 days)\n", t.Name, px)
				return nil
			case interaction.OutcomeRejected:
				return fmt.Errorf("drag rejected: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s to %s\n", t.Name, m, formatter.DateRange(start, end))
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&mode, "mode", string(interaction.ModeMove), "Gesture: move, resize-start or resize-end")
	cmd.Flags().IntVar(&px, "px", 0, "Horizontal pointer distance in pixels")
	cmd.Flags().IntVar(&days, "days", 0, "Distance in whole columns")
	cmd.MarkFlagsMutuallyExclusive("px", "days")
	return cmd
}
