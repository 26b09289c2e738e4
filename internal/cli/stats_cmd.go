package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/export"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var project, format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress and budget totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			stats, err := app.Projects.Stats(ctx, projectID)
			if err != nil {
				return err
			}
			if format != "" && format != "text" {
				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				return export.EncodeValue(cmd.OutOrStdout(), stats, f)
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStats(p, *stats))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}
