package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/export"
	"github.com/spf13/cobra"
)

func newBaselineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Record and compare the planned schedule",
	}
	cmd.AddCommand(newBaselineSetCmd(app), newBaselineVarianceCmd(app))
	return cmd
}

func newBaselineSetCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy every task's live dates into its baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			n, err := app.Plans.SetBaseline(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline set for %d tasks\n", n)
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}

func newBaselineVarianceCmd(app *App) *cobra.Command {
	var project, format string
	cmd := &cobra.Command{
		Use:     "variance",
		Aliases: []string{"show"},
		Short:   "Show how far each task slipped from its baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			entries, err := app.Plans.Variance(ctx, projectID)
			if err != nil {
				return err
			}
			if format != "" && format != "text" {
				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				return export.EncodeValue(cmd.OutOrStdout(), entries, f)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVariance(entries))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}
