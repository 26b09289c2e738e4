package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var project, format, out, assignee, status, query string
	var collapse []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the laid-out chart as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			opts, err := viewOptions(ctx, app, projectID, collapse, assignee, status, query)
			if err != nil {
				return err
			}
			chart, err := app.Charts.Layout(ctx, projectID, opts)
			if err != nil {
				return err
			}
			stats, err := app.Projects.Stats(ctx, projectID)
			if err != nil {
				return err
			}
			doc := export.Build(chart, *stats)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if err := export.Encode(w, doc, f); err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d rows, %d arrows to %s\n",
					formatter.Dim("exported"), len(doc.Rows), len(doc.Arrows), out)
			}
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	addViewFlags(cmd, &collapse, &assignee, &status, &query)
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "Output format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}
