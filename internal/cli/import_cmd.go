package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project from a JSON or YAML plan file",
		Long: `Create a project from a JSON or YAML plan file.

The whole file is validated first. Any problem aborts the import
and nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported project %s [%s]: %d tasks, %d dependencies\n",
				res.Project.Name, res.Project.ID, res.TaskCount, res.DependencyCount)
			return nil
		},
	}
}
