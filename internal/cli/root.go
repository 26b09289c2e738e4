package cli

import (
	"github.com/spf13/cobra"
)

// DBFlag is the persistent flag that overrides GANTT_DB. main reads it
// before the services are wired; the root command declares it so that
// cobra accepts it on every subcommand.
const DBFlag = "db"

// NewRootCmd creates the top-level "gantt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gantt",
		Short:         "Project scheduling with a Gantt chart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(DBFlag, "", "SQLite database path (overrides GANTT_DB)")

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newResourceCmd(app),
		newBaselineCmd(app),
		newRevisionCmd(app),
		newChartCmd(app),
		newExportCmd(app),
		newStatsCmd(app),
		newImportCmd(app),
	)
	return root
}
