package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResourceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage the people or teams tasks can be assigned to",
	}
	cmd.AddCommand(
		newResourceAddCmd(app),
		newResourceRemoveCmd(app),
		newResourceListCmd(app),
	)
	return cmd
}

func newResourceAddCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a resource to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			if err := app.Projects.AddResource(ctx, projectID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added resource %s\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}

func newResourceRemoveCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a resource and unassign its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			n, err := app.Projects.RemoveResource(ctx, projectID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed resource %s (%d tasks unassigned)\n", args[0], n)
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}

func newResourceListCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			if len(p.Resources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No resources.")
				return nil
			}
			for _, r := range p.Resources {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}
