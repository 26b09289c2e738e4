package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/spf13/cobra"
)

func newRevisionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "revision",
		Aliases: []string{"rev"},
		Short:   "Save, list and restore project snapshots",
	}
	cmd.AddCommand(
		newRevisionSaveCmd(app),
		newRevisionNoteCmd(app),
		newRevisionListCmd(app),
		newRevisionRestoreCmd(app),
		newRevisionRemoveCmd(app),
	)
	return cmd
}

func newRevisionSaveCmd(app *App) *cobra.Command {
	var project, note string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Snapshot every task of the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			rev, err := app.Plans.SaveRevision(ctx, projectID, note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved revision %s (%d tasks)\n", formatter.TruncID(rev.ID), len(rev.Snapshot.Tasks))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&note, "note", "", "Note to attach")
	return cmd
}

func newRevisionNoteCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "note TEXT",
		Short: "Record a note without a snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			rev, err := app.Plans.AddNote(ctx, projectID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note %s\n", formatter.TruncID(rev.ID))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}

func newRevisionListCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List revisions oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			revs, err := app.Plans.ListRevisions(ctx, projectID)
			if err != nil {
				return err
			}
			if len(revs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No revisions found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRevisionList(revs))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}

// resolveRevision accepts a full revision ID, a unique prefix, or the
// 1-based position shown by "revision list".
func resolveRevision(revs []*domain.Revision, input string) (*domain.Revision, error) {
	ids := make([]string, len(revs))
	names := make([]string, len(revs))
	for i, r := range revs {
		ids[i], names[i] = r.ID, fmt.Sprintf("%d", i+1)
	}
	id, err := resolveAmong(strings.TrimSpace(input), ids, names)
	if err != nil {
		return nil, fmt.Errorf("revision %w", err)
	}
	for _, r := range revs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("revision %q: %w", input, domain.ErrNotFound)
}

func newRevisionRestoreCmd(app *App) *cobra.Command {
	var project string
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore REVISION",
		Short: "Replace the project's tasks with a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			revs, err := app.Plans.ListRevisions(ctx, projectID)
			if err != nil {
				return err
			}
			rev, err := resolveRevision(revs, args[0])
			if err != nil {
				return err
			}
			ok, err := app.confirm(yes, "Replace all current tasks with this revision?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := app.Plans.RestoreRevision(ctx, projectID, rev.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored revision %s\n", formatter.TruncID(rev.ID))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newRevisionRemoveCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "remove REVISION",
		Short: "Delete a revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			revs, err := app.Plans.ListRevisions(ctx, projectID)
			if err != nil {
				return err
			}
			rev, err := resolveRevision(revs, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.DeleteRevision(ctx, projectID, rev.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted revision %s\n", formatter.TruncID(rev.ID))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}
