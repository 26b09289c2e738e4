package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/spf13/cobra"
)

// resolveProjectID accepts a full ID, a unique ID prefix or an exact name
// (case-insensitive).
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("project is required (--project)")
	}
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	names := make([]string, len(projects))
	for i, p := range projects {
		ids[i], names[i] = p.ID, p.Name
	}
	id, err := resolveAmong(input, ids, names)
	if err != nil {
		return "", fmt.Errorf("project %w", err)
	}
	return id, nil
}

// resolveTask finds a task of the project by ID, ID prefix or name.
func resolveTask(ctx context.Context, app *App, projectID, input string) (*domain.Task, error) {
	tasks, err := app.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tasks))
	names := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i], names[i] = t.ID, t.Name
	}
	id, err := resolveAmong(strings.TrimSpace(input), ids, names)
	if err != nil {
		return nil, fmt.Errorf("task %w", err)
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task %q: %w", input, domain.ErrNotFound)
}

func resolveAmong(input string, ids, names []string) (string, error) {
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}
	var matches []string
	for i, name := range names {
		if strings.EqualFold(name, input) {
			matches = append(matches, ids[i])
		}
	}
	if len(matches) == 0 {
		for _, id := range ids {
			if strings.HasPrefix(id, input) {
				matches = append(matches, id)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%q: %w", input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", input, len(matches))
	}
}

// addProjectFlag registers the shared --project/-p flag.
func addProjectFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "project", "p", "", "Project ID, ID prefix or name")
	_ = cmd.MarkFlagRequired("project")
}
