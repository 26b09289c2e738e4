package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskUpdateCmd(app),
		newTaskMoveCmd(app),
		newTaskDragCmd(app),
		newTaskRemoveCmd(app),
		newTaskLinkCmd(app),
		newTaskUnlinkCmd(app),
	)
	return cmd
}

// parsePredecessorRef splits "TASK" or "TASK:SS" into a reference and a
// dependency type, defaulting to FS.
func parsePredecessorRef(s string) (string, domain.DependencyType, error) {
	ref, typ, found := strings.Cut(s, ":")
	if !found {
		return ref, domain.FinishToStart, nil
	}
	typ = strings.ToUpper(typ)
	if !domain.ValidDependencyTypes[typ] {
		return "", "", fmt.Errorf("invalid dependency type %q (expected FS or SS)", typ)
	}
	return ref, domain.DependencyType(typ), nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var project, name, start, end, parent, assignee, status string
	var duration int
	var progress, cost float64
	var after []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			t := &domain.Task{
				ProjectID:   projectID,
				Name:        name,
				ProgressPct: progress,
				Assignee:    strings.TrimSpace(assignee),
				Cost:        cost,
				Status:      domain.TaskStatus(status),
			}
			if start != "" {
				if t.StartDate, err = calendar.Parse(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			if end != "" {
				if duration > 0 {
					return fmt.Errorf("set --end or --duration, not both")
				}
				if t.EndDate, err = calendar.Parse(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}
			if parent != "" {
				p, err := resolveTask(ctx, app, projectID, parent)
				if err != nil {
					return err
				}
				t.ParentID = &p.ID
			}
			for _, ref := range after {
				predRef, typ, err := parsePredecessorRef(ref)
				if err != nil {
					return err
				}
				pred, err := resolveTask(ctx, app, projectID, predRef)
				if err != nil {
					return err
				}
				t.Predecessors = append(t.Predecessors, domain.Predecessor{TaskID: pred.ID, Type: typ})
			}
			if err := app.Tasks.Create(ctx, t, duration); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s [%s] %s\n", t.Name, t.ID,
				formatter.DateRange(t.StartDate, t.EndDate))
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in days (instead of --end)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Progress percentage (0-100)")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Cost")
	cmd.Flags().StringVar(&status, "status", "", "Status (not_started, in_progress, complete)")
	cmd.Flags().StringSliceVar(&after, "after", nil, "Predecessor task, optionally TASK:SS (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project, assignee, status, query string
	var collapse []string
	var tree bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in tree order",
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
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			rows := schedule.NewTable(tasks).Rows(opts)
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			if tree {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTree(rows))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTable(rows, p.Currency))
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	addViewFlags(cmd, &collapse, &assignee, &status, &query)
	cmd.Flags().BoolVar(&tree, "tree", false, "Show as a tree")
	return cmd
}

func addViewFlags(cmd *cobra.Command, collapse *[]string, assignee, status, query *string) {
	cmd.Flags().StringSliceVar(collapse, "collapse", nil, "Collapse a phase (repeatable)")
	cmd.Flags().StringVar(assignee, "assignee", "", "Only tasks assigned to this resource")
	cmd.Flags().StringVar(status, "status", "", "Only tasks with this status")
	cmd.Flags().StringVar(query, "query", "", "Only tasks whose name contains this text")
}

func viewOptions(ctx context.Context, app *App, projectID string, collapse []string, assignee, status, query string) (schedule.ViewOptions, error) {
	opts := schedule.ViewOptions{
		Assignee: assignee,
		Status:   domain.TaskStatus(status),
		Query:    query,
	}
	if status != "" && !domain.ValidTaskStatuses[status] {
		return opts, fmt.Errorf("invalid status %q", status)
	}
	if len(collapse) > 0 {
		opts.Collapsed = make(map[string]bool, len(collapse))
		for _, ref := range collapse {
			t, err := resolveTask(ctx, app, projectID, ref)
			if err != nil {
				return opts, err
			}
			opts.Collapsed[t.ID] = true
		}
	}
	return opts, nil
}

func newTaskShowCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "show TASK",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
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
			t, err := resolveTask(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			table := schedule.NewTable(tasks)
			name := func(id string) (string, bool) {
				other, ok := table.Get(id)
				if !ok {
					return "", false
				}
				return other.Name, true
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskDetail(t, p.Currency, name))
			return nil
		},
	}
	addProjectFlag(cmd, &project)
	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var project, name, start, end, parent, assignee, status string
	var progress, cost float64

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				t.Name = strings.TrimSpace(name)
			}
			if flags.Changed("start") {
				if t.StartDate, err = calendar.Parse(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			if flags.Changed("end") {
				if t.EndDate, err = calendar.Parse(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}
			if flags.Changed("progress") {
				t.ProgressPct = progress
			}
			if flags.Changed("cost") {
				t.Cost = cost
			}
			if flags.Changed("assignee") {
				t.Assignee = strings.TrimSpace(assignee)
			}
			if flags.Changed("status") {
				t.Status = domain.TaskStatus(status)
			}
			if flags.Changed("parent") {
				if parent == "" || parent == "-" {
					t.ParentID = nil
				} else {
					p, err := resolveTask(ctx, app, projectID, parent)
					if err != nil {
						return err
					}
					t.ParentID = &p.ID
				}
			}
			if err := app.Tasks.Update(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s %s\n", t.Name, formatter.DateRange(t.StartDate, t.EndDate))
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task, or - for top level")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee (empty to clear)")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Progress percentage (0-100)")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Cost")
	cmd.Flags().StringVar(&status, "status", "", "Status (empty derives it from progress)")
	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var project, start, end string
	var days int

	cmd := &cobra.Command{
		Use:   "move TASK",
		Short: "Reschedule a task by a day offset or to new dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			newStart := calendar.AddDays(t.StartDate, days)
			newEnd := calendar.AddDays(t.EndDate, days)
			if start != "" {
				if newStart, err = calendar.Parse(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				newEnd = calendar.EndFromStart(newStart, t.Duration())
			}
			if end != "" {
				if newEnd, err = calendar.Parse(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}
			moved, err := app.Tasks.Reschedule(ctx, projectID, t.ID, newStart, newEnd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", moved.Name, formatter.DateRange(moved.StartDate, moved.EndDate))
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().IntVar(&days, "days", 0, "Shift both dates by this many days")
	cmd.Flags().StringVar(&start, "start", "", "New start date, keeping the duration")
	cmd.Flags().StringVar(&end, "end", "", "New end date")
	cmd.MarkFlagsMutuallyExclusive("days", "start")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var project string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove TASK",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			ok, err := app.confirm(yes, fmt.Sprintf("Delete task %q and its subtasks?", t.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := app.Tasks.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", t.Name)
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newTaskLinkCmd(app *App) *cobra.Command {
	var project, after, typ string

	cmd := &cobra.Command{
		Use:   "link TASK",
		Short: "Make TASK depend on another task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			pred, err := resolveTask(ctx, app, projectID, after)
			if err != nil {
				return err
			}
			depType := domain.DependencyType(strings.ToUpper(typ))
			if err := app.Tasks.AddPredecessor(ctx, t.ID, pred.ID, depType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now follows %s (%s)\n", t.Name, pred.Name, depType)
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&after, "after", "", "Predecessor task")
	cmd.Flags().StringVar(&typ, "type", string(domain.FinishToStart), "Dependency type (FS or SS)")
	_ = cmd.MarkFlagRequired("after")
	return cmd
}

func newTaskUnlinkCmd(app *App) *cobra.Command {
	var project, after string

	cmd := &cobra.Command{
		Use:   "unlink TASK",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			// A deleted predecessor can only be named by its ID.
			predID := after
			if pred, err := resolveTask(ctx, app, projectID, after); err == nil {
				predID = pred.ID
			}
			if err := app.Tasks.RemovePredecessor(ctx, t.ID, predID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency of %s on %s\n", t.Name, after)
			return nil
		},
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&after, "after", "", "Predecessor task or ID")
	_ = cmd.MarkFlagRequired("after")
	return cmd
}
