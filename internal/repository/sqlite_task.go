package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, parent_id, order_index, name, start_date, end_date,
		progress_pct, assignee, cost, status, baseline_start, baseline_end, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.ParentID),
		t.OrderIndex,
		t.Name,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		t.ProgressPct,
		t.Assignee,
		t.Cost,
		string(t.Status),
		nullableTimeToString(t.BaselineStart, dateLayout),
		nullableTimeToString(t.BaselineEnd, dateLayout),
		t.CreatedAt.Format(timestampLayout),
		t.UpdatedAt.Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return r.SetPredecessors(ctx, t.ID, t.Predecessors)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("task", id)
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, predecessor_id, type FROM task_predecessors WHERE task_id = ? ORDER BY order_index`, id)
	if err != nil {
		return nil, fmt.Errorf("listing predecessors: %w", err)
	}
	defer rows.Close()
	links, err := scanPredecessors(rows)
	if err != nil {
		return nil, err
	}
	t.Predecessors = links[id]
	return t, nil
}

// ListByProject returns the project's tasks ordered by parent then order
// index, with predecessor links attached.
func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ?
		ORDER BY COALESCE(parent_id, ''), order_index, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	rows.Close()

	predRows, err := r.db.QueryContext(ctx, `SELECT p.task_id, p.predecessor_id, p.type
		FROM task_predecessors p JOIN tasks t ON t.id = p.task_id
		WHERE t.project_id = ? ORDER BY p.task_id, p.order_index`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing predecessors: %w", err)
	}
	defer predRows.Close()
	links, err := scanPredecessors(predRows)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.Predecessors = links[t.ID]
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, order_index = ?, name = ?, start_date = ?, end_date = ?,
		progress_pct = ?, assignee = ?, cost = ?, status = ?, baseline_start = ?, baseline_end = ?,
		updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(t.ParentID),
		t.OrderIndex,
		t.Name,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		t.ProgressPct,
		t.Assignee,
		t.Cost,
		string(t.Status),
		nullableTimeToString(t.BaselineStart, dateLayout),
		nullableTimeToString(t.BaselineEnd, dateLayout),
		t.UpdatedAt.Format(timestampLayout),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if err := checkAffected(res, "task", t.ID); err != nil {
		return err
	}
	return r.SetPredecessors(ctx, t.ID, t.Predecessors)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return checkAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting project tasks: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) SetPredecessors(ctx context.Context, taskID string, preds []domain.Predecessor) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_predecessors WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing predecessors: %w", err)
	}
	for i, p := range preds {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO task_predecessors (task_id, predecessor_id, type, order_index) VALUES (?, ?, ?, ?)`,
			taskID, p.TaskID, string(p.Type), i)
		if err != nil {
			return fmt.Errorf("inserting predecessor: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) ClearAssignee(ctx context.Context, projectID, name string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET assignee = '', updated_at = ? WHERE project_id = ? AND assignee = ?`,
		nowUTC(), projectID, name)
	if err != nil {
		return 0, fmt.Errorf("clearing assignee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteTaskRepo) SetBaseline(ctx context.Context, projectID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET baseline_start = start_date, baseline_end = end_date, updated_at = ? WHERE project_id = ?`,
		nowUTC(), projectID)
	if err != nil {
		return 0, fmt.Errorf("setting baseline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var parentID, baselineStart, baselineEnd sql.NullString
	var startStr, endStr, statusStr, createdAtStr, updatedAtStr string

	err := s.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.OrderIndex, &t.Name,
		&startStr, &endStr,
		&t.ProgressPct, &t.Assignee, &t.Cost, &statusStr,
		&baselineStart, &baselineEnd,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if parentID.Valid {
		pid := parentID.String
		t.ParentID = &pid
	}
	t.Status = domain.TaskStatus(statusStr)

	var parseErr error
	if t.StartDate, parseErr = time.Parse(dateLayout, startStr); parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	if t.EndDate, parseErr = time.Parse(dateLayout, endStr); parseErr != nil {
		return nil, fmt.Errorf("parsing end_date: %w", parseErr)
	}
	if t.CreatedAt, parseErr = time.Parse(timestampLayout, createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if t.UpdatedAt, parseErr = time.Parse(timestampLayout, updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	t.BaselineStart = parseNullableTime(baselineStart, dateLayout)
	t.BaselineEnd = parseNullableTime(baselineEnd, dateLayout)

	return &t, nil
}

// scanPredecessors groups predecessor rows by successor task ID.
func scanPredecessors(rows *sql.Rows) (map[string][]domain.Predecessor, error) {
	out := make(map[string][]domain.Predecessor)
	for rows.Next() {
		var taskID, predID, typ string
		if err := rows.Scan(&taskID, &predID, &typ); err != nil {
			return nil, fmt.Errorf("scanning predecessor: %w", err)
		}
		out[taskID] = append(out[taskID], domain.Predecessor{TaskID: predID, Type: domain.DependencyType(typ)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating predecessors: %w", err)
	}
	return out, nil
}
