package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		budget     REAL NOT NULL DEFAULT 0 CHECK(budget >= 0),
		currency   TEXT NOT NULL DEFAULT 'USD',
		owner_id   TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_resources (
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id      TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		order_index    INTEGER NOT NULL DEFAULT 0,
		name           TEXT NOT NULL,
		start_date     TEXT NOT NULL,
		end_date       TEXT NOT NULL CHECK(end_date >= start_date),
		progress_pct   REAL NOT NULL DEFAULT 0 CHECK(progress_pct >= 0 AND progress_pct <= 100),
		assignee       TEXT NOT NULL DEFAULT '',
		cost           REAL NOT NULL DEFAULT 0 CHECK(cost >= 0),
		status         TEXT NOT NULL DEFAULT ''
		               CHECK(status IN ('','not_started','in_progress','complete')),
		baseline_start TEXT,
		baseline_end   TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	// predecessor_id deliberately has no foreign key: deleting a predecessor
	// leaves the link dangling rather than rewriting the successor.
	`CREATE TABLE IF NOT EXISTS task_predecessors (
		task_id        TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		predecessor_id TEXT NOT NULL,
		type           TEXT NOT NULL DEFAULT 'FS' CHECK(type IN ('FS','SS')),
		order_index    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (task_id, predecessor_id),
		CHECK(task_id != predecessor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_predecessors_pred ON task_predecessors(predecessor_id)`,

	`CREATE TABLE IF NOT EXISTS revisions (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		snapshot   TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_revisions_project ON revisions(project_id, seq)`,
}
