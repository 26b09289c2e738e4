package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "project_resources", "tasks", "task_predecessors", "revisions"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_tasks_project",
		"idx_tasks_parent",
		"idx_task_predecessors_pred",
		"idx_revisions_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_RangeCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p', 'P', 'now', 'now')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tasks (id, project_id, name, start_date, end_date, created_at, updated_at)
		VALUES ('t', 'p', 'T', '2025-01-05', '2025-01-01', 'now', 'now')`)
	assert.Error(t, err, "end before start must violate the CHECK constraint")
}

func TestMigrate_PredecessorLinkSurvivesPredecessorDeletion(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p', 'P', 'now', 'now')`,
		`INSERT INTO tasks (id, project_id, name, start_date, end_date, created_at, updated_at)
			VALUES ('a', 'p', 'A', '2025-01-01', '2025-01-05', 'now', 'now')`,
		`INSERT INTO tasks (id, project_id, name, start_date, end_date, created_at, updated_at)
			VALUES ('b', 'p', 'B', '2025-01-06', '2025-01-08', 'now', 'now')`,
		`INSERT INTO task_predecessors (task_id, predecessor_id, type) VALUES ('b', 'a', 'FS')`,
		`DELETE FROM tasks WHERE id = 'a'`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_predecessors WHERE task_id = 'b'`).Scan(&count))
	assert.Equal(t, 1, count)

	_, err := db.Exec(`DELETE FROM projects WHERE id = 'p'`)
	require.NoError(t, err)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_predecessors`).Scan(&count))
	assert.Equal(t, 0, count, "project deletion cascades through tasks to their links")
}

func TestOpenDB_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gantt.db")

	database, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	database, err = OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, database.Close())
}

func TestOpenDB_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}
