package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertProject(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES (?, ?, 'now', 'now')`, id, "P "+id)
	return err
}

func projectCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n))
	return n
}

func TestWithinTx_CommitsBothWrites(t *testing.T) {
	database, uow := newStore(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "a"); err != nil {
			return err
		}
		return insertProject(ctx, tx, "b")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, projectCount(t, database))
}

func TestWithinTx_ErrorDiscardsEarlierWrites(t *testing.T) {
	database, uow := newStore(t)
	ctx := context.Background()
	boom := errors.New("second write failed")

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "a"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, projectCount(t, database))
}

func TestWithinTx_ConstraintViolationRollsBack(t *testing.T) {
	database, uow := newStore(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "a"); err != nil {
			return err
		}
		return insertProject(ctx, tx, "a")
	})
	require.Error(t, err)
	assert.Zero(t, projectCount(t, database))
}

func TestWithinTx_PanicRollsBackAndPropagates(t *testing.T) {
	database, uow := newStore(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "a")
			panic("boom")
		})
	})
	assert.Zero(t, projectCount(t, database))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	database, uow := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Zero(t, projectCount(t, database))
}
