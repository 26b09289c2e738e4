package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/gantt/internal/db"
)

// FailOnNthExecUoW runs fn in a real transaction but makes the FailOn-th
// ExecContext (counting from 1) return Err instead of executing. Reads are
// passed through. Statements lists every write attempted in the last call,
// the failing one included.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	Statements []string
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.Statements = nil
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &faultyTx{DBTX: tx, uow: u})
	})
}

type faultyTx struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.uow.Statements = append(f.uow.Statements, query)
	if len(f.uow.Statements) == f.uow.FailOn {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
