package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

const revisionColumns = `id, project_id, note, snapshot, created_at`

// SQLiteRevisionRepo implements RevisionRepo. Snapshots are stored as JSON.
type SQLiteRevisionRepo struct {
	db db.DBTX
}

// NewSQLiteRevisionRepo creates a new SQLiteRevisionRepo.
func NewSQLiteRevisionRepo(db db.DBTX) *SQLiteRevisionRepo {
	return &SQLiteRevisionRepo{db: db}
}

func (r *SQLiteRevisionRepo) Create(ctx context.Context, rev *domain.Revision) error {
	var snapshot any
	if rev.Snapshot != nil {
		data, err := json.Marshal(rev.Snapshot)
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		snapshot = string(data)
	}

	query := `INSERT INTO revisions (id, project_id, seq, note, snapshot, created_at)
		SELECT ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ? FROM revisions WHERE project_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		rev.ID,
		rev.ProjectID,
		rev.Note,
		snapshot,
		rev.CreatedAt.Format(timestampLayout),
		rev.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("inserting revision: %w", err)
	}
	return nil
}

func (r *SQLiteRevisionRepo) GetByID(ctx context.Context, id string) (*domain.Revision, error) {
	query := `SELECT ` + revisionColumns + ` FROM revisions WHERE id = ?`
	rev, err := scanRevision(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("revision", id)
		}
		return nil, err
	}
	return rev, nil
}

// ListByProject returns revisions oldest first.
func (r *SQLiteRevisionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Revision, error) {
	query := `SELECT ` + revisionColumns + ` FROM revisions WHERE project_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	defer rows.Close()

	var revs []*domain.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revisions: %w", err)
	}
	return revs, nil
}

func (r *SQLiteRevisionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revisions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting revision: %w", err)
	}
	return checkAffected(res, "revision", id)
}

func scanRevision(s scanner) (*domain.Revision, error) {
	var rev domain.Revision
	var snapshot sql.NullString
	var createdAtStr string

	if err := s.Scan(&rev.ID, &rev.ProjectID, &rev.Note, &snapshot, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning revision: %w", err)
	}

	var err error
	if rev.CreatedAt, err = time.Parse(timestampLayout, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if snapshot.Valid {
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(snapshot.String), &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot of revision %s: %w", rev.ID, err)
		}
		rev.Snapshot = &snap
	}
	return &rev, nil
}
