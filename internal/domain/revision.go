package domain

import "time"

// Snapshot is a deep copy of a project's flat task table.
type Snapshot struct {
	Tasks []*Task `json:"tasks"`
}

type Revision struct {
	ID        string
	ProjectID string
	CreatedAt time.Time
	Note      string
	// Snapshot is nil for note-only markers.
	Snapshot *Snapshot
}

// Restorable reports whether the revision carries a snapshot.
func (r *Revision) Restorable() bool {
	return r.Snapshot != nil
}
