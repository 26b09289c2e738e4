package domain

import "errors"

var (
	// ErrNotFound is wrapped by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange rejects a mutation that would leave a task ending
	// before it starts.
	ErrInvalidRange = errors.New("end date before start date")

	// ErrCyclicDependency rejects a predecessor link that would close a cycle.
	ErrCyclicDependency = errors.New("dependency would create a cycle")

	// ErrUnrestorableRevision is returned when restoring a note-only revision.
	ErrUnrestorableRevision = errors.New("revision has no snapshot and cannot be restored")

	// ErrInvalidTask covers structural problems with a task other than its range.
	ErrInvalidTask = errors.New("invalid task")
)
