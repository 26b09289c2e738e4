package domain

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskComplete   TaskStatus = "complete"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"not_started": true, "in_progress": true, "complete": true,
}

// DependencyType says which edge of the predecessor the successor's start is
// tied to.
type DependencyType string

const (
	FinishToStart DependencyType = "FS"
	StartToStart  DependencyType = "SS"
)

// ValidDependencyTypes is the canonical set of accepted dependency types.
var ValidDependencyTypes = map[string]bool{
	"FS": true, "SS": true,
}
