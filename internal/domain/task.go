package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
)

// Predecessor links a task to one it depends on. Links are advisory: moving
// a predecessor never reschedules its successors.
type Predecessor struct {
	TaskID string         `json:"task_id" yaml:"task_id"`
	Type   DependencyType `json:"type" yaml:"type"`
}

type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	ParentID    *string   `json:"parent_id,omitempty"`
	OrderIndex  int       `json:"order_index"`
	Name        string    `json:"name" validate:"required"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ProgressPct float64   `json:"progress_pct" validate:"gte=0,lte=100"`
	Assignee    string    `json:"assignee,omitempty"`
	Cost        float64   `json:"cost" validate:"gte=0"`
	// Status is empty when it should be derived from progress.
	Status       TaskStatus    `json:"status,omitempty" validate:"omitempty,oneof=not_started in_progress complete"`
	Predecessors []Predecessor `json:"predecessors,omitempty"`

	BaselineStart *time.Time `json:"baseline_start,omitempty"`
	BaselineEnd   *time.Time `json:"baseline_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks field constraints and the date range.
func (t *Task) Validate() error {
	if err := structValidator.Struct(t); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, validationError("task", err))
	}
	if calendar.Before(t.EndDate, t.StartDate) {
		return fmt.Errorf("task %q: %w (%s < %s)", t.Name, ErrInvalidRange,
			calendar.Format(t.EndDate), calendar.Format(t.StartDate))
	}
	for _, p := range t.Predecessors {
		if !ValidDependencyTypes[string(p.Type)] {
			return fmt.Errorf("%w: dependency type %q", ErrInvalidTask, p.Type)
		}
		if p.TaskID == t.ID {
			return fmt.Errorf("task %q: %w (self-dependency)", t.Name, ErrCyclicDependency)
		}
	}
	return nil
}

// Duration is the inclusive number of days the task spans.
func (t *Task) Duration() int {
	return calendar.Duration(t.StartDate, t.EndDate)
}

// Normalize truncates dates to calendar days and clamps progress to [0,100].
func (t *Task) Normalize() {
	t.StartDate = calendar.Day(t.StartDate)
	t.EndDate = calendar.Day(t.EndDate)
	t.ProgressPct = ClampProgress(t.ProgressPct)
	if t.BaselineStart != nil {
		d := calendar.Day(*t.BaselineStart)
		t.BaselineStart = &d
	}
	if t.BaselineEnd != nil {
		d := calendar.Day(*t.BaselineEnd)
		t.BaselineEnd = &d
	}
}

// ClampProgress bounds a progress percentage to [0,100].
func ClampProgress(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// EffectiveStatus returns the assigned status, or derives one from progress.
func (t *Task) EffectiveStatus() TaskStatus {
	if t.Status != "" {
		return t.Status
	}
	switch {
	case t.ProgressPct >= 100:
		return TaskComplete
	case t.ProgressPct <= 0:
		return TaskNotStarted
	default:
		return TaskInProgress
	}
}

// IsComplete reports whether the task counts as done.
func (t *Task) IsComplete() bool {
	return t.EffectiveStatus() == TaskComplete
}

// HasBaseline reports whether both baseline dates are set.
func (t *Task) HasBaseline() bool {
	return t.BaselineStart != nil && t.BaselineEnd != nil
}

// HasVariance is true iff a baseline exists and the live dates differ from it.
func (t *Task) HasVariance() bool {
	if !t.HasBaseline() {
		return false
	}
	return !calendar.Equal(t.StartDate, *t.BaselineStart) || !calendar.Equal(t.EndDate, *t.BaselineEnd)
}

// SetBaseline captures the current dates, overwriting any previous baseline.
func (t *Task) SetBaseline() {
	start, end := t.StartDate, t.EndDate
	t.BaselineStart = &start
	t.BaselineEnd = &end
}

// HasPredecessor reports whether the task already links to predID.
func (t *Task) HasPredecessor(predID string) bool {
	return slices.ContainsFunc(t.Predecessors, func(p Predecessor) bool { return p.TaskID == predID })
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.ParentID != nil {
		pid := *t.ParentID
		c.ParentID = &pid
	}
	if t.BaselineStart != nil {
		d := *t.BaselineStart
		c.BaselineStart = &d
	}
	if t.BaselineEnd != nil {
		d := *t.BaselineEnd
		c.BaselineEnd = &d
	}
	c.Predecessors = slices.Clone(t.Predecessors)
	return &c
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []*Task) []*Task {
	if tasks == nil {
		return nil
	}
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
