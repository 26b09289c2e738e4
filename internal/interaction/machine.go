// Package interaction turns pointer gestures on a chart bar into at most one
// date mutation per gesture. Between press and release the store is never
// touched; the renderer reads the in-flight dates from Preview.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/geometry"
)

var (
	ErrGestureInProgress = errors.New("a drag gesture is already in progress")
	ErrUnknownMode       = errors.New("unknown drag mode")
)

// Mode selects which edge of the bar a gesture moves.
type Mode string

const (
	ModeMove        Mode = "move"
	ModeResizeStart Mode = "resize-start"
	ModeResizeEnd   Mode = "resize-end"
)

var validModes = map[Mode]bool{
	ModeMove:        true,
	ModeResizeStart: true,
	ModeResizeEnd:   true,
}

// ParseMode accepts the wire names of the drag modes.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !validModes[m] {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Outcome is what a release did.
type Outcome int

const (
	OutcomeNoop Outcome = iota
	OutcomeRejected
	OutcomeCommitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeCommitted:
		return "committed"
	default:
		return "noop"
	}
}

// Drag is the captured state of an in-flight gesture.
type Drag struct {
	TaskID      string
	ProjectID   string
	Mode        Mode
	OriginStart time.Time
	OriginEnd   time.Time
	// PixelDelta is measured from the press point, not the last move.
	PixelDelta int
}

// Apply shifts the origin dates by days according to the mode. ok is false
// when the result would end before it starts.
func (d Drag) Apply(days int) (start, end time.Time, ok bool) {
	start, end = d.OriginStart, d.OriginEnd
	switch d.Mode {
	case ModeMove:
		start = calendar.AddDays(start, days)
		end = calendar.AddDays(end, days)
	case ModeResizeStart:
		start = calendar.AddDays(start, days)
	case ModeResizeEnd:
		end = calendar.AddDays(end, days)
	}
	return start, end, !calendar.Before(end, start)
}

// Committer persists the dates of a released gesture.
type Committer interface {
	Reschedule(ctx context.Context, projectID, taskID string, start, end time.Time) (*domain.Task, error)
}

// Machine is the drag/resize state machine. It is not safe for concurrent
// use; the event loop that owns it feeds it one pointer message at a time.
type Machine struct {
	mapper    geometry.Mapper
	committer Committer
	drag      *Drag
}

// NewMachine wires a machine to the mapper the chart is drawn with.
func NewMachine(mapper geometry.Mapper, committer Committer) *Machine {
	return &Machine{mapper: mapper, committer: committer}
}

// SetMapper swaps the mapper after the chart is re-laid out. A gesture in
// flight keeps converting with the mapper it started with.
func (m *Machine) SetMapper(mapper geometry.Mapper) {
	if m.drag == nil {
		m.mapper = mapper
	}
}

func (m *Machine) Mapper() geometry.Mapper { return m.mapper }

func (m *Machine) State() State {
	if m.drag != nil {
		return Dragging
	}
	return Idle
}

// Dragging returns a copy of the in-flight gesture.
func (m *Machine) Dragging() (Drag, bool) {
	if m.drag == nil {
		return Drag{}, false
	}
	return *m.drag, true
}

// PointerDown starts a gesture on task.
func (m *Machine) PointerDown(projectID string, task *domain.Task, mode Mode) error {
	if m.drag != nil {
		return ErrGestureInProgress
	}
	if !validModes[mode] {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if task == nil {
		return fmt.Errorf("pointer down: %w", domain.ErrNotFound)
	}
	m.drag = &Drag{
		TaskID:      task.ID,
		ProjectID:   projectID,
		Mode:        mode,
		OriginStart: calendar.Day(task.StartDate),
		OriginEnd:   calendar.Day(task.EndDate),
	}
	return nil
}

// PointerMove records the cumulative pixel distance from the press point.
// It is ignored while idle.
func (m *Machine) PointerMove(delta int) {
	if m.drag != nil {
		m.drag.PixelDelta = delta
	}
}

// Days is the signed day offset the current delta rounds to.
func (m *Machine) Days() int {
	if m.drag == nil {
		return 0
	}
	return m.mapper.DayDelta(m.drag.PixelDelta)
}

// Preview returns the dates the bar should be drawn with. An offset that
// would invert the range previews as the origin dates.
func (m *Machine) Preview() (start, end time.Time, ok bool) {
	if m.drag == nil {
		return time.Time{}, time.Time{}, false
	}
	start, end, valid := m.drag.Apply(m.Days())
	if !valid {
		return m.drag.OriginStart, m.drag.OriginEnd, true
	}
	return start, end, true
}

// PointerUp ends the gesture and commits at most once. A resize that would
// invert the range is rejected with domain.ErrInvalidRange before reaching
// the committer; a committer error is returned as a rejection too.
func (m *Machine) PointerUp(ctx context.Context) (Outcome, error) {
	if m.drag == nil {
		return OutcomeNoop, nil
	}
	d := *m.drag
	days := m.Days()
	m.drag = nil

	if days == 0 {
		return OutcomeNoop, nil
	}
	start, end, ok := d.Apply(days)
	if !ok {
		return OutcomeRejected, fmt.Errorf("%s by %+d days: %w", d.Mode, days, domain.ErrInvalidRange)
	}
	if _, err := m.committer.Reschedule(ctx, d.ProjectID, d.TaskID, start, end); err != nil {
		return OutcomeRejected, err
	}
	return OutcomeCommitted, nil
}

// Cancel abandons the gesture without committing.
func (m *Machine) Cancel() {
	m.drag = nil
}
