package interaction

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commit struct {
	projectID, taskID string
	start, end        time.Time
}

type fakeCommitter struct {
	commits []commit
	err     error
}

func (f *fakeCommitter) Reschedule(_ context.Context, projectID, taskID string, start, end time.Time) (*domain.Task, error) {
	f.commits = append(f.commits, commit{projectID, taskID, start, end})
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Task{ID: taskID, ProjectID: projectID, StartDate: start, EndDate: end}, nil
}

const col = 32

func newMachine(c Committer) *Machine {
	w := geometry.Window{Start: calendar.MustParse("2024-12-25"), End: calendar.MustParse("2025-01-31")}
	return NewMachine(geometry.NewMapper(w, col), c)
}

func taskA() *domain.Task {
	return testutil.NewTestTask("p1", "A", testutil.WithDates("2025-01-01", "2025-01-05"))
}

func TestMachine_MoveByThreeDays(t *testing.T) {
	fc := &fakeCommitter{}
	m := newMachine(fc)
	a := taskA()

	require.NoError(t, m.PointerDown("p1", a, ModeMove))
	assert.Equal(t, Dragging, m.State())
	m.PointerMove(40)
	m.PointerMove(3 * col)

	start, end, ok := m.Preview()
	require.True(t, ok)
	assert.Equal(t, "2025-01-04", calendar.Format(start))
	assert.Equal(t, "2025-01-08", calendar.Format(end))
	assert.Empty(t, fc.commits, "moves never touch the store")

	out, err := m.PointerUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, out)
	require.Len(t, fc.commits, 1)
	assert.Equal(t, "2025-01-04", calendar.Format(fc.commits[0].start))
	assert.Equal(t, "2025-01-08", calendar.Format(fc.commits[0].end))
	assert.Equal(t, Idle, m.State())
}

func TestMachine_RoundsToNearestDay(t *testing.T) {
	cases := []struct {
		px   int
		days int
	}{
		{0, 0},
		{15, 0},
		{16, 1},
		{-16, -1},
		{47, 1},
		{48, 2},
		{-80, -3},
	}
	for _, tc := range cases {
		m := newMachine(&fakeCommitter{})
		require.NoError(t, m.PointerDown("p1", taskA(), ModeMove))
		m.PointerMove(tc.px)
		assert.Equal(t, tc.days, m.Days(), "px=%d", tc.px)
	}
}

func TestMachine_ZeroNetDeltaIsNoop(t *testing.T) {
	fc := &fakeCommitter{}
	m := newMachine(fc)

	require.NoError(t, m.PointerDown("p1", taskA(), ModeMove))
	m.PointerMove(5 * col)
	m.PointerMove(10)

	out, err := m.PointerUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, out)
	assert.Empty(t, fc.commits)
}

func TestMachine_ResizeEnd(t *testing.T) {
	fc := &fakeCommitter{}
	m := newMachine(fc)

	require.NoError(t, m.PointerDown("p1", taskA(), ModeResizeEnd))
	m.PointerMove(2 * col)
	out, err := m.PointerUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, out)
	assert.Equal(t, "2025-01-01", calendar.Format(fc.commits[0].start))
	assert.Equal(t, "2025-01-07", calendar.Format(fc.commits[0].end))
}

func TestMachine_ResizeRejectsInvertedRange(t *testing.T) {
	cases := []struct {
		mode Mode
		px   int
	}{
		{ModeResizeEnd, -5 * col},
		{ModeResizeStart, 5 * col},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			fc := &fakeCommitter{}
			m := newMachine(fc)
			a := taskA()

			require.NoError(t, m.PointerDown("p1", a, tc.mode))
			m.PointerMove(tc.px)

			start, end, _ := m.Preview()
			assert.True(t, start.Equal(a.StartDate))
			assert.True(t, end.Equal(a.EndDate))

			out, err := m.PointerUp(context.Background())
			assert.Equal(t, OutcomeRejected, out)
			assert.ErrorIs(t, err, domain.ErrInvalidRange)
			assert.Empty(t, fc.commits)
			assert.Equal(t, Idle, m.State())
		})
	}
}

func TestMachine_ResizeToSingleDayIsAllowed(t *testing.T) {
	fc := &fakeCommitter{}
	m := newMachine(fc)

	require.NoError(t, m.PointerDown("p1", taskA(), ModeResizeStart))
	m.PointerMove(4 * col)
	out, err := m.PointerUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, out)
	assert.True(t, fc.commits[0].start.Equal(fc.commits[0].end))
}

func TestMachine_CommitErrorIsRejection(t *testing.T) {
	fc := &fakeCommitter{err: errors.New("disk full")}
	m := newMachine(fc)

	require.NoError(t, m.PointerDown("p1", taskA(), ModeMove))
	m.PointerMove(col)
	out, err := m.PointerUp(context.Background())
	assert.Equal(t, OutcomeRejected, out)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, Idle, m.State())
}

func TestMachine_Cancel(t *testing.T) {
	fc := &fakeCommitter{}
	m := newMachine(fc)

	require.NoError(t, m.PointerDown("p1", taskA(), ModeMove))
	m.PointerMove(7 * col)
	m.Cancel()
	assert.Equal(t, Idle, m.State())

	out, err := m.PointerUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, out)
	assert.Empty(t, fc.commits)
}

func TestMachine_GuardsIllegalTransitions(t *testing.T) {
	m := newMachine(&fakeCommitter{})

	m.PointerMove(100)
	_, _, ok := m.Preview()
	assert.False(t, ok)
	_, ok = m.Dragging()
	assert.False(t, ok)

	assert.ErrorIs(t, m.PointerDown("p1", taskA(), Mode("rotate")), ErrUnknownMode)
	assert.Equal(t, Idle, m.State())

	require.NoError(t, m.PointerDown("p1", taskA(), ModeMove))
	assert.ErrorIs(t, m.PointerDown("p1", taskA(), ModeMove), ErrGestureInProgress)

	d, ok := m.Dragging()
	require.True(t, ok)
	assert.Equal(t, ModeMove, d.Mode)
	assert.Zero(t, d.PixelDelta)
}

func TestMachine_MapperFrozenDuringGesture(t *testing.T) {
	m := newMachine(&fakeCommitter{})
	wide := geometry.NewMapper(m.Mapper().Window, 100)

	require.NoError(t, m.PointerDown("p1", taskA(), ModeMove))
	m.SetMapper(wide)
	assert.Equal(t, col, m.Mapper().ColumnWidth)
	m.Cancel()

	m.SetMapper(wide)
	assert.Equal(t, 100, m.Mapper().ColumnWidth)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("resize-start")
	require.NoError(t, err)
	assert.Equal(t, ModeResizeStart, mode)

	_, err = ParseMode("stretch")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestMachine_MoveKeepsDuration(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		fc := &fakeCommitter{}
		m := newMachine(fc)
		a := taskA()
		require.NoError(t, m.PointerDown("p1", a, ModeMove))
		m.PointerMove(rng.Intn(2000) - 1000)
		days := m.Days()

		out, err := m.PointerUp(context.Background())
		require.NoError(t, err)
		if days == 0 {
			assert.Equal(t, OutcomeNoop, out)
			continue
		}
		require.Len(t, fc.commits, 1)
		c := fc.commits[0]
		assert.Equal(t, a.Duration(), calendar.Duration(c.start, c.end))
		assert.Equal(t, days, calendar.DaysBetween(a.StartDate, c.start))
	}
}
