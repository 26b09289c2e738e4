// Package geometry maps calendar days to horizontal pixel offsets for a
// visible date window. The chart renderer and the drag/resize state machine
// must share one Mapper so that what is drawn and what is committed agree.
package geometry

import (
	"math"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of day columns in the window.
func (w Window) Days() int {
	return calendar.Duration(w.Start, w.End)
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	return !calendar.Before(d, w.Start) && !calendar.Before(w.End, d)
}

// WindowFor spans every start, end and baseline date of tasks, padded by
// padDays on each side. With no tasks the window is centred on today.
func WindowFor(tasks []*domain.Task, padDays int, today time.Time) Window {
	if padDays < 0 {
		padDays = 0
	}
	var lo, hi time.Time
	seen := false
	extend := func(d time.Time) {
		if !seen {
			lo, hi = calendar.Day(d), calendar.Day(d)
			seen = true
			return
		}
		lo = calendar.Min(lo, d)
		hi = calendar.Max(hi, d)
	}
	for _, t := range tasks {
		extend(t.StartDate)
		extend(t.EndDate)
		if t.BaselineStart != nil {
			extend(*t.BaselineStart)
		}
		if t.BaselineEnd != nil {
			extend(*t.BaselineEnd)
		}
	}
	if !seen {
		lo, hi = calendar.Day(today), calendar.Day(today)
	}
	return Window{
		Start: calendar.AddDays(lo, -padDays),
		End:   calendar.AddDays(hi, padDays),
	}
}

// Mapper converts between days and pixel offsets from the window start.
type Mapper struct {
	Window      Window
	ColumnWidth int
}

// NewMapper builds a Mapper; non-positive column widths fall back to 1.
func NewMapper(w Window, columnWidth int) Mapper {
	if columnWidth < 1 {
		columnWidth = 1
	}
	return Mapper{Window: w, ColumnWidth: columnWidth}
}

// DateToOffset returns the x offset of the left edge of day d.
func (m Mapper) DateToOffset(d time.Time) int {
	return calendar.DaysBetween(m.Window.Start, d) * m.ColumnWidth
}

// OffsetToDate returns the day whose left edge is nearest to x.
func (m Mapper) OffsetToDate(x int) time.Time {
	return calendar.AddDays(m.Window.Start, m.DayDelta(x))
}

// DayDelta converts a signed pixel distance into whole days, rounding half
// away from zero in both directions: -1.5 columns is -2 days, not -1.
func (m Mapper) DayDelta(px int) int {
	return int(math.Round(float64(px) / float64(m.ColumnWidth)))
}

// Columns is the number of day columns in the window.
func (m Mapper) Columns() int {
	return m.Window.Days()
}

// Width is the total pixel width of the window.
func (m Mapper) Width() int {
	return m.Columns() * m.ColumnWidth
}

// Span returns the x offset and pixel width of the inclusive range
// [start, end].
func (m Mapper) Span(start, end time.Time) (x, width int) {
	return m.DateToOffset(start), calendar.Duration(start, end) * m.ColumnWidth
}

// Layout holds the vertical metrics of the row space.
type Layout struct {
	RowHeight int
	BarHeight int
	// Stub is the horizontal run an arrow takes before its first turn.
	Stub int
}

// DefaultLayout matches the default chart configuration.
func DefaultLayout() Layout {
	return Layout{RowHeight: 28, BarHeight: 18, Stub: 8}
}

// RowCenter is the y coordinate of the middle of row i.
func (l Layout) RowCenter(i int) int {
	return i*l.RowHeight + l.RowHeight/2
}

// BarTop is the y coordinate of the top of the bar in row i.
func (l Layout) BarTop(i int) int {
	return i*l.RowHeight + (l.RowHeight-l.BarHeight)/2
}
