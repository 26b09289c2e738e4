package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/charmbracelet/lipgloss"
)

// GanttHeaderLines is the number of lines RenderGantt prints above the
// first row.
const GanttHeaderLines = 2

// MinLabelWidth is the narrowest label column RenderGantt draws.
const MinLabelWidth = 8

const (
	barDone     = '█'
	barOpen     = '▓'
	barPhase    = '━'
	barBaseline = '┄'
	todayMark   = '┊'
	emptyCell   = ' '
)

// Preview overrides one task's dates while a gesture is in flight.
type Preview struct {
	TaskID string
	Start  time.Time
	End    time.Time
}

// GanttOptions controls text rendering. Mapper works in terminal cells:
// its ColumnWidth is the number of cells per day.
type GanttOptions struct {
	Mapper       geometry.Mapper
	LabelWidth   int
	Selected     int
	Preview      *Preview
	Today        time.Time
	ShowBaseline bool
}

// RenderGantt draws a ruler followed by one line per row.
func RenderGantt(rows []schedule.Row, opts GanttOptions) string {
	opts.LabelWidth = max(opts.LabelWidth, MinLabelWidth)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", opts.LabelWidth) + StyleHeader.Render(monthRuler(opts.Mapper)) + "\n")
	b.WriteString(strings.Repeat(" ", opts.LabelWidth) + Dim(dayRuler(opts.Mapper)) + "\n")
	for _, r := range rows {
		b.WriteString(GanttLine(r, opts) + "\n")
	}
	return b.String()
}

// GanttLine renders the label column and bar area of one row.
func GanttLine(r schedule.Row, opts GanttOptions) string {
	t := r.Task
	start, end := t.StartDate, t.EndDate
	previewing := opts.Preview != nil && opts.Preview.TaskID == t.ID
	if previewing {
		start, end = opts.Preview.Start, opts.Preview.End
	}

	label := rowLabel(r, opts.LabelWidth)
	if r.Index == opts.Selected {
		label = lipgloss.NewStyle().Reverse(true).Render(label)
	}

	m := opts.Mapper
	cells := make([]rune, m.Width())
	for i := range cells {
		cells[i] = emptyCell
	}
	if !opts.Today.IsZero() && m.Window.Contains(opts.Today) {
		if x := m.DateToOffset(opts.Today); x < len(cells) {
			cells[x] = todayMark
		}
	}
	if opts.ShowBaseline && t.HasBaseline() {
		bx, bw := m.Span(*t.BaselineStart, *t.BaselineEnd)
		fill(cells, bx, bw, barBaseline)
	}

	bx, bw := m.Span(start, end)
	done := int(float64(bw) * t.ProgressPct / 100)
	style := StatusStyle(t.EffectiveStatus())
	switch {
	case previewing:
		style = StyleYellowBold
	case r.IsPhase:
		style = StyleBold
	case t.HasVariance():
		style = StyleRed
	}

	lo, hi := clamp(bx, len(cells)), clamp(bx+bw, len(cells))
	var bar strings.Builder
	for x := lo; x < hi; x++ {
		switch {
		case r.IsPhase:
			bar.WriteRune(barPhase)
		case x-bx < done:
			bar.WriteRune(barDone)
		default:
			bar.WriteRune(barOpen)
		}
	}
	return label + Dim(string(cells[:lo])) + style.Render(bar.String()) + Dim(string(cells[hi:]))
}

func rowLabel(r schedule.Row, width int) string {
	marker := "  "
	if r.IsPhase {
		marker = "▾ "
		if r.Collapsed {
			marker = "▸ "
		}
	}
	suffix := ""
	if r.Task.HasVariance() {
		suffix = "!"
	}
	text := strings.Repeat(" ", 2*r.Depth) + marker + r.Task.Name
	text = truncate(text, width-1-len(suffix)) + suffix
	return text + strings.Repeat(" ", max(0, width-lipgloss.Width(text)))
}

func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func fill(cells []rune, x, w int, r rune) {
	for i := clamp(x, len(cells)); i < clamp(x+w, len(cells)); i++ {
		cells[i] = r
	}
}

func clamp(x, n int) int {
	return min(max(x, 0), n)
}

// monthRuler labels the first visible day of every month.
func monthRuler(m geometry.Mapper) string {
	line := []rune(strings.Repeat(" ", m.Width()))
	for d := m.Window.Start; !calendar.Before(m.Window.End, d); d = calendar.AddDays(d, 1) {
		if d.Day() == 1 || d.Equal(m.Window.Start) {
			writeAt(line, m.DateToOffset(d), d.Format("Jan 2006"))
		}
	}
	return string(line)
}

// dayRuler labels Mondays with their day of month.
func dayRuler(m geometry.Mapper) string {
	line := []rune(strings.Repeat(" ", m.Width()))
	for d := m.Window.Start; !calendar.Before(m.Window.End, d); d = calendar.AddDays(d, 1) {
		if d.Weekday() == time.Monday {
			writeAt(line, m.DateToOffset(d), "|"+d.Format("02"))
		}
	}
	return string(line)
}

func writeAt(line []rune, x int, text string) {
	for i, r := range []rune(text) {
		if x+i >= len(line) {
			return
		}
		line[x+i] = r
	}
}

// BarHit says which part of a bar a cell falls on.
type BarHit int

const (
	HitNone BarHit = iota
	HitStartEdge
	HitBody
	HitEndEdge
)

// HitTest maps a bar-area cell to a part of the task's bar. Bars narrower
// than three cells have no edges and can only be moved.
func HitTest(m geometry.Mapper, t *domain.Task, x int) BarHit {
	bx, bw := m.Span(t.StartDate, t.EndDate)
	if x < bx || x >= bx+bw {
		return HitNone
	}
	if bw >= 3 {
		switch x {
		case bx:
			return HitStartEdge
		case bx + bw - 1:
			return HitEndEdge
		}
	}
	return HitBody
}
