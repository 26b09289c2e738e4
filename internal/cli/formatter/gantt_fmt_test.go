package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows(t *testing.T, opts schedule.ViewOptions) ([]schedule.Row, []*domain.Task) {
	t.Helper()
	phase := testutil.NewTestTask("p", "Phase", testutil.WithDates("2025-01-06", "2025-01-12"))
	a := testutil.NewTestTask("p", "Alpha", testutil.WithParentID(phase.ID),
		testutil.WithDates("2025-01-06", "2025-01-09"), testutil.WithProgress(50))
	b := testutil.NewTestTask("p", "Beta", testutil.WithParentID(phase.ID), testutil.WithOrderIndex(1),
		testutil.WithDates("2025-01-10", "2025-01-12"), testutil.WithBaseline("2025-01-08", "2025-01-10"))
	c := testutil.NewTestTask("p", "Close", testutil.WithOrderIndex(1), testutil.WithDates("2025-01-13", "2025-01-13"))
	tasks := []*domain.Task{phase, a, b, c}
	return schedule.NewTable(tasks).Rows(opts), tasks
}

func textMapper() geometry.Mapper {
	w := geometry.Window{Start: calendar.MustParse("2025-01-06"), End: calendar.MustParse("2025-01-19")}
	return geometry.NewMapper(w, 2)
}

func TestGanttLine_DrawsBarAtMappedCells(t *testing.T) {
	rows, _ := testRows(t, schedule.ViewOptions{})
	opts := GanttOptions{Mapper: textMapper(), LabelWidth: 12, Selected: -1}

	line := stripANSI(GanttLine(rows[1], opts))
	area := []rune(line)[12:]
	require.Len(t, area, 28)
	assert.Equal(t, "████▓▓▓▓", string(area[0:8]))
	assert.Equal(t, ' ', area[8])
	assert.Contains(t, string([]rune(line)[:12]), "Alpha")
}

func TestGanttLine_PreviewAndBaseline(t *testing.T) {
	rows, tasks := testRows(t, schedule.ViewOptions{})
	beta := rows[2]
	require.Equal(t, "Beta", beta.Task.Name)

	opts := GanttOptions{Mapper: textMapper(), LabelWidth: 12, Selected: -1, ShowBaseline: true}
	area := []rune(stripANSI(GanttLine(beta, opts)))[12:]
	assert.Equal(t, "┄┄┄┄", string(area[4:8]), "baseline shows where the bar is not")
	assert.Equal(t, "▓▓", string(area[8:10]))
	assert.Contains(t, stripANSI(GanttLine(beta, opts)), "Beta!")

	opts.Preview = &Preview{TaskID: tasks[2].ID, Start: calendar.MustParse("2025-01-15"), End: calendar.MustParse("2025-01-16")}
	area = []rune(stripANSI(GanttLine(beta, opts)))[12:]
	assert.Equal(t, "▓▓▓▓", string(area[18:22]))
}

func TestRenderGantt_HeaderAndCollapsedPhase(t *testing.T) {
	rows, tasks := testRows(t, schedule.ViewOptions{Collapsed: map[string]bool{}})
	out := stripANSI(RenderGantt(rows, GanttOptions{Mapper: textMapper(), LabelWidth: 12, Selected: -1}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, GanttHeaderLines+4)
	assert.Contains(t, lines[0], "Jan 2025")
	assert.Contains(t, lines[1], "|06")
	assert.Contains(t, lines[1], "|13")
	assert.Contains(t, lines[2], "▾ Phase")

	rows = schedule.NewTable(tasks).Rows(schedule.ViewOptions{Collapsed: map[string]bool{tasks[0].ID: true}})
	out = stripANSI(RenderGantt(rows, GanttOptions{Mapper: textMapper(), LabelWidth: 12, Selected: -1}))
	assert.Contains(t, out, "▸ Phase")
	assert.NotContains(t, out, "Alpha")
}

func TestHitTest(t *testing.T) {
	m := textMapper()
	task := testutil.NewTestTask("p", "A", testutil.WithDates("2025-01-07", "2025-01-09"))
	// Bar spans cells [2, 8).
	assert.Equal(t, HitNone, HitTest(m, task, 1))
	assert.Equal(t, HitStartEdge, HitTest(m, task, 2))
	assert.Equal(t, HitBody, HitTest(m, task, 4))
	assert.Equal(t, HitEndEdge, HitTest(m, task, 7))
	assert.Equal(t, HitNone, HitTest(m, task, 8))

	narrow := testutil.NewTestTask("p", "N", testutil.WithDates("2025-01-07", "2025-01-07"))
	assert.Equal(t, HitBody, HitTest(geometry.NewMapper(m.Window, 1), narrow, 1))
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("abc", 0))
}
