package formatter

import (
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskTreeItems_LastSibling(t *testing.T) {
	rows, _ := testRows(t, schedule.ViewOptions{})
	items := TaskTreeItems(rows)
	require.Len(t, items, 4)

	assert.False(t, items[0].IsLast, "Phase has a later root sibling")
	assert.False(t, items[1].IsLast)
	assert.True(t, items[2].IsLast, "Beta is the last child")
	assert.True(t, items[3].IsLast)
	assert.Equal(t, 2, items[1].Level)
	assert.Equal(t, domain.TaskInProgress, items[1].Status)
	assert.True(t, items[0].Phase)
}

func TestFormatTaskTree(t *testing.T) {
	rows, _ := testRows(t, schedule.ViewOptions{})
	out := stripANSI(FormatTaskTree(rows))
	assert.Contains(t, out, "├─ Phase")
	assert.Contains(t, out, "│  ├─ ▶ Alpha")
	assert.Contains(t, out, "│  └─ Beta")
	assert.Contains(t, out, "[ 2025-01-13 1d ]")
}

func TestFormatTaskDetail_MarksMissingPredecessor(t *testing.T) {
	task := testutil.NewTestTask("p", "B",
		testutil.WithPredecessor("known", domain.FinishToStart),
		testutil.WithPredecessor("gone", domain.StartToStart),
		testutil.WithBaseline("2024-12-30", "2025-01-03"))
	names := map[string]string{"known": "Design"}

	out := stripANSI(FormatTaskDetail(task, "USD", func(id string) (string, bool) {
		n, ok := names[id]
		return n, ok
	}))
	assert.Contains(t, out, "Design FS")
	assert.Contains(t, out, "missing gone SS")
	assert.Contains(t, out, "▲ +2d / +2d")
}

func TestFormatVariance(t *testing.T) {
	out := stripANSI(FormatVariance([]service.VarianceEntry{
		{Name: "A", HasBaseline: true},
		{Name: "B", HasBaseline: true, StartSlip: 2, EndSlip: 2, Variance: true},
		{Name: "C"},
	}))
	assert.Contains(t, out, "variance")
	assert.Contains(t, out, "no baseline")
	assert.Contains(t, out, "1 of 3 tasks off baseline")
}

func TestFormatRevisionList(t *testing.T) {
	revs := []*domain.Revision{
		{ID: "r1", Note: "first", Snapshot: &domain.Snapshot{Tasks: []*domain.Task{{ID: "t"}}}},
		{ID: "r2", Note: "just a note"},
	}
	out := stripANSI(FormatRevisionList(revs))
	assert.Contains(t, out, "snapshot (1 tasks)")
	assert.Contains(t, out, "note")
	assert.Contains(t, out, "just a note")
}
