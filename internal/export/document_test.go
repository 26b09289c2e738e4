package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/graph"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleChart(t *testing.T) *service.Chart {
	t.Helper()
	p := testutil.NewTestProject("Launch", testutil.WithResources("Ana"))
	phase := testutil.NewTestTask(p.ID, "Phase", testutil.WithDates("2025-01-01", "2025-01-10"))
	a := testutil.NewTestTask(p.ID, "A", testutil.WithParentID(phase.ID),
		testutil.WithDates("2025-01-01", "2025-01-04"), testutil.WithProgress(50),
		testutil.WithBaseline("2025-01-01", "2025-01-04"))
	b := testutil.NewTestTask(p.ID, "B", testutil.WithParentID(phase.ID), testutil.WithOrderIndex(1),
		testutil.WithDates("2025-01-07", "2025-01-10"), testutil.WithBaseline("2025-01-05", "2025-01-08"),
		testutil.WithPredecessor(a.ID, domain.FinishToStart), testutil.WithPredecessor("gone", domain.StartToStart))
	tasks := []*domain.Task{phase, a, b}

	table := schedule.NewTable(tasks)
	mapper := geometry.NewMapper(geometry.WindowFor(tasks, 2, calendar.Today()), 20)
	layout := geometry.DefaultLayout()
	rows := table.Rows(schedule.ViewOptions{})
	routed := graph.Route(rows, func(id string) bool { _, ok := table.Get(id); return ok }, mapper, layout)
	return &service.Chart{
		Project:  p,
		Table:    table,
		Mapper:   mapper,
		Layout:   layout,
		Rows:     rows,
		Arrows:   routed.Arrows,
		Dangling: graph.FromTasks(tasks).Dangling(),
		Hidden:   routed.Hidden,
	}
}

func TestBuild(t *testing.T) {
	chart := sampleChart(t)
	doc := Build(chart, service.ComputeStats(chart.Project, chart.Table.Tasks()))

	assert.Equal(t, "Launch", doc.Project.Name)
	assert.Equal(t, Window{Start: "2024-12-30", End: "2025-01-12", Days: 14}, doc.Window)
	assert.Equal(t, 280, doc.Geometry.Width)
	assert.Equal(t, 3*28, doc.Geometry.Height)

	require.Len(t, doc.Rows, 3)
	phase, a, b := doc.Rows[0], doc.Rows[1], doc.Rows[2]

	assert.True(t, phase.Phase)
	assert.Equal(t, ColorPhase, phase.Color)
	assert.Nil(t, phase.Baseline)

	assert.Equal(t, 1, a.Depth)
	assert.Equal(t, phase.TaskID, a.ParentID)
	assert.Equal(t, Rect{X: 40, Y: 28 + 5, Width: 80, Height: 18}, a.Bar)
	assert.Equal(t, 40, a.ProgressWidth)
	assert.Equal(t, ColorInProgress, a.Color)
	assert.False(t, a.Variance)
	require.NotNil(t, a.Baseline)
	assert.Equal(t, a.Bar.X, a.Baseline.X)

	assert.True(t, b.Variance)
	assert.Equal(t, ColorVariance, b.Color)
	assert.Equal(t, 160, b.Bar.X)
	assert.Equal(t, 120, b.Baseline.X)

	require.Len(t, doc.Arrows, 1)
	assert.Equal(t, a.TaskID, doc.Arrows[0].From)
	require.Len(t, doc.Dangling, 1)
	assert.Equal(t, "gone", doc.Dangling[0].Predecessor)

	assert.Equal(t, 3, doc.Stats.TaskCount)
}

func TestEncode_JSON(t *testing.T) {
	chart := sampleChart(t)
	doc := Build(chart, service.ComputeStats(chart.Project, chart.Table.Tasks()))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "rows")
	assert.Contains(t, decoded, "arrows")
	assert.Contains(t, buf.String(), `"column_width": 20`)
}

func TestEncode_YAML(t *testing.T) {
	chart := sampleChart(t)
	doc := Build(chart, service.ComputeStats(chart.Project, chart.Table.Tasks()))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatYAML))

	var decoded Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, doc.Window, decoded.Window)
	assert.Len(t, decoded.Rows, 3)
	assert.Equal(t, doc.Arrows[0].Points, decoded.Arrows[0].Points)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("svg")
	assert.Error(t, err)
	assert.Error(t, Encode(&bytes.Buffer{}, Document{}, Format("svg")))
}
