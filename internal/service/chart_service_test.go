package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChartService(env *testEnv, logger *slog.Logger) ChartService {
	settings := DefaultChartSettings()
	settings.Today = func() time.Time { return calendar.MustParse("2025-06-15") }
	return NewChartService(env.projRepo, env.taskRepo, env.cache, settings, logger)
}

func TestChartService_LayoutRoutesArrows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t)
	a := env.task(t, p.ID, "A", testutil.WithDates("2025-01-01", "2025-01-05"))
	b := env.task(t, p.ID, "B", testutil.WithDates("2025-01-10", "2025-01-12"),
		testutil.WithPredecessor(a.ID, domain.FinishToStart))

	chart, err := newChartService(env, nil).Layout(ctx, p.ID, schedule.ViewOptions{})
	require.NoError(t, err)

	require.Len(t, chart.Rows, 2)
	assert.Equal(t, "2024-12-29", calendar.Format(chart.Mapper.Window.Start))
	assert.Equal(t, "2025-01-15", calendar.Format(chart.Mapper.Window.End))

	require.Len(t, chart.Arrows, 1)
	arrow := chart.Arrows[0]
	assert.Equal(t, a.ID, arrow.From)
	assert.Equal(t, b.ID, arrow.To)
	first, last := arrow.Points[0], arrow.Points[len(arrow.Points)-1]
	assert.Equal(t, chart.Mapper.DateToOffset(calendar.MustParse("2025-01-06")), first.X)
	assert.Equal(t, chart.Layout.RowCenter(0), first.Y)
	assert.Equal(t, chart.Mapper.DateToOffset(b.StartDate), last.X)
	assert.Equal(t, chart.Layout.RowCenter(1), last.Y)
	assert.Empty(t, chart.Dangling)
	assert.Empty(t, chart.Hidden)
}

func TestChartService_EmptyProjectCentresOnToday(t *testing.T) {
	env := newTestEnv(t)
	p := env.project(t)

	chart, err := newChartService(env, nil).Layout(context.Background(), p.ID, schedule.ViewOptions{})
	require.NoError(t, err)
	assert.Empty(t, chart.Rows)
	assert.Equal(t, "2025-06-12", calendar.Format(chart.Mapper.Window.Start))
	assert.Equal(t, "2025-06-18", calendar.Format(chart.Mapper.Window.End))
}

func TestChartService_CollapsedPredecessorIsHidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t)
	phase := env.task(t, p.ID, "Phase")
	a := env.task(t, p.ID, "A", testutil.WithParentID(phase.ID))
	env.task(t, p.ID, "B", testutil.WithDates("2025-01-06", "2025-01-07"),
		testutil.WithPredecessor(a.ID, domain.FinishToStart))

	chart, err := newChartService(env, nil).Layout(ctx, p.ID,
		schedule.ViewOptions{Collapsed: map[string]bool{phase.ID: true}})
	require.NoError(t, err)

	require.Len(t, chart.Rows, 2)
	assert.True(t, chart.Rows[0].Collapsed)
	assert.Empty(t, chart.Arrows)
	require.Len(t, chart.Hidden, 1)
	assert.Equal(t, a.ID, chart.Hidden[0].Predecessor)
	assert.Empty(t, chart.Dangling)
}

func TestChartService_DanglingLinkIsLoggedAndSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t)
	a := env.task(t, p.ID, "A")
	b := env.task(t, p.ID, "B", testutil.WithDates("2025-01-06", "2025-01-07"),
		testutil.WithPredecessor(a.ID, domain.FinishToStart))
	require.NoError(t, env.tasks.Delete(ctx, a.ID))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	chart, err := newChartService(env, logger).Layout(ctx, p.ID, schedule.ViewOptions{})
	require.NoError(t, err)

	require.Len(t, chart.Rows, 1)
	assert.Empty(t, chart.Arrows)
	require.Len(t, chart.Dangling, 1)
	assert.Equal(t, b.ID, chart.Dangling[0].Successor)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "dangling_dependency")
	assert.Contains(t, out, "missing_predecessor="+a.ID)
}

func TestChartService_UnknownProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := newChartService(env, nil).Layout(context.Background(), "ghost", schedule.ViewOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
