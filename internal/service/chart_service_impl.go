package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/geometry"
	"github.com/alexanderramin/gantt/internal/graph"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/schedule"
)

// Chart is everything a renderer needs to draw a project: one mapper shared
// by bars, arrows and the drag machine.
type Chart struct {
	Project  *domain.Project
	Table    *schedule.Table
	Mapper   geometry.Mapper
	Layout   geometry.Layout
	Rows     []schedule.Row
	Arrows   []graph.Arrow
	Dangling []graph.Link
	Hidden   []graph.Link
}

// ChartSettings fixes the chart geometry.
type ChartSettings struct {
	ColumnWidth   int
	WindowPadDays int
	Layout        geometry.Layout
	// Today centres the window of an empty project; defaults to calendar.Today.
	Today func() time.Time
}

// DefaultChartSettings matches the configuration defaults.
func DefaultChartSettings() ChartSettings {
	return ChartSettings{ColumnWidth: 32, WindowPadDays: 3, Layout: geometry.DefaultLayout()}
}

type chartService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	cache    *TaskCache
	settings ChartSettings
	logger   *slog.Logger
}

func NewChartService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	cache *TaskCache,
	settings ChartSettings,
	logger *slog.Logger,
) ChartService {
	if settings.Today == nil {
		settings.Today = calendar.Today
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &chartService{projects: projects, tasks: tasks, cache: cache, settings: settings, logger: logger}
}

// Layout materializes the visible rows and routes their arrows. Links to
// deleted tasks are logged and skipped; they never fail the layout.
func (s *chartService) Layout(ctx context.Context, projectID string, opts schedule.ViewOptions) (*Chart, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := loadTasks(ctx, s.tasks, s.cache, projectID)
	if err != nil {
		return nil, err
	}

	table := schedule.NewTable(tasks)
	window := geometry.WindowFor(tasks, s.settings.WindowPadDays, s.settings.Today())
	chart := &Chart{
		Project: p,
		Table:   table,
		Mapper:  geometry.NewMapper(window, s.settings.ColumnWidth),
		Layout:  s.settings.Layout,
		Rows:    table.Rows(opts),
	}

	exists := func(id string) bool {
		_, ok := table.Get(id)
		return ok
	}
	routed := graph.Route(chart.Rows, exists, chart.Mapper, chart.Layout)
	chart.Arrows = routed.Arrows
	chart.Hidden = routed.Hidden
	chart.Dangling = graph.FromTasks(tasks).Dangling()
	for _, l := range chart.Dangling {
		s.logger.WarnContext(ctx, "dangling_dependency",
			"project", projectID,
			"task", l.Successor,
			"missing_predecessor", l.Predecessor,
			"type", string(l.Type),
		)
	}
	return chart, nil
}
