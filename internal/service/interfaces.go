package service

import (
	"context"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/alexanderramin/gantt/internal/schedule"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// Update writes the project's own fields. p.Resources is not written;
	// the resource set changes only through AddResource and RemoveResource.
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	AddResource(ctx context.Context, projectID, name string) error
	// RemoveResource drops the resource and unassigns its tasks, returning
	// how many tasks were unassigned.
	RemoveResource(ctx context.Context, projectID, name string) (int, error)
	Stats(ctx context.Context, projectID string) (*ProjectStats, error)
}

type TaskService interface {
	// Create inserts a task. A positive durationDays overrides EndDate.
	Create(ctx context.Context, t *domain.Task, durationDays int) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByProject returns the project's tasks in tree order.
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	Reschedule(ctx context.Context, projectID, taskID string, start, end time.Time) (*domain.Task, error)
	AddPredecessor(ctx context.Context, taskID, predecessorID string, typ domain.DependencyType) error
	RemovePredecessor(ctx context.Context, taskID, predecessorID string) error
}

type PlanService interface {
	SetBaseline(ctx context.Context, projectID string) (int, error)
	Variance(ctx context.Context, projectID string) ([]VarianceEntry, error)
	SaveRevision(ctx context.Context, projectID, note string) (*domain.Revision, error)
	AddNote(ctx context.Context, projectID, note string) (*domain.Revision, error)
	RestoreRevision(ctx context.Context, projectID, revisionID string) error
	DeleteRevision(ctx context.Context, projectID, revisionID string) error
	ListRevisions(ctx context.Context, projectID string) ([]*domain.Revision, error)
}

type ChartService interface {
	Layout(ctx context.Context, projectID string, opts schedule.ViewOptions) (*Chart, error)
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Project         *domain.Project
	TaskCount       int
	DependencyCount int
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	Import(ctx context.Context, plan *importer.PlanFile) (*ImportResult, error)
}
