package repository

import (
	"context"

	"github.com/alexanderramin/gantt/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	AddResource(ctx context.Context, projectID, name string) error
	RemoveResource(ctx context.Context, projectID, name string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
	// SetPredecessors replaces the task's predecessor links.
	SetPredecessors(ctx context.Context, taskID string, preds []domain.Predecessor) error
	// ClearAssignee unassigns every task in the project assigned to name.
	ClearAssignee(ctx context.Context, projectID, name string) (int, error)
	// SetBaseline copies start/end into the baseline columns of every task.
	SetBaseline(ctx context.Context, projectID string) (int, error)
}

type RevisionRepo interface {
	Create(ctx context.Context, r *domain.Revision) error
	GetByID(ctx context.Context, id string) (*domain.Revision, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Revision, error)
	Delete(ctx context.Context, id string) error
}
