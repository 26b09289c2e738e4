package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	cache    *TaskCache
	observer UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	cache *TaskCache,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		cache:    cache,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer track(ctx, s.observer, "create-project", map[string]any{"name": p.Name})(&err)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Currency == "" {
		p.Currency = domain.DefaultCurrency
	}
	p.Resources = uniqueNames(p.Resources)
	if err = p.Validate(); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer track(ctx, s.observer, "update-project", map[string]any{"project": p.ID})(&err)

	if err = p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer track(ctx, s.observer, "delete-project", map[string]any{"project": id})(&err)

	if err = s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

func (s *projectService) AddResource(ctx context.Context, projectID, name string) (err error) {
	defer track(ctx, s.observer, "add-resource", map[string]any{"project": projectID, "resource": name})(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("resource name is required")
	}
	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return err
	}
	return s.projects.AddResource(ctx, projectID, name)
}

func (s *projectService) RemoveResource(ctx context.Context, projectID, name string) (cleared int, err error) {
	fields := map[string]any{"project": projectID, "resource": name}
	defer track(ctx, s.observer, "remove-resource", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).RemoveResource(ctx, projectID, name); err != nil {
			return err
		}
		n, err := repository.NewSQLiteTaskRepo(tx).ClearAssignee(ctx, projectID, name)
		if err != nil {
			return err
		}
		cleared = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(projectID)
	fields["unassigned"] = cleared
	return cleared, nil
}

func (s *projectService) Stats(ctx context.Context, projectID string) (*ProjectStats, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := loadTasks(ctx, s.tasks, s.cache, projectID)
	if err != nil {
		return nil, err
	}
	st := ComputeStats(p, tasks)
	return &st, nil
}

// uniqueNames trims names and drops blanks and repeats, keeping first
// occurrences in order.
func uniqueNames(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
