package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/graph"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/google/uuid"
)

type taskService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	cache    *TaskCache
	observer UseCaseObserver
}

func NewTaskService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	cache *TaskCache,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		cache:    cache,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task, durationDays int) (err error) {
	defer track(ctx, s.observer, "create-task", map[string]any{"project": t.ProjectID, "name": t.Name})(&err)

	if _, err = s.projects.GetByID(ctx, t.ProjectID); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Name = strings.TrimSpace(t.Name)
	if t.StartDate.IsZero() {
		t.StartDate = calendar.Today()
	}
	switch {
	case durationDays > 0:
		t.EndDate = calendar.EndFromStart(t.StartDate, durationDays)
	case t.EndDate.IsZero():
		t.EndDate = t.StartDate
	}
	t.Predecessors = uniquePredecessors(t.Predecessors)
	t.Normalize()
	if err = t.Validate(); err != nil {
		return err
	}

	tasks, err := loadTasks(ctx, s.tasks, s.cache, t.ProjectID)
	if err != nil {
		return err
	}
	table := schedule.NewTable(tasks)
	if err = validateParent(table, t); err != nil {
		return err
	}
	for _, p := range t.Predecessors {
		if _, ok := table.Get(p.TaskID); !ok {
			return fmt.Errorf("predecessor %q: %w", p.TaskID, domain.ErrNotFound)
		}
	}
	if t.OrderIndex == 0 {
		parentID := ""
		if t.ParentID != nil {
			parentID = *t.ParentID
		}
		t.OrderIndex = table.NextOrderIndex(parentID)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, t)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(t.ProjectID)
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	tasks, err := loadTasks(ctx, s.tasks, s.cache, projectID)
	if err != nil {
		return nil, err
	}
	return schedule.NewTable(tasks).Tasks(), nil
}

// Update validates the whole task against its project before writing.
// Links that already point at deleted tasks are kept; new links must
// resolve and must not close a cycle.
func (s *taskService) Update(ctx context.Context, t *domain.Task) (err error) {
	defer track(ctx, s.observer, "update-task", map[string]any{"task": t.ID})(&err)

	stored, err := s.tasks.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if t.ProjectID != stored.ProjectID {
		return fmt.Errorf("%w: task %q cannot move to another project", domain.ErrInvalidTask, t.ID)
	}
	t.Name = strings.TrimSpace(t.Name)
	t.Predecessors = uniquePredecessors(t.Predecessors)
	t.Normalize()
	if err = t.Validate(); err != nil {
		return err
	}

	tasks, err := loadTasks(ctx, s.tasks, s.cache, t.ProjectID)
	if err != nil {
		return err
	}
	table := schedule.NewTable(tasks)
	if err = validateParent(table, t); err != nil {
		return err
	}
	for _, p := range t.Predecessors {
		if stored.HasPredecessor(p.TaskID) {
			continue
		}
		if _, ok := table.Get(p.TaskID); !ok {
			return fmt.Errorf("predecessor %q: %w", p.TaskID, domain.ErrNotFound)
		}
	}
	if err = checkAcyclic(replaceTask(tasks, t)); err != nil {
		return err
	}

	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Update(ctx, t)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(t.ProjectID)
	return nil
}

// Delete removes the task and its descendants. Links that other tasks hold
// to it are left dangling.
func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	defer track(ctx, s.observer, "delete-task", map[string]any{"task": id})(&err)

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(t.ProjectID)
	return nil
}

// Reschedule sets new dates on a task. An inverted range is rejected with
// domain.ErrInvalidRange and nothing is written.
func (s *taskService) Reschedule(ctx context.Context, projectID, taskID string, start, end time.Time) (t *domain.Task, err error) {
	fields := map[string]any{"project": projectID, "task": taskID}
	defer track(ctx, s.observer, "reschedule-task", fields)(&err)

	start, end = calendar.Day(start), calendar.Day(end)
	fields["start"] = calendar.Format(start)
	fields["end"] = calendar.Format(end)
	if calendar.Before(end, start) {
		return nil, fmt.Errorf("rescheduling task %q: %w (%s < %s)", taskID, domain.ErrInvalidRange,
			calendar.Format(end), calendar.Format(start))
	}

	t, err = s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.ProjectID != projectID {
		return nil, fmt.Errorf("task %q in project %q: %w", taskID, projectID, domain.ErrNotFound)
	}
	t.StartDate = start
	t.EndDate = end
	t.UpdatedAt = time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(projectID)
	return t, nil
}

func (s *taskService) AddPredecessor(ctx context.Context, taskID, predecessorID string, typ domain.DependencyType) (err error) {
	fields := map[string]any{"task": taskID, "predecessor": predecessorID, "type": string(typ)}
	defer track(ctx, s.observer, "add-predecessor", fields)(&err)

	if typ == "" {
		typ = domain.FinishToStart
	}
	if !domain.ValidDependencyTypes[string(typ)] {
		return fmt.Errorf("%w: dependency type %q", domain.ErrInvalidTask, typ)
	}
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	tasks, err := loadTasks(ctx, s.tasks, s.cache, t.ProjectID)
	if err != nil {
		return err
	}
	if _, ok := schedule.NewTable(tasks).Get(predecessorID); !ok {
		return fmt.Errorf("predecessor %q: %w", predecessorID, domain.ErrNotFound)
	}
	if graph.FromTasks(tasks).WouldCycle(taskID, predecessorID) {
		return fmt.Errorf("linking %q after %q: %w", taskID, predecessorID, domain.ErrCyclicDependency)
	}

	preds := make([]domain.Predecessor, 0, len(t.Predecessors)+1)
	replaced := false
	for _, p := range t.Predecessors {
		if p.TaskID == predecessorID {
			p.Type = typ
			replaced = true
		}
		preds = append(preds, p)
	}
	if !replaced {
		preds = append(preds, domain.Predecessor{TaskID: predecessorID, Type: typ})
	}
	if err = s.setPredecessors(ctx, taskID, preds); err != nil {
		return err
	}
	s.cache.Invalidate(t.ProjectID)
	return nil
}

// RemovePredecessor drops a link, dangling or not.
func (s *taskService) RemovePredecessor(ctx context.Context, taskID, predecessorID string) (err error) {
	defer track(ctx, s.observer, "remove-predecessor", map[string]any{"task": taskID, "predecessor": predecessorID})(&err)

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !t.HasPredecessor(predecessorID) {
		return fmt.Errorf("link %q -> %q: %w", predecessorID, taskID, domain.ErrNotFound)
	}
	var preds []domain.Predecessor
	for _, p := range t.Predecessors {
		if p.TaskID != predecessorID {
			preds = append(preds, p)
		}
	}
	if err = s.setPredecessors(ctx, taskID, preds); err != nil {
		return err
	}
	s.cache.Invalidate(t.ProjectID)
	return nil
}

// setPredecessors replaces the task's links in one transaction so a failed
// insert leaves the previous set in place.
func (s *taskService) setPredecessors(ctx context.Context, taskID string, preds []domain.Predecessor) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).SetPredecessors(ctx, taskID, preds)
	})
}

// validateParent requires the parent to exist in the same project and not
// to sit inside the task's own subtree.
func validateParent(table *schedule.Table, t *domain.Task) error {
	if t.ParentID == nil {
		return nil
	}
	parentID := *t.ParentID
	if parentID == t.ID {
		return fmt.Errorf("%w: task %q cannot be its own parent", domain.ErrInvalidTask, t.Name)
	}
	if _, ok := table.Get(parentID); !ok {
		return fmt.Errorf("parent task %q: %w", parentID, domain.ErrNotFound)
	}
	if table.IsDescendant(t.ID, parentID) {
		return fmt.Errorf("%w: task %q cannot be nested under its own descendant", domain.ErrInvalidTask, t.Name)
	}
	return nil
}

func checkAcyclic(tasks []*domain.Task) error {
	if cycle := graph.FromTasks(tasks).Cycle(); cycle != nil {
		return fmt.Errorf("%w: %s", domain.ErrCyclicDependency, strings.Join(cycle, " -> "))
	}
	return nil
}

// replaceTask returns tasks with the entry sharing t's ID swapped for t.
func replaceTask(tasks []*domain.Task, t *domain.Task) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks)+1)
	found := false
	for _, existing := range tasks {
		if existing.ID == t.ID {
			out = append(out, t)
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, t)
	}
	return out
}

func uniquePredecessors(preds []domain.Predecessor) []domain.Predecessor {
	if len(preds) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(preds))
	out := make([]domain.Predecessor, 0, len(preds))
	for _, p := range preds {
		if seen[p.TaskID] {
			continue
		}
		seen[p.TaskID] = true
		if p.Type == "" {
			p.Type = domain.FinishToStart
		}
		out = append(out, p)
	}
	return out
}
