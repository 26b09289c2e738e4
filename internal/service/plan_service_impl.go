package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/google/uuid"
)

// VarianceEntry compares one task's live dates with its baseline.
type VarianceEntry struct {
	TaskID      string `json:"task_id" yaml:"task_id"`
	Name        string `json:"name" yaml:"name"`
	HasBaseline bool   `json:"has_baseline" yaml:"has_baseline"`
	// StartSlip and EndSlip are live minus baseline, in days.
	StartSlip int  `json:"start_slip" yaml:"start_slip"`
	EndSlip   int  `json:"end_slip" yaml:"end_slip"`
	Variance  bool `json:"variance" yaml:"variance"`
}

// VarianceOf builds the entry for a single task.
func VarianceOf(t *domain.Task) VarianceEntry {
	v := VarianceEntry{TaskID: t.ID, Name: t.Name, HasBaseline: t.HasBaseline(), Variance: t.HasVariance()}
	if v.HasBaseline {
		v.StartSlip = calendar.DaysBetween(*t.BaselineStart, t.StartDate)
		v.EndSlip = calendar.DaysBetween(*t.BaselineEnd, t.EndDate)
	}
	return v
}

type planService struct {
	projects  repository.ProjectRepo
	tasks     repository.TaskRepo
	revisions repository.RevisionRepo
	uow       db.UnitOfWork
	cache     *TaskCache
	observer  UseCaseObserver
}

func NewPlanService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	revisions repository.RevisionRepo,
	uow db.UnitOfWork,
	cache *TaskCache,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		projects:  projects,
		tasks:     tasks,
		revisions: revisions,
		uow:       uow,
		cache:     cache,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// SetBaseline overwrites the baseline of every task in the project with its
// current dates.
func (s *planService) SetBaseline(ctx context.Context, projectID string) (n int, err error) {
	fields := map[string]any{"project": projectID}
	defer track(ctx, s.observer, "set-baseline", fields)(&err)

	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return 0, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var txErr error
		n, txErr = repository.NewSQLiteTaskRepo(tx).SetBaseline(ctx, projectID)
		return txErr
	})
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(projectID)
	fields["tasks"] = n
	return n, nil
}

func (s *planService) Variance(ctx context.Context, projectID string) ([]VarianceEntry, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := loadTasks(ctx, s.tasks, s.cache, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]VarianceEntry, 0, len(tasks))
	for _, t := range parentFirst(tasks) {
		out = append(out, VarianceOf(t))
	}
	return out, nil
}

// SaveRevision stores a deep copy of the project's task table.
func (s *planService) SaveRevision(ctx context.Context, projectID, note string) (rev *domain.Revision, err error) {
	fields := map[string]any{"project": projectID}
	defer track(ctx, s.observer, "save-revision", fields)(&err)

	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	rev = newRevision(projectID, note)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks, err := repository.NewSQLiteTaskRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if tasks == nil {
			tasks = []*domain.Task{}
		}
		rev.Snapshot = &domain.Snapshot{Tasks: tasks}
		return repository.NewSQLiteRevisionRepo(tx).Create(ctx, rev)
	})
	if err != nil {
		return nil, err
	}
	fields["revision"] = rev.ID
	fields["tasks"] = len(rev.Snapshot.Tasks)
	return rev, nil
}

// AddNote records a note-only revision. It cannot be restored.
func (s *planService) AddNote(ctx context.Context, projectID, note string) (rev *domain.Revision, err error) {
	defer track(ctx, s.observer, "add-note", map[string]any{"project": projectID})(&err)

	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("note is required")
	}
	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	rev = newRevision(projectID, note)
	if err = s.revisions.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// RestoreRevision replaces the live task table with the revision's snapshot
// in one transaction. Note-only revisions yield domain.ErrUnrestorableRevision
// and leave the project untouched.
func (s *planService) RestoreRevision(ctx context.Context, projectID, revisionID string) (err error) {
	fields := map[string]any{"project": projectID, "revision": revisionID}
	defer track(ctx, s.observer, "restore-revision", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		rev, err := revisionInProject(ctx, repository.NewSQLiteRevisionRepo(tx), projectID, revisionID)
		if err != nil {
			return err
		}
		if !rev.Restorable() {
			return fmt.Errorf("restoring revision %q: %w", revisionID, domain.ErrUnrestorableRevision)
		}

		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := txTasks.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		for _, t := range parentFirst(rev.Snapshot.Tasks) {
			t.ProjectID = projectID
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("restoring task %q: %w", t.ID, err)
			}
		}
		fields["tasks"] = len(rev.Snapshot.Tasks)
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(projectID)
	return nil
}

func (s *planService) DeleteRevision(ctx context.Context, projectID, revisionID string) (err error) {
	defer track(ctx, s.observer, "delete-revision", map[string]any{"project": projectID, "revision": revisionID})(&err)

	if _, err = revisionInProject(ctx, s.revisions, projectID, revisionID); err != nil {
		return err
	}
	return s.revisions.Delete(ctx, revisionID)
}

func (s *planService) ListRevisions(ctx context.Context, projectID string) ([]*domain.Revision, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.revisions.ListByProject(ctx, projectID)
}

func newRevision(projectID, note string) *domain.Revision {
	return &domain.Revision{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
		Note:      strings.TrimSpace(note),
	}
}

// revisionInProject loads a revision and hides revisions of other projects.
func revisionInProject(ctx context.Context, repo repository.RevisionRepo, projectID, revisionID string) (*domain.Revision, error) {
	rev, err := repo.GetByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	if rev.ProjectID != projectID {
		return nil, fmt.Errorf("revision %q in project %q: %w", revisionID, projectID, domain.ErrNotFound)
	}
	return rev, nil
}
