package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/alexanderramin/gantt/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	plan, err := importer.LoadPlanFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading plan file: %w", err)
	}
	return s.Import(ctx, plan)
}

// Import validates the whole plan, then writes the project, its resources,
// tasks and links in one transaction. Nothing is written if any check fails.
func (s *importService) Import(ctx context.Context, file *importer.PlanFile) (result *ImportResult, err error) {
	fields := map[string]any{"project": file.Project.Name}
	defer track(ctx, s.observer, "import-plan", fields)(&err)

	if errs := importer.ValidatePlanFile(file); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed:\n%w", errors.Join(errs...))
	}
	plan, err := importer.Convert(file)
	if err != nil {
		return nil, fmt.Errorf("converting plan: %w", err)
	}
	if err = plan.Project.Validate(); err != nil {
		return nil, err
	}
	for _, t := range plan.Tasks {
		if err = t.Validate(); err != nil {
			return nil, err
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, plan.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		txTasks := repository.NewSQLiteTaskRepo(tx)
		for _, t := range plan.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &ImportResult{
		Project:         plan.Project,
		TaskCount:       len(plan.Tasks),
		DependencyCount: plan.DependencyCount(),
	}
	fields["tasks"] = result.TaskCount
	fields["dependencies"] = result.DependencyCount
	return result, nil
}
