package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ImportedProject is one project read from a task file.
type ImportedProject struct {
	Name  string
	Tasks []task.Task
}

// ImportProjectsCommand loads projects from an external source. Existing
// projects with the same name have their task list replaced.
type ImportProjectsCommand struct {
	CorrelationID uuid.UUID
	Projects      []ImportedProject
}

type ImportProjectsResult struct {
	Created  []string
	Replaced []string
}

type ImportProjectsHandler struct {
	projectRepo project.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewImportProjectsHandler(projectRepo project.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ImportProjectsHandler {
	return &ImportProjectsHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle imports every project in one transaction; any failure rejects the
// whole batch. Two entries naming the same project, ignoring case, are
// rejected before anything is written.
func (h *ImportProjectsHandler) Handle(ctx context.Context, cmd ImportProjectsCommand) (*ImportProjectsResult, error) {
	if err := checkDistinctNames(cmd.Projects); err != nil {
		return nil, err
	}
	result := &ImportProjectsResult{}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		for _, imported := range cmd.Projects {
			p, err := h.projectRepo.FindByName(txCtx, imported.Name)
			created := false
			switch {
			case errors.Is(err, project.ErrProjectNotFound):
				if p, err = project.New(imported.Name); err != nil {
					return err
				}
				created = true
			case err != nil:
				return err
			}

			if err := p.ReplaceTasks(imported.Tasks); err != nil {
				return fmt.Errorf("project %q: %w", imported.Name, err)
			}
			if err := h.projectRepo.Save(txCtx, p); err != nil {
				return err
			}
			if err := recordEvents(txCtx, h.outboxRepo, p, cmd.CorrelationID); err != nil {
				return err
			}

			if created {
				result.Created = append(result.Created, p.Name())
			} else {
				result.Replaced = append(result.Replaced, p.Name())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func checkDistinctNames(projects []ImportedProject) error {
	seen := make(map[string]string, len(projects))
	for _, imported := range projects {
		key := project.KeyOf(imported.Name)
		if first, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q and %q in the same import", project.ErrDuplicateProject, first, imported.Name)
		}
		seen[key] = imported.Name
	}
	return nil
}
