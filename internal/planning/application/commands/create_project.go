package commands

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateProjectCommand contains the data needed to create a project.
type CreateProjectCommand struct {
	CorrelationID uuid.UUID
	Name          string
}

// CreateProjectResult contains the result of creating a project.
type CreateProjectResult struct {
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
}

// CreateProjectHandler handles the CreateProjectCommand.
type CreateProjectHandler struct {
	projectRepo project.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewCreateProjectHandler creates a new CreateProjectHandler.
func NewCreateProjectHandler(projectRepo project.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateProjectHandler {
	return &CreateProjectHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the CreateProjectCommand.
func (h *CreateProjectHandler) Handle(ctx context.Context, cmd CreateProjectCommand) (*CreateProjectResult, error) {
	var result *CreateProjectResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		p, err := project.New(cmd.Name)
		if err != nil {
			return err
		}
		if err := ensureNameFree(txCtx, h.projectRepo, p.Name(), uuid.Nil); err != nil {
			return err
		}

		if err := h.projectRepo.Save(txCtx, p); err != nil {
			return err
		}
		if err := recordEvents(txCtx, h.outboxRepo, p, cmd.CorrelationID); err != nil {
			return err
		}

		result = &CreateProjectResult{ProjectID: p.ID(), Name: p.Name()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
