package commands

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteProjectCommand removes a project and all of its tasks.
type DeleteProjectCommand struct {
	CorrelationID uuid.UUID
	Project       string
}

type DeleteProjectHandler struct {
	projectRepo project.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewDeleteProjectHandler(projectRepo project.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteProjectHandler {
	return &DeleteProjectHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

func (h *DeleteProjectHandler) Handle(ctx context.Context, cmd DeleteProjectCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		p, err := h.projectRepo.FindByName(txCtx, cmd.Project)
		if err != nil {
			return err
		}

		p.MarkDeleted()
		if err := h.projectRepo.Delete(txCtx, p.ID()); err != nil {
			return err
		}
		return recordEvents(txCtx, h.outboxRepo, p, cmd.CorrelationID)
	})
}
