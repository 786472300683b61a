package commands

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RenameProjectCommand renames the project called Project to NewName.
type RenameProjectCommand struct {
	CorrelationID uuid.UUID
	Project       string
	NewName       string
}

type RenameProjectHandler struct {
	projectRepo project.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewRenameProjectHandler(projectRepo project.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RenameProjectHandler {
	return &RenameProjectHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

func (h *RenameProjectHandler) Handle(ctx context.Context, cmd RenameProjectCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		p, err := h.projectRepo.FindByName(txCtx, cmd.Project)
		if err != nil {
			return err
		}
		if err := ensureNameFree(txCtx, h.projectRepo, cmd.NewName, p.ID()); err != nil {
			return err
		}
		if err := p.Rename(cmd.NewName); err != nil {
			return err
		}

		if err := h.projectRepo.Save(txCtx, p); err != nil {
			return err
		}
		return recordEvents(txCtx, h.outboxRepo, p, cmd.CorrelationID)
	})
}
