package commands

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RemoveTaskCommand deletes a task that nothing else depends on.
type RemoveTaskCommand struct {
	CorrelationID uuid.UUID
	Project       string
	Task          string
}

type RemoveTaskHandler struct {
	projectRepo project.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewRemoveTaskHandler(projectRepo project.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RemoveTaskHandler {
	return &RemoveTaskHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

func (h *RemoveTaskHandler) Handle(ctx context.Context, cmd RemoveTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		p, err := h.projectRepo.FindByName(txCtx, cmd.Project)
		if err != nil {
			return err
		}
		if err := p.RemoveTask(cmd.Task); err != nil {
			return err
		}

		if err := h.projectRepo.Save(txCtx, p); err != nil {
			return err
		}
		return recordEvents(txCtx, h.outboxRepo, p, cmd.CorrelationID)
	})
}
