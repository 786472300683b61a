package commands

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateTaskCommand changes the task called Task. Nil fields keep their
// current value.
type UpdateTaskCommand struct {
	CorrelationID uuid.UUID
	Project       string
	Task          string
	Name          *string
	Urgency       *int
	Importance    *int
	Dependencies  *[]string
}

type UpdateTaskHandler struct {
	projectRepo project.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewUpdateTaskHandler(projectRepo project.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		p, err := h.projectRepo.FindByName(txCtx, cmd.Project)
		if err != nil {
			return err
		}
		current, ok := p.Task(cmd.Task)
		if !ok {
			return project.ErrTaskNotFound
		}

		name := current.Name()
		if cmd.Name != nil {
			name = *cmd.Name
		}
		urgency := current.Urgency().Int()
		if cmd.Urgency != nil {
			urgency = *cmd.Urgency
		}
		importance := current.Importance().Int()
		if cmd.Importance != nil {
			importance = *cmd.Importance
		}
		deps := current.Dependencies()
		if cmd.Dependencies != nil {
			deps = *cmd.Dependencies
		}

		updated, err := task.New(name, urgency, importance, deps)
		if err != nil {
			return err
		}
		if err := p.UpdateTask(cmd.Task, updated); err != nil {
			return err
		}

		if err := h.projectRepo.Save(txCtx, p); err != nil {
			return err
		}
		return recordEvents(txCtx, h.outboxRepo, p, cmd.CorrelationID)
	})
}
