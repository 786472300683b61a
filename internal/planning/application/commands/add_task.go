package commands

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// AddTaskCommand contains the data needed to add a task to a project.
type AddTaskCommand struct {
	CorrelationID uuid.UUID
	Project       string
	Name          string
	Urgency       int
	Importance    int
	Dependencies  []string
}

type AddTaskHandler struct {
	projectRepo project.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

func NewAddTaskHandler(projectRepo project.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AddTaskHandler {
	return &AddTaskHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle validates the task, adds it to the project and records a task.added event.
func (h *AddTaskHandler) Handle(ctx context.Context, cmd AddTaskCommand) error {
	t, err := task.New(cmd.Name, cmd.Urgency, cmd.Importance, cmd.Dependencies)
	if err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		p, err := h.projectRepo.FindByName(txCtx, cmd.Project)
		if err != nil {
			return err
		}
		if err := p.AddTask(t); err != nil {
			return err
		}

		if err := h.projectRepo.Save(txCtx, p); err != nil {
			return err
		}
		return recordEvents(txCtx, h.outboxRepo, p, cmd.CorrelationID)
	})
}
