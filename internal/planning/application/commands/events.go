package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// recordEvents moves the project's pending events into the outbox, tagged
// with the command's correlation ID.
func recordEvents(ctx context.Context, outboxRepo outbox.Repository, p *project.Project, correlationID uuid.UUID) error {
	events := p.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(correlationID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	p.ClearDomainEvents()
	return nil
}

// ensureNameFree fails with ErrDuplicateProject when another project already
// uses name. except is the project being renamed, if any.
func ensureNameFree(ctx context.Context, repo project.Repository, name string, except uuid.UUID) error {
	existing, err := repo.FindByName(ctx, name)
	if errors.Is(err, project.ErrProjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID() != except {
		return project.ErrDuplicateProject
	}
	return nil
}
