package project

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for project persistence.
// Finders return ErrProjectNotFound when nothing matches.
type Repository interface {
	Save(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
