package queries

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
)

// GetProjectQuery selects a project by name.
type GetProjectQuery struct {
	Project string
}

type GetProjectHandler struct {
	projectRepo project.Repository
}

func NewGetProjectHandler(projectRepo project.Repository) *GetProjectHandler {
	return &GetProjectHandler{projectRepo: projectRepo}
}

func (h *GetProjectHandler) Handle(ctx context.Context, query GetProjectQuery) (*ProjectDTO, error) {
	p, err := h.projectRepo.FindByName(ctx, query.Project)
	if err != nil {
		return nil, err
	}

	dto := &ProjectDTO{
		ProjectSummaryDTO: toSummaryDTO(p),
		Tasks:             make([]TaskDTO, 0, p.Len()),
	}
	for _, t := range p.Tasks() {
		dto.Tasks = append(dto.Tasks, toTaskDTO(t))
	}
	return dto, nil
}
