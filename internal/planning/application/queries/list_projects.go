package queries

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
)

type ListProjectsHandler struct {
	projectRepo project.Repository
}

func NewListProjectsHandler(projectRepo project.Repository) *ListProjectsHandler {
	return &ListProjectsHandler{projectRepo: projectRepo}
}

// Handle returns every project, ordered by name.
func (h *ListProjectsHandler) Handle(ctx context.Context) ([]ProjectSummaryDTO, error) {
	projects, err := h.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProjectSummaryDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, toSummaryDTO(p))
	}
	return dtos, nil
}
