package queries

import (
	"context"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
)

type GetMatrixQuery struct {
	Project string
}

type GetMatrixHandler struct {
	projectRepo project.Repository
}

func NewGetMatrixHandler(projectRepo project.Repository) *GetMatrixHandler {
	return &GetMatrixHandler{projectRepo: projectRepo}
}

func (h *GetMatrixHandler) Handle(ctx context.Context, query GetMatrixQuery) (*MatrixDTO, error) {
	p, err := h.projectRepo.FindByName(ctx, query.Project)
	if err != nil {
		return nil, err
	}

	m, err := BuildMatrix(p.Tasks())
	if err != nil {
		return nil, err
	}
	m.Project = p.Name()
	return m, nil
}
