package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
)

type planPreviewInput struct {
	Tasks []queries.TaskInput `json:"tasks" jsonschema:"required"`
}

func registerPlanTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("plan.matrix").
		Description("Classify a project's tasks into the four Eisenhower quadrants").
		Handler(func(ctx context.Context, input projectNameInput) (*queries.MatrixDTO, error) {
			if app.GetMatrixHandler == nil {
				return nil, errNoDatabase
			}
			name, err := requireName("project", input.Project)
			if err != nil {
				return nil, err
			}
			return app.GetMatrixHandler.Handle(ctx, queries.GetMatrixQuery{Project: name})
		})

	srv.Tool("plan.prioritize").
		Description("Compute a project's action plan: dependencies first, then highest score (importance*10 + urgency), ties in insertion order").
		Handler(func(ctx context.Context, input projectNameInput) (*queries.ActionPlanDTO, error) {
			if app.GetActionPlanHandler == nil {
				return nil, errNoDatabase
			}
			name, err := requireName("project", input.Project)
			if err != nil {
				return nil, err
			}
			return app.GetActionPlanHandler.Handle(ctx, queries.GetActionPlanQuery{Project: name})
		})

	srv.Tool("plan.preview").
		Description("Classify and prioritize an ad-hoc task list without storing it").
		Handler(func(ctx context.Context, input planPreviewInput) (*queries.PreviewResult, error) {
			return deps.Preview.Handle(queries.PreviewPlanQuery{Tasks: input.Tasks})
		})

	return nil
}
