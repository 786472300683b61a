package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
)

type projectNameInput struct {
	Project string `json:"project" jsonschema:"required"`
}

type projectCreateInput struct {
	Name string `json:"name" jsonschema:"required"`
}

func registerProjectTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("project.list").
		Description("List projects with their task counts").
		Handler(func(ctx context.Context, input struct{}) ([]queries.ProjectSummaryDTO, error) {
			if app.ListProjectsHandler == nil {
				return nil, errNoDatabase
			}
			return app.ListProjectsHandler.Handle(ctx)
		})

	srv.Tool("project.create").
		Description("Create an empty project. Names are unique regardless of case.").
		Handler(func(ctx context.Context, input projectCreateInput) (*commands.CreateProjectResult, error) {
			if app.CreateProjectHandler == nil {
				return nil, errNoDatabase
			}
			name, err := requireName("name", input.Name)
			if err != nil {
				return nil, err
			}
			return app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: name})
		})

	srv.Tool("project.show").
		Description("Show a project and its tasks in insertion order").
		Handler(func(ctx context.Context, input projectNameInput) (*queries.ProjectDTO, error) {
			if app.GetProjectHandler == nil {
				return nil, errNoDatabase
			}
			name, err := requireName("project", input.Project)
			if err != nil {
				return nil, err
			}
			return app.GetProjectHandler.Handle(ctx, queries.GetProjectQuery{Project: name})
		})

	return nil
}
