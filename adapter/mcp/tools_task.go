package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
)

type taskAddInput struct {
	Project      string   `json:"project" jsonschema:"required"`
	Name         string   `json:"name" jsonschema:"required"`
	Urgency      int      `json:"urgency" jsonschema:"required"`
	Importance   int      `json:"importance" jsonschema:"required"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type taskRemoveInput struct {
	Project string `json:"project" jsonschema:"required"`
	Name    string `json:"name" jsonschema:"required"`
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("task.add").
		Description("Add a task to a project. Urgency and importance range from 1 to 5; dependencies must name existing tasks of the same project.").
		Handler(func(ctx context.Context, input taskAddInput) (map[string]any, error) {
			if app.AddTaskHandler == nil {
				return nil, errNoDatabase
			}
			projectName, err := requireName("project", input.Project)
			if err != nil {
				return nil, err
			}

			if err := app.AddTaskHandler.Handle(ctx, commands.AddTaskCommand{
				Project:      projectName,
				Name:         input.Name,
				Urgency:      input.Urgency,
				Importance:   input.Importance,
				Dependencies: input.Dependencies,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"project": projectName, "task": input.Name, "added": true}, nil
		})

	srv.Tool("task.remove").
		Description("Remove a task. Fails while other tasks depend on it.").
		Handler(func(ctx context.Context, input taskRemoveInput) (map[string]any, error) {
			if app.RemoveTaskHandler == nil {
				return nil, errNoDatabase
			}
			projectName, err := requireName("project", input.Project)
			if err != nil {
				return nil, err
			}
			taskName, err := requireName("name", input.Name)
			if err != nil {
				return nil, err
			}

			if err := app.RemoveTaskHandler.Handle(ctx, commands.RemoveTaskCommand{
				Project: projectName,
				Task:    taskName,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"project": projectName, "task": taskName, "removed": true}, nil
		})

	return nil
}
