package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common planning workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("plan_project").
		Description("Walk through a project's Eisenhower matrix and action plan.").
		Argument("project", "Name of the project to plan", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			project := args["project"]
			if project == "" {
				project = "[Please name the project]"
			}

			return &mcp.PromptResult{
				Description: "Project Planning",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Help me decide what to work on in the project "%s".

1. Use plan.matrix to see how the tasks spread across the quadrants
2. Use plan.prioritize to get the action plan

Then:
- Summarize what to do first and why
- Point out tasks in "Not Important, Not Urgent" that could be dropped
- If the plan reports a cycle or an unknown dependency, explain which tasks
  are involved and suggest how to fix them with task.remove and task.add`, project),
						},
					},
				},
			}, nil
		})

	srv.Prompt("capture_tasks").
		Description("Turn a free-form list of todos into rated tasks and preview the plan.").
		Argument("notes", "Free-form list of things to do", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			notes := args["notes"]
			if notes == "" {
				notes = "[Paste your todo list here]"
			}

			return &mcp.PromptResult{
				Description: "Task Capture",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Here is my todo list:

%s

For each item, propose a short task name, an urgency and an importance from 1
to 5, and the other items it depends on. Call plan.preview with the result and
show me the matrix and the plan before adding anything to a project.`, notes),
						},
					},
				},
			}, nil
		})

	return nil
}
