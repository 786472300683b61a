package project

import (
	"context"
	"strings"
	"testing"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/adapter/cli/clitest"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCmd_CreatesProject(t *testing.T) {
	app := clitest.Setup(t)

	out, err := clitest.Run(t, createCmd, "Website Redesign")
	require.NoError(t, err)
	assert.Contains(t, out, "Project created: Website Redesign")

	projects, err := app.ListProjectsHandler.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Website Redesign", projects[0].Name)
	assert.Zero(t, projects[0].TaskCount)
}

func TestCreateCmd_DuplicateName(t *testing.T) {
	clitest.Setup(t)

	_, err := clitest.Run(t, createCmd, "Inbox")
	require.NoError(t, err)

	_, err = clitest.Run(t, createCmd, "INBOX")
	assert.ErrorIs(t, err, project.ErrDuplicateProject)
}

func TestCreateCmd_EmptyName(t *testing.T) {
	clitest.Setup(t)

	_, err := clitest.Run(t, createCmd, "   ")
	assert.ErrorIs(t, err, project.ErrEmptyName)
}

func TestListCmd(t *testing.T) {
	app := clitest.Setup(t)

	out, err := clitest.Run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found")

	ctx := context.Background()
	_, err = app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: "Beta"})
	require.NoError(t, err)
	_, err = app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: "alpha"})
	require.NoError(t, err)
	require.NoError(t, app.AddTaskHandler.Handle(ctx, commands.AddTaskCommand{Project: "alpha", Name: "A", Urgency: 3, Importance: 3}))

	out, err = clitest.Run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Projects (2):")
	assert.Contains(t, out, "alpha (1 task)")
	assert.Contains(t, out, "Beta (0 tasks)")
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "Beta"))
}

func TestShowCmd(t *testing.T) {
	app := clitest.Setup(t)
	ctx := context.Background()
	_, err := app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: "Report"})
	require.NoError(t, err)
	require.NoError(t, app.AddTaskHandler.Handle(ctx, commands.AddTaskCommand{Project: "Report", Name: "Write", Urgency: 5, Importance: 5}))
	require.NoError(t, app.AddTaskHandler.Handle(ctx, commands.AddTaskCommand{Project: "Report", Name: "Review", Urgency: 2, Importance: 4, Dependencies: []string{"Write"}}))

	out, err := clitest.Run(t, showCmd, "report")
	require.NoError(t, err)

	assert.Contains(t, out, "Report")
	assert.Contains(t, out, "tasks: 2")
	assert.Contains(t, out, "urgency: 5  importance: 5  score: 55")
	assert.Contains(t, out, "quadrant: Important, Not Urgent")
	assert.Contains(t, out, "depends on: Write")
}

func TestShowCmd_NotFound(t *testing.T) {
	clitest.Setup(t)

	_, err := clitest.Run(t, showCmd, "missing")
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestRenameCmd(t *testing.T) {
	app := clitest.Setup(t)
	_, err := app.CreateProjectHandler.Handle(context.Background(), commands.CreateProjectCommand{Name: "Old"})
	require.NoError(t, err)

	out, err := clitest.Run(t, renameCmd, "old", "New")
	require.NoError(t, err)
	assert.Contains(t, out, "Project renamed: old -> New")

	projects, err := app.ListProjectsHandler.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "New", projects[0].Name)
}

func TestDeleteCmd(t *testing.T) {
	app := clitest.Setup(t)
	_, err := app.CreateProjectHandler.Handle(context.Background(), commands.CreateProjectCommand{Name: "Temp"})
	require.NoError(t, err)

	out, err := clitest.Run(t, deleteCmd, "Temp")
	require.NoError(t, err)
	assert.Contains(t, out, "Project deleted: Temp")

	_, err = clitest.Run(t, deleteCmd, "Temp")
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestCommands_RequireApp(t *testing.T) {
	cli.SetApp(nil)

	_, err := clitest.Run(t, listCmd)
	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}
