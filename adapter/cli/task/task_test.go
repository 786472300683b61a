package task

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/adapter/cli/clitest"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T) *cli.App {
	t.Helper()
	app := clitest.Setup(t)
	_, err := app.CreateProjectHandler.Handle(context.Background(), commands.CreateProjectCommand{Name: "Report"})
	require.NoError(t, err)
	return app
}

func resetFlags(t *testing.T) {
	t.Helper()
	addUrgency, addImportance, addDepends = 3, 3, nil
	for _, name := range []string{"name", "urgency", "importance", "depends"} {
		updateCmd.Flags().Lookup(name).Changed = false
	}
	updateName, updateUrgency, updateImportance, updateDepends = "", 0, 0, nil
}

func getTasks(t *testing.T, app *cli.App) []queries.TaskDTO {
	t.Helper()
	p, err := app.GetProjectHandler.Handle(context.Background(), queries.GetProjectQuery{Project: "Report"})
	require.NoError(t, err)
	return p.Tasks
}

func TestAddCmd(t *testing.T) {
	app := setupProject(t)
	resetFlags(t)

	addUrgency, addImportance = 4, 5
	out, err := clitest.Run(t, addCmd, "report", "Gather data")
	require.NoError(t, err)
	assert.Contains(t, out, "Task added: Gather data (urgency 4, importance 5)")

	addUrgency, addImportance, addDepends = 2, 4, []string{"gather DATA"}
	_, err = clitest.Run(t, addCmd, "Report", "Review")
	require.NoError(t, err)

	tasks := getTasks(t, app)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Review", tasks[1].Name)
	assert.Equal(t, []string{"gather DATA"}, tasks[1].Dependencies)
}

func TestAddCmd_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		task       string
		urgency    int
		importance int
		depends    []string
		want       error
	}{
		{"urgency out of range", "A", 6, 3, nil, task.ErrInvalidTaskData},
		{"importance out of range", "A", 3, 0, nil, task.ErrInvalidTaskData},
		{"unknown dependency", "A", 3, 3, []string{"Ghost"}, task.ErrUnknownDependency},
		{"self dependency", "A", 3, 3, []string{"a"}, project.ErrSelfDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupProject(t)
			resetFlags(t)
			addUrgency, addImportance, addDepends = tt.urgency, tt.importance, tt.depends

			_, err := clitest.Run(t, addCmd, "Report", tt.task)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAddCmd_DuplicateTask(t *testing.T) {
	setupProject(t)
	resetFlags(t)

	_, err := clitest.Run(t, addCmd, "Report", "Write")
	require.NoError(t, err)

	_, err = clitest.Run(t, addCmd, "Report", "WRITE")
	assert.ErrorIs(t, err, project.ErrDuplicateTask)
}

func TestUpdateCmd_PartialUpdate(t *testing.T) {
	app := setupProject(t)
	resetFlags(t)
	addUrgency, addImportance = 2, 4
	_, err := clitest.Run(t, addCmd, "Report", "Review")
	require.NoError(t, err)

	require.NoError(t, updateCmd.Flags().Set("urgency", "5"))
	out, err := clitest.Run(t, updateCmd, "Report", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "Task updated: review")

	tasks := getTasks(t, app)
	assert.Equal(t, 5, tasks[0].Urgency)
	assert.Equal(t, 4, tasks[0].Importance)
}

func TestUpdateCmd_RenameCascades(t *testing.T) {
	app := setupProject(t)
	resetFlags(t)
	_, err := clitest.Run(t, addCmd, "Report", "Write")
	require.NoError(t, err)
	addDepends = []string{"Write"}
	_, err = clitest.Run(t, addCmd, "Report", "Review")
	require.NoError(t, err)

	require.NoError(t, updateCmd.Flags().Set("name", "Draft"))
	_, err = clitest.Run(t, updateCmd, "Report", "Write")
	require.NoError(t, err)

	tasks := getTasks(t, app)
	assert.Equal(t, "Draft", tasks[0].Name)
	assert.Equal(t, []string{"Draft"}, tasks[1].Dependencies)
}

func TestUpdateCmd_NotFound(t *testing.T) {
	setupProject(t)
	resetFlags(t)

	require.NoError(t, updateCmd.Flags().Set("urgency", "1"))
	_, err := clitest.Run(t, updateCmd, "Report", "Missing")

	assert.ErrorIs(t, err, project.ErrTaskNotFound)
}

func TestRemoveCmd(t *testing.T) {
	app := setupProject(t)
	resetFlags(t)
	_, err := clitest.Run(t, addCmd, "Report", "Write")
	require.NoError(t, err)
	addDepends = []string{"Write"}
	_, err = clitest.Run(t, addCmd, "Report", "Review")
	require.NoError(t, err)

	_, err = clitest.Run(t, removeCmd, "Report", "Write")
	var inUse *project.TaskInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, []string{"Review"}, inUse.Dependents)

	out, err := clitest.Run(t, removeCmd, "Report", "Review")
	require.NoError(t, err)
	assert.Contains(t, out, "Task removed: Review")

	_, err = clitest.Run(t, removeCmd, "Report", "Write")
	require.NoError(t, err)
	assert.Empty(t, getTasks(t, app))
}

func TestListCmd(t *testing.T) {
	setupProject(t)
	resetFlags(t)

	out, err := clitest.Run(t, listCmd, "Report")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks in Report")

	addUrgency, addImportance = 5, 4
	_, err = clitest.Run(t, addCmd, "Report", "Write")
	require.NoError(t, err)
	addUrgency, addImportance, addDepends = 1, 2, []string{"Write"}
	_, err = clitest.Run(t, addCmd, "Report", "Review")
	require.NoError(t, err)

	out, err = clitest.Run(t, listCmd, "Report")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks in Report (2):")
	assert.Contains(t, out, "U5 I4")
	assert.Contains(t, out, "<- Write")
}

func TestLevelFlags_RejectNonLevels(t *testing.T) {
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	tests := []struct {
		flag  string
		value string
	}{
		{"urgency", "high"},
		{"urgency", "9"},
		{"importance", "0"},
		{"importance", ""},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, addCmd.Flags().Set(tt.flag, tt.value), value_objects.ErrInvalidLevel, "add --%s=%q", tt.flag, tt.value)
		assert.ErrorIs(t, updateCmd.Flags().Set(tt.flag, tt.value), value_objects.ErrInvalidLevel, "update --%s=%q", tt.flag, tt.value)
	}
	assert.Equal(t, 3, addUrgency)
	assert.Equal(t, 3, addImportance)
}

func TestLevelFlags_ParseLevels(t *testing.T) {
	app := setupProject(t)
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	require.NoError(t, addCmd.Flags().Set("urgency", " 4 "))
	require.NoError(t, addCmd.Flags().Set("importance", "5"))
	assert.Equal(t, "4", addCmd.Flags().Lookup("urgency").Value.String())
	assert.Equal(t, "level", addCmd.Flags().Lookup("urgency").Value.Type())

	_, err := clitest.Run(t, addCmd, "Report", "Gather data")
	require.NoError(t, err)

	tasks := getTasks(t, app)
	require.Len(t, tasks, 1)
	assert.Equal(t, 4, tasks[0].Urgency)
	assert.Equal(t, 5, tasks[0].Importance)
}
