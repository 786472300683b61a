package plan

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/adapter/cli/clitest"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/services"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustTask(t *testing.T, name string, urgency, importance int, deps ...string) task.Task {
	t.Helper()
	tsk, err := task.New(name, urgency, importance, deps)
	require.NoError(t, err)
	return tsk
}

// setupReport stores the report scenario: Review depends on both other tasks.
func setupReport(t *testing.T) *cli.App {
	t.Helper()
	app := clitest.Setup(t)
	ctx := context.Background()
	_, err := app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: "Report"})
	require.NoError(t, err)
	for _, cmd := range []commands.AddTaskCommand{
		{Name: "Write report", Urgency: 5, Importance: 5},
		{Name: "Gather data", Urgency: 4, Importance: 5},
		{Name: "Review", Urgency: 2, Importance: 4, Dependencies: []string{"Write report", "Gather data"}},
	} {
		cmd.Project = "Report"
		require.NoError(t, app.AddTaskHandler.Handle(ctx, cmd))
	}
	return app
}

func TestPlanCmd_Text(t *testing.T) {
	setupReport(t)
	planFormat = FormatText

	out, err := clitest.Run(t, Cmd, "report")
	require.NoError(t, err)

	assert.Contains(t, out, "Action plan: Report")
	write := strings.Index(out, "1. Write report")
	gather := strings.Index(out, "2. Gather data")
	review := strings.Index(out, "3. Review")
	require.True(t, write >= 0 && gather >= 0 && review >= 0, out)
	assert.Less(t, write, gather)
	assert.Less(t, gather, review)
	assert.Contains(t, out, "Important & Urgent, score 55")
	assert.Contains(t, out, "after: Write report, Gather data")
}

func TestPlanCmd_JSON(t *testing.T) {
	setupReport(t)
	planFormat = FormatJSON
	defer func() { planFormat = FormatText }()

	out, err := clitest.Run(t, Cmd, "Report")
	require.NoError(t, err)

	var plan queries.ActionPlanDTO
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "Report", plan.Project)
	require.Len(t, plan.Steps, 3)
	assert.Equal(t, "Write report", plan.Steps[0].Name)
	assert.Equal(t, 1, plan.Steps[0].Position)
	assert.Equal(t, 42, plan.Steps[2].Score)
}

func TestPlanCmd_YAML(t *testing.T) {
	setupReport(t)
	planFormat = FormatYAML
	defer func() { planFormat = FormatText }()

	out, err := clitest.Run(t, Cmd, "Report")
	require.NoError(t, err)

	var plan queries.ActionPlanDTO
	require.NoError(t, yaml.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Steps, 3)
	assert.Equal(t, "Gather data", plan.Steps[1].Name)
	assert.Equal(t, "Important & Urgent", plan.Steps[1].Quadrant)
}

func TestPlanCmd_UnsupportedFormat(t *testing.T) {
	setupReport(t)
	planFormat = "xml"
	defer func() { planFormat = FormatText }()

	_, err := clitest.Run(t, Cmd, "Report")

	assert.ErrorContains(t, err, `unsupported format "xml"`)
}

func TestPlanCmd_EmptyProject(t *testing.T) {
	app := clitest.Setup(t)
	_, err := app.CreateProjectHandler.Handle(context.Background(), commands.CreateProjectCommand{Name: "Empty"})
	require.NoError(t, err)
	planFormat = FormatText

	out, err := clitest.Run(t, Cmd, "Empty")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks.")
}

func TestPlanCmd_ReportsCycle(t *testing.T) {
	app := clitest.Setup(t)
	_, err := app.ImportProjectsHandler.Handle(context.Background(), commands.ImportProjectsCommand{
		Projects: []commands.ImportedProject{{
			Name: "Loop",
			Tasks: []task.Task{
				mustTask(t, "A", 3, 3, "B"),
				mustTask(t, "B", 3, 3, "A"),
				mustTask(t, "C", 5, 5),
			},
		}},
	})
	require.NoError(t, err)
	planFormat = FormatText

	_, err = clitest.Run(t, Cmd, "Loop")

	var cyclic *services.CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"A", "B"}, cyclic.Tasks)
}

func TestPlanCmd_ReportsUnknownDependency(t *testing.T) {
	app := clitest.Setup(t)
	_, err := app.ImportProjectsHandler.Handle(context.Background(), commands.ImportProjectsCommand{
		Projects: []commands.ImportedProject{{
			Name:  "Dangling",
			Tasks: []task.Task{mustTask(t, "A", 3, 3, "Ghost")},
		}},
	})
	require.NoError(t, err)

	_, err = clitest.Run(t, Cmd, "Dangling")

	var unknown *task.UnknownDependencyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "A", unknown.Task)
	assert.Equal(t, "Ghost", unknown.Missing)
}

func TestMatrixCmd(t *testing.T) {
	app := setupReport(t)
	require.NoError(t, app.AddTaskHandler.Handle(context.Background(), commands.AddTaskCommand{
		Project: "Report", Name: "Tidy desk", Urgency: 1, Importance: 1,
	}))

	out, err := clitest.Run(t, MatrixCmd, "Report")
	require.NoError(t, err)

	for _, q := range services.Quadrants() {
		assert.Contains(t, out, q.String())
		assert.Contains(t, out, q.Action())
	}
	assert.Contains(t, out, "Write report (U5 I5)")
	assert.Contains(t, out, "Review (U2 I4)")
	assert.Contains(t, out, "Tidy desk (U1 I1)")
	assert.Contains(t, out, "(none)")
}
