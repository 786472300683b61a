package task

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/spf13/cobra"
)

var (
	addUrgency    = 3
	addImportance = 3
	addDepends    []string
)

var addCmd = &cobra.Command{
	Use:   "add [project] [name]",
	Short: "Add a task to a project",
	Long: `Add a task. Every dependency must already exist in the project.

Examples:
  tskprio task add Report "Gather data" -u 4 -i 5
  tskprio task add Report "Review" -u 2 -i 4 --depends "Gather data"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		err = app.AddTaskHandler.Handle(cli.Context(cmd), commands.AddTaskCommand{
			CorrelationID: cli.CorrelationID(cmd),
			Project:       args[0],
			Name:          args[1],
			Urgency:       addUrgency,
			Importance:    addImportance,
			Dependencies:  addDepends,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task added: %s (urgency %d, importance %d)\n", args[1], addUrgency, addImportance)
		return nil
	},
}

func init() {
	addCmd.Flags().VarP(levelFlag{&addUrgency}, "urgency", "u", "urgency from 1 to 5")
	addCmd.Flags().VarP(levelFlag{&addImportance}, "importance", "i", "importance from 1 to 5")
	addCmd.Flags().StringSliceVarP(&addDepends, "depends", "d", nil, "names of tasks this task depends on")
}
