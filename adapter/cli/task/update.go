package task

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/spf13/cobra"
)

var (
	updateName       string
	updateUrgency    int
	updateImportance int
	updateDepends    []string
)

var updateCmd = &cobra.Command{
	Use:   "update [project] [task]",
	Short: "Update a task",
	Long: `Update the fields given as flags; the others keep their values.
Renaming a task rewrites the dependencies of every task that referred to it.

Examples:
  tskprio task update Report "Review" -u 5
  tskprio task update Report "Review" --name "Final review"
  tskprio task update Report "Review" --depends ""`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		updateCommand := commands.UpdateTaskCommand{
			CorrelationID: cli.CorrelationID(cmd),
			Project:       args[0],
			Task:          args[1],
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			updateCommand.Name = &updateName
		}
		if flags.Changed("urgency") {
			updateCommand.Urgency = &updateUrgency
		}
		if flags.Changed("importance") {
			updateCommand.Importance = &updateImportance
		}
		if flags.Changed("depends") {
			updateCommand.Dependencies = &updateDepends
		}

		if err := app.UpdateTaskHandler.Handle(cli.Context(cmd), updateCommand); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task updated: %s\n", args[1])
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new task name")
	updateCmd.Flags().VarP(levelFlag{&updateUrgency}, "urgency", "u", "urgency from 1 to 5")
	updateCmd.Flags().VarP(levelFlag{&updateImportance}, "importance", "i", "importance from 1 to 5")
	updateCmd.Flags().StringSliceVarP(&updateDepends, "depends", "d", nil, "replace the dependency list")
}
