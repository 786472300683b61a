package task

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove [project] [task]",
	Aliases: []string{"rm"},
	Short:   "Remove a task",
	Long:    `Remove a task. A task other tasks still depend on cannot be removed.`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		err = app.RemoveTaskHandler.Handle(cli.Context(cmd), commands.RemoveTaskCommand{
			CorrelationID: cli.CorrelationID(cmd),
			Project:       args[0],
			Task:          args[1],
		})
		if err != nil {
			return fmt.Errorf("failed to remove task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task removed: %s\n", args[1])
		return nil
	},
}
