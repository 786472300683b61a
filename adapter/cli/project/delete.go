package project

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all of its tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		err = app.DeleteProjectHandler.Handle(cli.Context(cmd), commands.DeleteProjectCommand{
			CorrelationID: cli.CorrelationID(cmd),
			Project:       args[0],
		})
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Project deleted: %s\n", args[0])
		return nil
	},
}
