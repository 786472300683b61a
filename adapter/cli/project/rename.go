package project

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename [name] [new-name]",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		err = app.RenameProjectHandler.Handle(cli.Context(cmd), commands.RenameProjectCommand{
			CorrelationID: cli.CorrelationID(cmd),
			Project:       args[0],
			NewName:       args[1],
		})
		if err != nil {
			return fmt.Errorf("failed to rename project: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Project renamed: %s -> %s\n", args[0], args[1])
		return nil
	},
}
