package project

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Long: `Create a new, empty project. Names are unique regardless of case.

Examples:
  tskprio project create "Quarterly Report"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.CreateProjectHandler.Handle(cli.Context(cmd), commands.CreateProjectCommand{
			CorrelationID: cli.CorrelationID(cmd),
			Name:          args[0],
		})
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Project created: %s\n", result.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "  id: %s\n", result.ProjectID)
		return nil
	},
}
