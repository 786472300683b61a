package plan

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/spf13/cobra"
)

// MatrixCmd shows a project's Eisenhower matrix.
var MatrixCmd = &cobra.Command{
	Use:   "matrix [project]",
	Short: "Show the Eisenhower matrix of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		matrix, err := app.GetMatrixHandler.Handle(cli.Context(cmd), queries.GetMatrixQuery{Project: args[0]})
		if err != nil {
			return fmt.Errorf("failed to classify tasks: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderMatrix(matrix))
		return nil
	},
}
