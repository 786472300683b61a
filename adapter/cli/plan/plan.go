package plan

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/spf13/cobra"
)

var planFormat string

// Cmd prints a project's action plan.
var Cmd = &cobra.Command{
	Use:   "plan [project]",
	Short: "Compute the action plan of a project",
	Long: `Order every task of a project so that no task comes before one it depends on.
Among available tasks the higher score (importance*10 + urgency) goes first;
ties keep insertion order. Cycles and unknown dependencies are reported instead
of a partial plan.

Examples:
  tskprio plan Report
  tskprio plan Report --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		plan, err := app.GetActionPlanHandler.Handle(cli.Context(cmd), queries.GetActionPlanQuery{Project: args[0]})
		if err != nil {
			return fmt.Errorf("failed to compute action plan: %w", err)
		}

		return writePlan(cmd.OutOrStdout(), plan, planFormat)
	},
}

func init() {
	Cmd.Flags().StringVarP(&planFormat, "format", "f", FormatText, "output format: text, json or yaml")
}
