package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [project]",
	Short: "List the tasks of a project in insertion order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		p, err := app.GetProjectHandler.Handle(cli.Context(cmd), queries.GetProjectQuery{Project: args[0]})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(p.Tasks) == 0 {
			fmt.Fprintf(out, "No tasks in %s. Add one with: tskprio task add %q \"Name\"\n", p.Name, p.Name)
			return nil
		}

		fmt.Fprintf(out, "Tasks in %s (%d):\n", p.Name, len(p.Tasks))
		for _, t := range p.Tasks {
			line := fmt.Sprintf("  %-30s U%d I%d", t.Name, t.Urgency, t.Importance)
			if len(t.Dependencies) > 0 {
				line += "  <- " + strings.Join(t.Dependencies, ", ")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
