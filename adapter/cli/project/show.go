package project

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		p, err := app.GetProjectHandler.Handle(cli.Context(cmd), queries.GetProjectQuery{Project: args[0]})
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", p.Name)
		fmt.Fprintf(out, "  id: %s\n", p.ID)
		fmt.Fprintf(out, "  created: %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  tasks: %d\n", p.TaskCount)
		for _, t := range p.Tasks {
			fmt.Fprintf(out, "\n  %s\n", t.Name)
			fmt.Fprintf(out, "    urgency: %d  importance: %d  score: %d\n", t.Urgency, t.Importance, t.Score)
			fmt.Fprintf(out, "    quadrant: %s\n", t.Quadrant)
			if len(t.Dependencies) > 0 {
				fmt.Fprintf(out, "    depends on: %s\n", strings.Join(t.Dependencies, ", "))
			}
		}
		return nil
	},
}
