package project

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		projects, err := app.ListProjectsHandler.Handle(cli.Context(cmd))
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(projects) == 0 {
			fmt.Fprintln(out, "No projects found. Create one with: tskprio project create \"Name\"")
			return nil
		}

		fmt.Fprintf(out, "Projects (%d):\n", len(projects))
		for _, p := range projects {
			fmt.Fprintf(out, "  %s (%d task%s)\n", p.Name, p.TaskCount, plural(p.TaskCount))
		}
		return nil
	},
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
