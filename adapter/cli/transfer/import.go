// Package transfer loads and saves projects as JSON task files.
package transfer

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/infrastructure/jsonfile"
	"github.com/spf13/cobra"
)

var importProject string

// ImportCmd loads a task file into the store.
var ImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import projects from a JSON task file",
	Long: `Import a JSON task file. The file is either an array of tasks, loaded into
one project (--project, default "Default"), or an object mapping project
names to task arrays. Existing projects with the same name get their task
list replaced. One invalid task rejects the whole file.

Examples:
  tskprio import taches.json --project Report
  tskprio import projets.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		doc, err := jsonfile.ReadFile(args[0], importProject)
		if err != nil {
			return err
		}
		projects, err := doc.ToImported()
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		result, err := app.ImportProjectsHandler.Handle(cli.Context(cmd), commands.ImportProjectsCommand{
			CorrelationID: cli.CorrelationID(cmd),
			Projects:      projects,
		})
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d project(s) from %s (%s format)\n", len(projects), args[0], doc.Format)
		if len(result.Created) > 0 {
			fmt.Fprintf(out, "  created: %s\n", strings.Join(result.Created, ", "))
		}
		if len(result.Replaced) > 0 {
			fmt.Fprintf(out, "  replaced: %s\n", strings.Join(result.Replaced, ", "))
		}
		return nil
	},
}

func init() {
	ImportCmd.Flags().StringVarP(&importProject, "project", "p", "", "project receiving an array-format file")
}
