package transfer

import (
	"fmt"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/felixgeelhaar/tskprio/internal/planning/infrastructure/jsonfile"
	"github.com/spf13/cobra"
)

var exportProject string

// ExportCmd writes stored projects to a task file.
var ExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export projects to a JSON task file",
	Long: `Write projects to a JSON task file. With --project the file is a plain
array of that project's tasks; otherwise it maps every project name to its
tasks. The file is replaced atomically.

Examples:
  tskprio export projets.json
  tskprio export taches.json --project Report`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		ctx := cli.Context(cmd)

		doc := &jsonfile.Document{Format: jsonfile.FormatMap}
		if exportProject != "" {
			p, err := app.GetProjectHandler.Handle(ctx, queries.GetProjectQuery{Project: exportProject})
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			doc.Format = jsonfile.FormatArray
			doc.Projects = []jsonfile.ProjectRecord{jsonfile.FromProjectDTO(*p)}
		} else {
			summaries, err := app.ListProjectsHandler.Handle(ctx)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			for _, s := range summaries {
				p, err := app.GetProjectHandler.Handle(ctx, queries.GetProjectQuery{Project: s.Name})
				if err != nil {
					return fmt.Errorf("failed to export: %w", err)
				}
				doc.Projects = append(doc.Projects, jsonfile.FromProjectDTO(*p))
			}
		}

		if err := jsonfile.WriteFile(args[0], doc); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d project(s) to %s\n", len(doc.Projects), args[0])
		return nil
	},
}

func init() {
	ExportCmd.Flags().StringVarP(&exportProject, "project", "p", "", "export only this project, as a task array")
}
