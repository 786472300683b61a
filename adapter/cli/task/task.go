package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the tasks of a project",
	Long: `Add, update, remove and list tasks. Urgency and importance range from 1 to 5.
Dependencies name other tasks of the same project.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(listCmd)
}
