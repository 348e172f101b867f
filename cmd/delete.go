/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task]",
	Short: "Delete a task and its dependency links",
	Long: `Removes a task from the plan. Dependency edges pointing at or out of
the task are removed with it; the dates of other tasks are untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	task, err := resolveTask(planStore, args, "Select a task to delete")
	if err != nil {
		return err
	}

	if !deleteYes {
		if !ui.IsInteractive() {
			return fmt.Errorf("not a terminal; pass --yes to delete without confirmation")
		}
		accepted, err := ui.RunConfirm("Delete task",
			fmt.Sprintf("%s (%s..%s)\nDependency links to and from it will be removed.",
				task.Name, task.StartDate, task.EndDate))
		if err != nil {
			return err
		}
		if !accepted {
			fmt.Println(ui.StyleSubtle.Render("nothing deleted"))
			return nil
		}
	}

	if err := planStore.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	fmt.Printf("%s deleted %s\n", ui.StyleSuccess.Render("✔"), task.Name)
	return nil
}
