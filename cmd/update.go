/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/store"
)

var (
	updateName   string
	updateTrade  string
	updateStatus string
	updateNotes  string
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [task]",
	Short: "Edit a task's name, trade, status or notes",
	Long: `Edits task metadata. Dates are deliberately out of scope here: use
'shift' or 'resize' so dependent tasks are cascaded and the change is
recorded in the history.

Examples:
  ganttwing update 3f2a --status active
  ganttwing update 3f2a --name "Pour slab (north)" --notes "pump booked"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateName, "name", "", "new task name")
	updateCmd.Flags().StringVar(&updateTrade, "trade", "", "new trade")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "new status (planned, active, done, on-hold)")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "new notes")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	update := store.TaskUpdate{}
	changed := false
	if cmd.Flags().Changed("name") {
		update.Name = &updateName
		changed = true
	}
	if cmd.Flags().Changed("trade") {
		update.Trade = &updateTrade
		changed = true
	}
	if cmd.Flags().Changed("status") {
		status := models.TaskStatus(updateStatus)
		update.Status = &status
		changed = true
	}
	if cmd.Flags().Changed("notes") {
		update.Notes = &updateNotes
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to update; pass --name, --trade, --status or --notes")
	}

	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	task, err := resolveTask(planStore, args, "Select a task to update")
	if err != nil {
		return err
	}

	updated, err := planStore.UpdateTask(task.ID, update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	fmt.Printf("%s %s (%s, %s)\n", ui.StyleSuccess.Render("✔"),
		updated.Name, updated.Status, ui.TradeLabel(updated.Trade))
	return nil
}
