/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
	"github.com/ganttwing/ganttwing/types"
)

// unlinkCmd represents the unlink command
var unlinkCmd = &cobra.Command{
	Use:   "unlink <from> <to>",
	Short: "Remove a dependency between two tasks",
	Long: `Removes the dependency edge from one task to another. Dates already
written are left untouched; removing a link never reschedules anything.`,
	Args: cobra.ExactArgs(2),
	RunE: runUnlink,
}

func init() {
	rootCmd.AddCommand(unlinkCmd)
}

func runUnlink(cmd *cobra.Command, args []string) error {
	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	from, err := findTaskByIDOrPrefix(planStore, args[0])
	if err != nil {
		return err
	}
	to, err := findTaskByIDOrPrefix(planStore, args[1])
	if err != nil {
		return err
	}

	if err := planStore.RemoveDependency(from.ID, to.ID); err != nil {
		if errors.Is(err, types.ErrDependencyNotFound) {
			return fmt.Errorf("%q and %q are not linked", from.Name, to.Name)
		}
		return fmt.Errorf("remove dependency: %w", err)
	}

	fmt.Printf("%s unlinked %s -> %s\n", ui.StyleSuccess.Render("✔"), from.Name, to.Name)
	return nil
}
