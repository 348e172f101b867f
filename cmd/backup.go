/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup <destination>",
	Short: "Copy the plan file to a backup location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planStore, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = planStore.Close() }()

		if err := planStore.Backup(args[0]); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		fmt.Printf("%s plan backed up to %s\n", ui.StyleSuccess.Render("✔"), args[0])
		return nil
	},
}

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <source>",
	Short: "Replace the plan file with a backup",
	Long: `Replaces the current plan with the given backup file. The current plan
is overwritten; take a backup first if it still matters.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planStore, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = planStore.Close() }()

		if err := planStore.Restore(args[0]); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		fmt.Printf("%s plan restored from %s\n", ui.StyleSuccess.Render("✔"), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
