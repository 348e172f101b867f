/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/types"
)

var (
	linkType string
	linkLag  int
)

// linkCmd represents the link command
var linkCmd = &cobra.Command{
	Use:   "link <from> <to>",
	Short: "Add a dependency between two tasks",
	Long: `Adds a typed dependency edge so the successor's dates follow the
predecessor. Task references may be full IDs or unambiguous prefixes.

Types:
  FS  finish-to-start (default): successor starts after predecessor ends
  SS  start-to-start:            successor starts with the predecessor
  FF  finish-to-finish:          successor ends with the predecessor
  SF  start-to-finish:           successor ends after the predecessor starts

A negative --lag lets the successor overlap (lead time). Edges that would
close a cycle are rejected before anything is written.

Examples:
  ganttwing link 3f2a 9c81
  ganttwing link 3f2a 9c81 --type SS --lag 2`,
	Args: cobra.ExactArgs(2),
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().StringVar(&linkType, "type", string(models.FinishToStart), "dependency type (FS, SS, FF, SF)")
	linkCmd.Flags().IntVar(&linkLag, "lag", 0, "lag in days (negative for lead/overlap)")
}

func runLink(cmd *cobra.Command, args []string) error {
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

	dep := models.Dependency{
		FromTaskID: from.ID,
		ToTaskID:   to.ID,
		Type:       models.DependencyType(linkType),
		LagDays:    linkLag,
	}

	if err := planStore.AddDependency(dep); err != nil {
		switch {
		case errors.Is(err, types.ErrCycle):
			return fmt.Errorf("cannot link %q -> %q: the edge would create a dependency cycle", from.Name, to.Name)
		case errors.Is(err, types.ErrSelfDependency):
			return fmt.Errorf("a task cannot depend on itself")
		case errors.Is(err, types.ErrDependencyExists):
			return fmt.Errorf("%q -> %q is already linked", from.Name, to.Name)
		default:
			return fmt.Errorf("add dependency: %w", err)
		}
	}

	fmt.Printf("%s %s -%s-> %s (lag %d)\n",
		ui.StyleSuccess.Render("✔"), from.Name, dep.Type, to.Name, dep.LagDays)
	return nil
}
