/*
Copyright © 2025 GanttWing Authors
*/
package types

import "errors"

// Sentinel errors shared across the store, engine and command layers.
// Callers match with errors.Is; the originating layer wraps these with
// context via fmt.Errorf and %w.
var (
	// ErrTaskNotFound is returned when a task ID does not exist in the plan.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDependencyNotFound is returned when removing an edge that does not exist.
	ErrDependencyNotFound = errors.New("dependency not found")

	// ErrDependencyExists is returned when adding an edge that is already present.
	ErrDependencyExists = errors.New("dependency already exists")

	// ErrSelfDependency is returned when an edge references the same task on
	// both ends. Rejected at creation time, identically to a cycle.
	ErrSelfDependency = errors.New("task cannot depend on itself")

	// ErrCycle is returned when adding an edge would close a dependency loop.
	ErrCycle = errors.New("dependency would create a cycle")

	// ErrInvalidInterval is returned when a proposed change would leave a
	// task with its end date before its start date.
	ErrInvalidInterval = errors.New("task end date would precede start date")
)
