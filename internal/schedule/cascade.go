package schedule

import (
	"fmt"
	"sort"

	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/types"
)

// PreviewEntry describes one task's proposed date change. Entries are
// created fresh for every preview call and discarded on cancel; a commit
// turns them into store updates.
type PreviewEntry struct {
	TaskID        string
	TaskName      string
	OriginalStart models.Date
	OriginalEnd   models.Date
	ProposedStart models.Date
	ProposedEnd   models.Date
	// IsDirect is true for the task the user moved (or, for a rain delay,
	// every task on or after the cutoff); false for tasks shifted
	// transitively.
	IsDirect bool
	// DeltaDays is ProposedStart minus OriginalStart in days.
	DeltaDays int
}

// CascadeResult is the full preview for a single-task move or resize.
type CascadeResult struct {
	// Shifted is the directly changed task.
	Shifted PreviewEntry
	// Cascaded holds the transitively shifted tasks, sorted by original
	// start date ascending. Tasks whose constraints were already satisfied
	// are omitted.
	Cascaded []PreviewEntry
}

// Entries returns the direct entry followed by the cascaded ones.
func (r CascadeResult) Entries() []PreviewEntry {
	out := make([]PreviewEntry, 0, len(r.Cascaded)+1)
	out = append(out, r.Shifted)
	out = append(out, r.Cascaded...)
	return out
}

// Preview computes the cascade for moving a whole task by deltaDays.
// The task snapshot is not mutated. A zero delta yields an empty cascade.
func Preview(g *Graph, tasks []models.Task, taskID string, deltaDays int) (CascadeResult, error) {
	return PreviewResize(g, tasks, taskID, deltaDays, deltaDays)
}

// PreviewResize computes the cascade for moving a task's boundaries
// independently: startDelta shifts the start date, endDelta the end date.
// A whole-task move passes the same value for both. Downstream tasks are
// always translated, never resized.
func PreviewResize(g *Graph, tasks []models.Task, taskID string, startDelta, endDelta int) (CascadeResult, error) {
	index := taskIndex(tasks)
	task, ok := index[taskID]
	if !ok {
		return CascadeResult{}, fmt.Errorf("task %s: %w", taskID, types.ErrTaskNotFound)
	}

	orig := interval{start: task.StartDate, end: task.EndDate}
	proposed := interval{
		start: orig.start.AddDays(startDelta),
		end:   orig.end.AddDays(endDelta),
	}
	if proposed.end.Before(proposed.start) {
		return CascadeResult{}, fmt.Errorf("task %s: %w", taskID, types.ErrInvalidInterval)
	}

	direct := PreviewEntry{
		TaskID:        task.ID,
		TaskName:      task.Name,
		OriginalStart: orig.start,
		OriginalEnd:   orig.end,
		ProposedStart: proposed.start,
		ProposedEnd:   proposed.end,
		IsDirect:      true,
		DeltaDays:     startDelta,
	}

	if startDelta == 0 && endDelta == 0 {
		return CascadeResult{Shifted: direct}, nil
	}

	cascaded := propagate(g, index, map[string]interval{taskID: proposed})
	sortEntries(cascaded)
	return CascadeResult{Shifted: direct, Cascaded: cascaded}, nil
}

// ApplyRainDelay computes the bulk cascade for a weather delay: every task
// starting on or after cutoff is shifted by delayDays, and their successors
// are pulled in transitively. Each task appears exactly once; a task that is
// both directly affected and a cascade target stays marked direct and is
// never double-shifted. Results are sorted by original start date.
//
// A non-positive delay is a no-op and returns an empty slice.
func ApplyRainDelay(tasks []models.Task, deps []models.Dependency, cutoff models.Date, delayDays int) []PreviewEntry {
	if delayDays <= 0 {
		return nil
	}

	index := taskIndex(tasks)
	seeds := make(map[string]interval)
	var direct []PreviewEntry
	for _, t := range tasks {
		if t.StartDate.Before(cutoff) {
			continue
		}
		orig := interval{start: t.StartDate, end: t.EndDate}
		proposed := orig.shift(delayDays)
		seeds[t.ID] = proposed
		direct = append(direct, PreviewEntry{
			TaskID:        t.ID,
			TaskName:      t.Name,
			OriginalStart: orig.start,
			OriginalEnd:   orig.end,
			ProposedStart: proposed.start,
			ProposedEnd:   proposed.end,
			IsDirect:      true,
			DeltaDays:     delayDays,
		})
	}
	if len(seeds) == 0 {
		return nil
	}

	g := NewGraph(deps)
	cascaded := propagate(g, index, seeds)

	affected := append(direct, cascaded...)
	sortEntries(affected)
	return affected
}

// propagate walks the graph in topological order, applying each edge's
// constraint with the predecessor's effective (already shifted) dates
// against the successor's original dates. Seeded tasks are taken as fixed:
// their proposed dates are inputs, not recomputed.
//
// The walk visits each task at most once. The visited bound holds even on
// malformed cyclic input, which persisted plans may contain despite the
// cycle guard, so propagation always terminates with a (possibly partial)
// result. Edges referencing unknown task IDs are skipped as dangling.
func propagate(g *Graph, index map[string]models.Task, seeds map[string]interval) []PreviewEntry {
	effective := make(map[string]interval, len(seeds))
	for id, iv := range seeds {
		effective[id] = iv
	}

	var entries []PreviewEntry
	for _, id := range g.TopologicalOrder() {
		if _, seeded := seeds[id]; seeded {
			continue
		}
		task, ok := index[id]
		if !ok {
			// Dangling edge endpoint; not fatal.
			continue
		}
		orig := interval{start: task.StartDate, end: task.EndDate}

		// A task with several shifted predecessors must satisfy all of
		// them, so the largest required shift wins.
		required := 0
		for _, dep := range g.Incoming(id) {
			src, shifted := effective[dep.FromTaskID]
			if !shifted {
				continue
			}
			if _, ok := index[dep.FromTaskID]; !ok {
				continue
			}
			if s := constraintShift(dep, src, orig); s > required {
				required = s
			}
		}
		if required == 0 {
			continue
		}

		proposed := orig.shift(required)
		effective[id] = proposed
		entries = append(entries, PreviewEntry{
			TaskID:        task.ID,
			TaskName:      task.Name,
			OriginalStart: orig.start,
			OriginalEnd:   orig.end,
			ProposedStart: proposed.start,
			ProposedEnd:   proposed.end,
			DeltaDays:     required,
		})
	}
	return entries
}

func taskIndex(tasks []models.Task) map[string]models.Task {
	index := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		index[t.ID] = t
	}
	return index
}

func sortEntries(entries []PreviewEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].OriginalStart.Equal(entries[j].OriginalStart) {
			return entries[i].OriginalStart.Before(entries[j].OriginalStart)
		}
		return entries[i].TaskID < entries[j].TaskID
	})
}
