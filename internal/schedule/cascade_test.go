package schedule

import (
	"errors"
	"testing"

	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/types"
)

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func task(t *testing.T, id, start, end string) models.Task {
	t.Helper()
	return models.Task{
		ID:        id,
		Name:      "task " + id,
		StartDate: date(t, start),
		EndDate:   date(t, end),
	}
}

func edge(from, to string, typ models.DependencyType, lag int) models.Dependency {
	return models.Dependency{FromTaskID: from, ToTaskID: to, Type: typ, LagDays: lag}
}

func entryByID(entries []PreviewEntry, id string) (PreviewEntry, bool) {
	for _, e := range entries {
		if e.TaskID == id {
			return e, true
		}
	}
	return PreviewEntry{}, false
}

func TestPreview_FinishToStart(t *testing.T) {
	// Predecessor ends 2024-03-10; with lag 0 the successor's minimum start
	// is 2024-03-11. Successor originally starts 2024-03-05, so it must
	// shift by 6 days.
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-10"),
		task(t, "b", "2024-03-05", "2024-03-08"),
	}
	g := NewGraph([]models.Dependency{edge("a", "b", models.FinishToStart, 0)})

	result, err := Preview(g, tasks, "a", 0)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	// Zero delta: nothing moves, regardless of pre-existing violations.
	if len(result.Cascaded) != 0 {
		t.Errorf("zero delta should cascade nothing, got %v", result.Cascaded)
	}

	// Move the predecessor in place by shifting b's evaluation instead:
	// shift a by 0 days does nothing, so drag a's interval forward 0 and
	// verify the constraint via a 1-day move.
	result, err = Preview(g, tasks, "a", 1)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	b, ok := entryByID(result.Cascaded, "b")
	if !ok {
		t.Fatal("expected b in cascaded previews")
	}
	// a now ends 2024-03-11, so b's minimum start is 2024-03-12: delta 7.
	if b.DeltaDays != 7 {
		t.Errorf("b delta = %d, want 7", b.DeltaDays)
	}
	if got, want := b.ProposedStart.String(), "2024-03-12"; got != want {
		t.Errorf("b proposed start = %s, want %s", got, want)
	}
	if b.IsDirect {
		t.Error("cascaded task must not be marked direct")
	}
}

func TestPreview_FinishToStart_SpecExample(t *testing.T) {
	// The canonical FS example: predecessor ends 2024-03-10, successor
	// originally starts 2024-03-05 -> proposed start 2024-03-11, delta 6.
	// Constructed by moving the predecessor into that end date.
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-09"),
		task(t, "b", "2024-03-05", "2024-03-08"),
	}
	g := NewGraph([]models.Dependency{edge("a", "b", models.FinishToStart, 0)})

	result, err := Preview(g, tasks, "a", 1) // a now ends 2024-03-10
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	b, ok := entryByID(result.Cascaded, "b")
	if !ok {
		t.Fatal("expected b in cascaded previews")
	}
	if got, want := b.ProposedStart.String(), "2024-03-11"; got != want {
		t.Errorf("b proposed start = %s, want %s", got, want)
	}
	if b.DeltaDays != 6 {
		t.Errorf("b delta = %d, want 6", b.DeltaDays)
	}
}

func TestPreview_StartToStart_Satisfied(t *testing.T) {
	// SS with lag 2: predecessor's new start 2024-03-01 gives the successor
	// a minimum start of 2024-03-03. The successor already starts
	// 2024-03-05, so it is unaffected and excluded from results.
	tasks := []models.Task{
		task(t, "a", "2024-02-28", "2024-03-06"),
		task(t, "b", "2024-03-05", "2024-03-09"),
	}
	g := NewGraph([]models.Dependency{edge("a", "b", models.StartToStart, 2)})

	result, err := Preview(g, tasks, "a", 2) // a starts 2024-03-01
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(result.Cascaded) != 0 {
		t.Errorf("satisfied SS constraint should cascade nothing, got %+v", result.Cascaded)
	}
}

func TestPreview_StartToStart_Shifts(t *testing.T) {
	tasks := []models.Task{
		task(t, "a", "2024-02-28", "2024-03-06"),
		task(t, "b", "2024-03-01", "2024-03-04"),
	}
	g := NewGraph([]models.Dependency{edge("a", "b", models.StartToStart, 2)})

	result, err := Preview(g, tasks, "a", 2) // a starts 2024-03-01, min b start 2024-03-03
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	b, ok := entryByID(result.Cascaded, "b")
	if !ok {
		t.Fatal("expected b in cascaded previews")
	}
	if got, want := b.ProposedStart.String(), "2024-03-03"; got != want {
		t.Errorf("b proposed start = %s, want %s", got, want)
	}
}

func TestPreview_FinishToFinish_And_StartToFinish(t *testing.T) {
	tests := []struct {
		name      string
		dep       models.Dependency
		wantEnd   string
		wantDelta int
	}{
		{
			name: "FF lag 0",
			// a shifts to end 2024-03-12; b must not finish before that.
			dep:       edge("a", "b", models.FinishToFinish, 0),
			wantEnd:   "2024-03-12",
			wantDelta: 4,
		},
		{
			name: "SF lag 3",
			// a shifts to start 2024-03-03; b must not finish before 03-06,
			// which it already satisfies.
			dep: edge("a", "b", models.StartToFinish, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []models.Task{
				task(t, "a", "2024-03-01", "2024-03-10"),
				task(t, "b", "2024-03-05", "2024-03-08"),
			}
			g := NewGraph([]models.Dependency{tt.dep})

			result, err := Preview(g, tasks, "a", 2)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			b, ok := entryByID(result.Cascaded, "b")
			if tt.name == "SF lag 3" {
				// min end 2024-03-06 is before b's current end 2024-03-08:
				// constraint satisfied, no shift.
				if ok {
					t.Errorf("satisfied SF constraint should cascade nothing, got %+v", b)
				}
				return
			}
			if !ok {
				t.Fatal("expected b in cascaded previews")
			}
			if got := b.ProposedEnd.String(); got != tt.wantEnd {
				t.Errorf("b proposed end = %s, want %s", got, tt.wantEnd)
			}
			if b.DeltaDays != tt.wantDelta {
				t.Errorf("b delta = %d, want %d", b.DeltaDays, tt.wantDelta)
			}
		})
	}
}

func TestPreview_DurationPreserved(t *testing.T) {
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-10"),
		task(t, "b", "2024-03-11", "2024-03-20"),
		task(t, "c", "2024-03-21", "2024-03-25"),
	}
	g := NewGraph([]models.Dependency{
		edge("a", "b", models.FinishToStart, 0),
		edge("b", "c", models.FinishToStart, 0),
	})

	result, err := Preview(g, tasks, "a", 5)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	for _, e := range result.Entries() {
		origDur := e.OriginalStart.DaysUntil(e.OriginalEnd)
		newDur := e.ProposedStart.DaysUntil(e.ProposedEnd)
		if origDur != newDur {
			t.Errorf("task %s duration changed: %d days -> %d days", e.TaskID, origDur, newDur)
		}
	}
	if len(result.Cascaded) != 2 {
		t.Errorf("expected both successors to shift, got %d", len(result.Cascaded))
	}
}

func TestPreview_DelayOnly_NeverPullsEarlier(t *testing.T) {
	// Moving a predecessor earlier must leave successors untouched, even
	// where lag would geometrically allow compression.
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-10"),
		task(t, "b", "2024-03-11", "2024-03-20"),
	}
	g := NewGraph([]models.Dependency{edge("a", "b", models.FinishToStart, 0)})

	result, err := Preview(g, tasks, "a", -5)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(result.Cascaded) != 0 {
		t.Errorf("earlier move should not cascade, got %+v", result.Cascaded)
	}
}

func TestPreview_NegativeLagAllowsOverlap(t *testing.T) {
	// FS with lead (-3): successor may start up to 3 days before the
	// predecessor finishes (plus the day-after offset).
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-10"),
		task(t, "b", "2024-03-09", "2024-03-12"),
	}
	g := NewGraph([]models.Dependency{edge("a", "b", models.FinishToStart, -3)})

	// a ends 2024-03-12 after a 2-day move; min b start = 03-13 + (-3) = 03-10.
	result, err := Preview(g, tasks, "a", 2)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	b, ok := entryByID(result.Cascaded, "b")
	if !ok {
		t.Fatal("expected b in cascaded previews")
	}
	if got, want := b.ProposedStart.String(), "2024-03-10"; got != want {
		t.Errorf("b proposed start = %s, want %s", got, want)
	}
}

func TestPreview_DiamondTakesLargestShift(t *testing.T) {
	// a feeds both b and c; both feed d. d must honor the stricter of its
	// two shifted predecessors and still appear only once.
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-05"),
		task(t, "b", "2024-03-06", "2024-03-10"),
		task(t, "c", "2024-03-06", "2024-03-15"),
		task(t, "d", "2024-03-16", "2024-03-20"),
	}
	g := NewGraph([]models.Dependency{
		edge("a", "b", models.FinishToStart, 0),
		edge("a", "c", models.FinishToStart, 0),
		edge("b", "d", models.FinishToStart, 0),
		edge("c", "d", models.FinishToStart, 0),
	})

	result, err := Preview(g, tasks, "a", 4)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	count := 0
	for _, e := range result.Cascaded {
		if e.TaskID == "d" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("d appeared %d times in cascade", count)
	}

	d, _ := entryByID(result.Cascaded, "d")
	// c shifts to end 2024-03-19, so d's minimum start is 2024-03-20.
	if got, want := d.ProposedStart.String(), "2024-03-20"; got != want {
		t.Errorf("d proposed start = %s, want %s", got, want)
	}
}

func TestPreview_DanglingEdgeSkipped(t *testing.T) {
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-10"),
		task(t, "b", "2024-03-11", "2024-03-15"),
	}
	g := NewGraph([]models.Dependency{
		edge("a", "ghost", models.FinishToStart, 0),
		edge("a", "b", models.FinishToStart, 0),
		edge("ghost", "b", models.FinishToStart, 0),
	})

	result, err := Preview(g, tasks, "a", 3)
	if err != nil {
		t.Fatalf("Preview must not fail on dangling edges: %v", err)
	}
	if _, ok := entryByID(result.Cascaded, "ghost"); ok {
		t.Error("dangling task must not appear in previews")
	}
	if _, ok := entryByID(result.Cascaded, "b"); !ok {
		t.Error("valid successor missing from previews")
	}
}

func TestPreview_CyclicDataStillTerminates(t *testing.T) {
	// The cycle guard keeps new edges acyclic, but persisted plans are
	// untrusted. Propagation must terminate and report each task once.
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-05"),
		task(t, "b", "2024-03-06", "2024-03-10"),
	}
	g := NewGraph([]models.Dependency{
		edge("a", "b", models.FinishToStart, 0),
		edge("b", "a", models.FinishToStart, 0),
	})

	result, err := Preview(g, tasks, "a", 2)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	seen := make(map[string]int)
	for _, e := range result.Entries() {
		seen[e.TaskID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("task %s visited %d times", id, n)
		}
	}
}

func TestPreview_UnknownTask(t *testing.T) {
	tasks := []models.Task{task(t, "a", "2024-03-01", "2024-03-05")}
	g := NewGraph(nil)

	_, err := Preview(g, tasks, "nope", 1)
	if !errors.Is(err, types.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestPreview_SortedByOriginalStart(t *testing.T) {
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-02"),
		task(t, "late", "2024-03-20", "2024-03-22"),
		task(t, "early", "2024-03-03", "2024-03-04"),
	}
	g := NewGraph([]models.Dependency{
		edge("a", "late", models.FinishToStart, 20),
		edge("a", "early", models.FinishToStart, 0),
	})

	result, err := Preview(g, tasks, "a", 10)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	for i := 1; i < len(result.Cascaded); i++ {
		if result.Cascaded[i].OriginalStart.Before(result.Cascaded[i-1].OriginalStart) {
			t.Errorf("cascaded previews not sorted by original start: %+v", result.Cascaded)
		}
	}
}

func TestPreviewResize(t *testing.T) {
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-10"),
		task(t, "b", "2024-03-11", "2024-03-15"),
	}
	g := NewGraph([]models.Dependency{edge("a", "b", models.FinishToStart, 0)})

	// Extending a's end by 3 days pushes b the same amount.
	result, err := PreviewResize(g, tasks, "a", 0, 3)
	if err != nil {
		t.Fatalf("PreviewResize failed: %v", err)
	}
	if got, want := result.Shifted.ProposedEnd.String(), "2024-03-13"; got != want {
		t.Errorf("resized end = %s, want %s", got, want)
	}
	if got, want := result.Shifted.ProposedStart.String(), "2024-03-01"; got != want {
		t.Errorf("resized start moved: %s, want %s", got, want)
	}
	b, ok := entryByID(result.Cascaded, "b")
	if !ok {
		t.Fatal("expected b in cascaded previews")
	}
	if b.DeltaDays != 3 {
		t.Errorf("b delta = %d, want 3", b.DeltaDays)
	}

	// Shrinking past the start is invalid input.
	if _, err := PreviewResize(g, tasks, "a", 0, -15); !errors.Is(err, types.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestApplyRainDelay(t *testing.T) {
	// a starts 2024-03-06 (on/after the 2024-03-05 cutoff) and shifts to
	// 2024-03-09. b depends FS on a but starts 2024-03-10... a's new end
	// 2024-03-11 pushes b to 2024-03-12.
	tasks := []models.Task{
		task(t, "before", "2024-03-01", "2024-03-03"),
		task(t, "a", "2024-03-06", "2024-03-08"),
		task(t, "b", "2024-03-10", "2024-03-12"),
	}
	deps := []models.Dependency{edge("a", "b", models.FinishToStart, 0)}
	cutoff := date(t, "2024-03-05")

	affected := ApplyRainDelay(tasks, deps, cutoff, 3)

	if _, ok := entryByID(affected, "before"); ok {
		t.Error("task starting before the cutoff must be unaffected")
	}

	a, ok := entryByID(affected, "a")
	if !ok {
		t.Fatal("expected a in affected tasks")
	}
	if !a.IsDirect || a.DeltaDays != 3 {
		t.Errorf("a: IsDirect=%v delta=%d, want direct delta 3", a.IsDirect, a.DeltaDays)
	}
	if got, want := a.ProposedStart.String(), "2024-03-09"; got != want {
		t.Errorf("a proposed start = %s, want %s", got, want)
	}

	// b is also on/after the cutoff, so it is direct too and shifted
	// exactly once even though it is a cascade target of a.
	b, ok := entryByID(affected, "b")
	if !ok {
		t.Fatal("expected b in affected tasks")
	}
	if !b.IsDirect {
		t.Error("b must keep its direct tag when unioned with a's cascade")
	}
	if b.DeltaDays != 3 {
		t.Errorf("b delta = %d, want 3 (no double shift)", b.DeltaDays)
	}

	seen := make(map[string]int)
	for _, e := range affected {
		seen[e.TaskID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("task %s reported %d times", id, n)
		}
	}
}

func TestApplyRainDelay_CascadesBeyondCutoff(t *testing.T) {
	// A successor starting before the cutoff cannot exist under FS, but an
	// SS successor can: it starts before the cutoff yet must follow its
	// delayed predecessor. It is cascaded, not direct.
	tasks := []models.Task{
		task(t, "a", "2024-03-06", "2024-03-10"),
		task(t, "b", "2024-03-04", "2024-03-20"),
	}
	deps := []models.Dependency{edge("a", "b", models.StartToStart, -2)}
	cutoff := date(t, "2024-03-05")

	affected := ApplyRainDelay(tasks, deps, cutoff, 3)

	b, ok := entryByID(affected, "b")
	if !ok {
		t.Fatal("expected b in affected tasks")
	}
	if b.IsDirect {
		t.Error("b starts before the cutoff and must be cascaded, not direct")
	}
	// a's new start is 2024-03-09; SS lag -2 gives b a minimum start of
	// 2024-03-07, a 3-day shift from 2024-03-04.
	if got, want := b.ProposedStart.String(), "2024-03-07"; got != want {
		t.Errorf("b proposed start = %s, want %s", got, want)
	}

	// Results sorted by original start: b (03-04) before a (03-06).
	if len(affected) == 2 && affected[0].TaskID != "b" {
		t.Errorf("affected tasks not sorted by original start: %+v", affected)
	}
}

func TestApplyRainDelay_NoDelay(t *testing.T) {
	tasks := []models.Task{task(t, "a", "2024-03-06", "2024-03-08")}
	if got := ApplyRainDelay(tasks, nil, date(t, "2024-03-01"), 0); len(got) != 0 {
		t.Errorf("zero delay should affect nothing, got %+v", got)
	}
}

func TestConstraintShift_DegenerateInterval(t *testing.T) {
	// A target with end before start is invalid input; the evaluator must
	// not propagate negative durations.
	tasks := []models.Task{
		task(t, "a", "2024-03-01", "2024-03-10"),
		task(t, "bad", "2024-03-12", "2024-03-11"),
	}
	g := NewGraph([]models.Dependency{edge("a", "bad", models.FinishToStart, 0)})

	result, err := Preview(g, tasks, "a", 5)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if bad, ok := entryByID(result.Cascaded, "bad"); ok {
		if bad.ProposedEnd.Before(bad.ProposedStart) != bad.OriginalEnd.Before(bad.OriginalStart) {
			t.Errorf("degenerate interval handling changed shape: %+v", bad)
		}
		if bad.ProposedStart.DaysUntil(bad.ProposedEnd) != bad.OriginalStart.DaysUntil(bad.OriginalEnd) {
			t.Errorf("translation must preserve the interval width: %+v", bad)
		}
	}
}
