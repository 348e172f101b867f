package schedule

import (
	"errors"
	"testing"

	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/types"
)

func fsEdge(from, to string) models.Dependency {
	return models.Dependency{FromTaskID: from, ToTaskID: to, Type: models.FinishToStart}
}

func TestGraph_WouldCreateCycle(t *testing.T) {
	// a -> b -> c, plus d off to the side
	g := NewGraph([]models.Dependency{fsEdge("a", "b"), fsEdge("b", "c")})

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"direct back edge", "b", "a", true},
		{"transitive back edge", "c", "a", true},
		{"self edge", "a", "a", true},
		{"forward shortcut is fine", "a", "c", false},
		{"unrelated node", "c", "d", false},
		{"into the chain", "d", "b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.WouldCreateCycle(tt.from, tt.to); got != tt.want {
				t.Errorf("WouldCreateCycle(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestGraph_WouldCreateCycle_MatchesReachability(t *testing.T) {
	// wouldCreateCycle(g, a, b) must be true iff b already reaches a.
	g := NewGraph([]models.Dependency{
		fsEdge("a", "b"),
		fsEdge("b", "c"),
		fsEdge("a", "c"),
		fsEdge("c", "d"),
	})

	ids := []string{"a", "b", "c", "d"}
	for _, from := range ids {
		for _, to := range ids {
			want := g.Reachable(to, from)
			if got := g.WouldCreateCycle(from, to); got != want {
				t.Errorf("WouldCreateCycle(%s, %s) = %v, want reachability %v", from, to, got, want)
			}
		}
	}
}

func TestGraph_AddEdge_Rejections(t *testing.T) {
	g := NewGraph([]models.Dependency{fsEdge("a", "b"), fsEdge("b", "c")})

	if err := g.AddEdge(fsEdge("c", "a")); !errors.Is(err, types.ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
	if err := g.AddEdge(fsEdge("a", "a")); !errors.Is(err, types.ErrSelfDependency) {
		t.Errorf("expected ErrSelfDependency, got %v", err)
	}
	if err := g.AddEdge(fsEdge("a", "b")); !errors.Is(err, types.ErrDependencyExists) {
		t.Errorf("expected ErrDependencyExists, got %v", err)
	}
	if err := g.AddEdge(models.Dependency{FromTaskID: "a", ToTaskID: "d", Type: "XX"}); err == nil {
		t.Error("expected error for unknown dependency type")
	}

	// A rejected edge must not have been inserted.
	if g.HasEdge("c", "a") || g.HasEdge("a", "a") {
		t.Error("rejected edge was inserted")
	}

	// An accepted edge keeps the graph acyclic: the reverse direction is
	// now a cycle, the forward one was not.
	if err := g.AddEdge(fsEdge("a", "c")); err != nil {
		t.Fatalf("AddEdge(a, c) failed: %v", err)
	}
	if !g.WouldCreateCycle("c", "a") {
		t.Error("expected c -> a to close a cycle after adding a -> c")
	}
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := NewGraph([]models.Dependency{fsEdge("a", "b"), fsEdge("b", "c")})

	if err := g.RemoveEdge("a", "b"); err != nil {
		t.Fatalf("RemoveEdge failed: %v", err)
	}
	if g.HasEdge("a", "b") {
		t.Error("edge still present after removal")
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 edge left, got %d", g.Len())
	}
	if err := g.RemoveEdge("a", "b"); !errors.Is(err, types.ErrDependencyNotFound) {
		t.Errorf("expected ErrDependencyNotFound, got %v", err)
	}

	// Removing the edge must reopen the reverse direction.
	if err := g.AddEdge(fsEdge("b", "a")); err != nil {
		t.Errorf("AddEdge(b, a) after removal failed: %v", err)
	}
}

func TestGraph_TopologicalOrder(t *testing.T) {
	g := NewGraph([]models.Dependency{
		fsEdge("a", "b"),
		fsEdge("a", "c"),
		fsEdge("b", "d"),
		fsEdge("c", "d"),
	})

	order := g.TopologicalOrder()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := pos[id]; dup {
			t.Fatalf("task %s appears twice in order %v", id, order)
		}
		pos[id] = i
	}

	for _, dep := range g.Edges() {
		if pos[dep.FromTaskID] > pos[dep.ToTaskID] {
			t.Errorf("%s ordered after its successor %s: %v", dep.FromTaskID, dep.ToTaskID, order)
		}
	}
}

func TestGraph_TopologicalOrder_TerminatesOnCycle(t *testing.T) {
	// Malformed persisted data may contain cycles; the walk must still
	// terminate and emit every node once.
	g := NewGraph([]models.Dependency{fsEdge("a", "b"), fsEdge("b", "a"), fsEdge("b", "c")})

	order := g.TopologicalOrder()
	if len(order) != 3 {
		t.Errorf("expected 3 nodes, got %v", order)
	}
	seen := make(map[string]bool)
	for _, id := range order {
		if seen[id] {
			t.Errorf("duplicate node %s in %v", id, order)
		}
		seen[id] = true
	}
}
