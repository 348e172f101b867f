// Package schedule implements the dependency-aware date-cascade engine.
//
// The engine is pure: it reads an immutable snapshot of tasks and
// dependencies and returns computed previews. It never mutates the plan;
// applying a confirmed cascade is the store's job.
package schedule

import (
	"fmt"
	"sort"

	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/types"
)

// Graph is an adjacency-list view of the dependency edges of a plan.
// Edges are keyed by predecessor for forward walks and by successor for
// constraint evaluation during propagation.
type Graph struct {
	outgoing map[string][]models.Dependency
	incoming map[string][]models.Dependency
	count    int
}

// NewGraph builds a graph from a dependency snapshot. Edges are taken as-is;
// persisted data is not trusted to be acyclic, so every traversal below
// carries its own visited set.
func NewGraph(deps []models.Dependency) *Graph {
	g := &Graph{
		outgoing: make(map[string][]models.Dependency),
		incoming: make(map[string][]models.Dependency),
	}
	for _, d := range deps {
		g.outgoing[d.FromTaskID] = append(g.outgoing[d.FromTaskID], d)
		g.incoming[d.ToTaskID] = append(g.incoming[d.ToTaskID], d)
		g.count++
	}
	return g
}

// Len returns the number of edges.
func (g *Graph) Len() int { return g.count }

// Outgoing returns the edges leaving the given task.
func (g *Graph) Outgoing(taskID string) []models.Dependency {
	return g.outgoing[taskID]
}

// Incoming returns the edges arriving at the given task.
func (g *Graph) Incoming(taskID string) []models.Dependency {
	return g.incoming[taskID]
}

// Edges returns all edges in insertion order per predecessor.
func (g *Graph) Edges() []models.Dependency {
	out := make([]models.Dependency, 0, g.count)
	for _, edges := range g.outgoing {
		out = append(out, edges...)
	}
	return out
}

// HasEdge reports whether an edge from→to already exists, regardless of type.
func (g *Graph) HasEdge(from, to string) bool {
	for _, d := range g.outgoing[from] {
		if d.ToTaskID == to {
			return true
		}
	}
	return false
}

// Reachable reports whether to can be reached from from by following
// outgoing edges. Iterative DFS with a visited set, so it terminates even
// on malformed cyclic input.
func (g *Graph) Reachable(from, to string) bool {
	if from == to {
		return true
	}
	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, d := range g.outgoing[cur] {
			if d.ToTaskID == to {
				return true
			}
			if !visited[d.ToTaskID] {
				stack = append(stack, d.ToTaskID)
			}
		}
	}
	return false
}

// WouldCreateCycle reports whether inserting an edge from→to would close a
// dependency loop, i.e. whether from is already reachable from to.
// A self-edge always counts as a cycle.
func (g *Graph) WouldCreateCycle(from, to string) bool {
	return g.Reachable(to, from)
}

// AddEdge validates and inserts a new dependency. Self-dependencies,
// duplicates and cycle-closing edges are rejected with sentinel errors so
// the caller can surface the rejection to the user.
func (g *Graph) AddEdge(dep models.Dependency) error {
	if dep.FromTaskID == dep.ToTaskID {
		return fmt.Errorf("edge %s -> %s: %w", dep.FromTaskID, dep.ToTaskID, types.ErrSelfDependency)
	}
	if !dep.Type.IsValid() {
		return fmt.Errorf("edge %s -> %s: unknown dependency type %q", dep.FromTaskID, dep.ToTaskID, dep.Type)
	}
	if g.HasEdge(dep.FromTaskID, dep.ToTaskID) {
		return fmt.Errorf("edge %s -> %s: %w", dep.FromTaskID, dep.ToTaskID, types.ErrDependencyExists)
	}
	if g.WouldCreateCycle(dep.FromTaskID, dep.ToTaskID) {
		return fmt.Errorf("edge %s -> %s: %w", dep.FromTaskID, dep.ToTaskID, types.ErrCycle)
	}
	g.outgoing[dep.FromTaskID] = append(g.outgoing[dep.FromTaskID], dep)
	g.incoming[dep.ToTaskID] = append(g.incoming[dep.ToTaskID], dep)
	g.count++
	return nil
}

// RemoveEdge deletes the edge from→to. Returns ErrDependencyNotFound if no
// such edge exists.
func (g *Graph) RemoveEdge(from, to string) error {
	if !g.HasEdge(from, to) {
		return fmt.Errorf("edge %s -> %s: %w", from, to, types.ErrDependencyNotFound)
	}
	g.outgoing[from] = removeEdge(g.outgoing[from], from, to)
	g.incoming[to] = removeEdge(g.incoming[to], from, to)
	g.count--
	return nil
}

func removeEdge(edges []models.Dependency, from, to string) []models.Dependency {
	out := edges[:0]
	for _, d := range edges {
		if d.FromTaskID != from || d.ToTaskID != to {
			out = append(out, d)
		}
	}
	return out
}

// TopologicalOrder returns task IDs so that every predecessor appears
// before its successors. On malformed cyclic input the order is best-effort
// but complete: every node appears exactly once and the walk terminates.
func (g *Graph) TopologicalOrder() []string {
	visited := make(map[string]bool)
	var order []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, d := range g.incoming[id] {
			visit(d.FromTaskID)
		}
		order = append(order, id)
	}

	// Deterministic iteration: walk successors of every known edge endpoint.
	for _, id := range g.nodeIDs() {
		visit(id)
	}
	return order
}

// nodeIDs returns every task ID that participates in at least one edge,
// in a stable order.
func (g *Graph) nodeIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for from, edges := range g.outgoing {
		add(from)
		for _, d := range edges {
			add(d.ToTaskID)
		}
	}
	sort.Strings(ids)
	return ids
}
