// Package graph validates the predecessor graph of a project and routes
// dependency arrows through the visible row space.
package graph

import (
	"slices"

	"github.com/alexanderramin/gantt/internal/domain"
)

// Link is one predecessor edge: Predecessor must happen before Successor.
type Link struct {
	Predecessor string
	Successor   string
	Type        domain.DependencyType
}

// Graph is the predecessor relation of a project's tasks.
type Graph struct {
	tasks map[string]bool
	// preds maps a successor to its predecessor IDs, in link order.
	preds map[string][]string
	links []Link
}

// FromTasks builds the graph from each task's predecessor list.
func FromTasks(tasks []*domain.Task) *Graph {
	g := &Graph{
		tasks: make(map[string]bool, len(tasks)),
		preds: make(map[string][]string),
	}
	for _, t := range tasks {
		g.tasks[t.ID] = true
	}
	for _, t := range tasks {
		for _, p := range t.Predecessors {
			g.preds[t.ID] = append(g.preds[t.ID], p.TaskID)
			g.links = append(g.links, Link{Predecessor: p.TaskID, Successor: t.ID, Type: p.Type})
		}
	}
	return g
}

// Links returns every link, dangling ones included.
func (g *Graph) Links() []Link {
	return slices.Clone(g.links)
}

// WouldCycle reports whether adding predecessorID as a predecessor of
// successorID would close a cycle. It does so iff successorID is already
// reachable from predecessorID by walking predecessor edges. A self-link is
// a cycle.
func (g *Graph) WouldCycle(successorID, predecessorID string) bool {
	if successorID == predecessorID {
		return true
	}
	visited := make(map[string]bool)
	stack := []string{predecessorID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == successorID {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		stack = append(stack, g.preds[id]...)
	}
	return false
}

// HasCycle reports whether the current graph contains any cycle.
func (g *Graph) HasCycle() bool {
	return len(g.Cycle()) > 0
}

// Cycle returns the task IDs of one cycle, or nil if the graph is acyclic.
func (g *Graph) Cycle() []string {
	return FindCycle(g.preds)
}

// Dangling returns links whose predecessor task no longer exists.
func (g *Graph) Dangling() []Link {
	var out []Link
	for _, l := range g.links {
		if !g.tasks[l.Predecessor] {
			out = append(out, l)
		}
	}
	return out
}

// FindCycle runs a three-colour depth-first search over edges (node ->
// neighbours) and returns the nodes of the first cycle found, or nil.
// Traversal order is deterministic.
func FindCycle(edges map[string][]string) []string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully processed
	)

	nodes := make([]string, 0, len(edges))
	for n := range edges {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)

	color := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = gray
		path = append(path, n)
		for _, next := range edges[n] {
			switch color[next] {
			case gray:
				start := slices.Index(path, next)
				cycle = slices.Clone(path[start:])
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return false
	}

	for _, n := range nodes {
		if color[n] == white && visit(n) {
			return cycle
		}
	}
	return nil
}
