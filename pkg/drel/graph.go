package drel

import (
	"fmt"
	"sort"

	"github.com/cifkit/cif/pkg/span"
)

// Edge is one target→referenced-item dependency, carrying every span at
// which the dependency was observed (spec §4.8: a target can reference
// the same item more than once, e.g. inside a loop body).
type Edge struct {
	From  string
	To    string
	Spans []span.Span
}

// Graph is a dREL dependency graph: items as vertices, DataName
// references as directed edges (spec §4.8).
type Graph struct {
	nodes map[string]struct{}
	edges map[string]map[string]*Edge
}

// NewGraph returns an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{nodes: map[string]struct{}{}, edges: map[string]map[string]*Edge{}}
}

// AddTarget extracts stmts' DataName references and adds an edge
// target→ref for every one distinct from target itself (spec §4.8).
// Calling AddTarget again for the same target merges in any new spans
// rather than replacing prior edges, so a dictionary-wide graph can be
// built by calling it once per item with a dREL method.
func (g *Graph) AddTarget(target string, stmts []*Statement) {
	g.nodes[target] = struct{}{}
	for _, ref := range ExtractReferences(stmts) {
		if ref.Kind != RefDataName {
			continue
		}
		name := "_" + ref.Category + "." + ref.Object
		if name == target {
			continue
		}
		g.addEdge(target, name, ref.Span)
	}
}

func (g *Graph) addEdge(from, to string, sp span.Span) {
	g.nodes[to] = struct{}{}
	byTo, ok := g.edges[from]
	if !ok {
		byTo = map[string]*Edge{}
		g.edges[from] = byTo
	}
	e, ok := byTo[to]
	if !ok {
		e = &Edge{From: from, To: to}
		byTo[to] = e
	}
	e.Spans = append(e.Spans, sp)
}

// Edges returns every edge out of from, in destination-name sorted order
// for deterministic iteration.
func (g *Graph) Edges(from string) []*Edge {
	byTo := g.edges[from]
	out := make([]*Edge, 0, len(byTo))
	for _, e := range byTo {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
}

func (g *Graph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// DetectCycle runs a DFS with a recursion-stack set over every node,
// visited in sorted order for determinism, and returns the first cycle
// found as the sequence of vertices that form it (spec §4.8, §9). ok is
// false when the graph is acyclic.
func (g *Graph) DetectCycle() (cycle []string, ok bool) {
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var stack []string

	var visit func(node string) []string
	visit = func(node string) []string {
		visited[node] = true
		onStack[node] = true
		stack = append(stack, node)

		for _, e := range g.Edges(node) {
			if onStack[e.To] {
				start := indexOf(stack, e.To)
				found := append([]string{}, stack[start:]...)
				return found
			}
			if !visited[e.To] {
				if found := visit(e.To); found != nil {
					return found
				}
			}
		}

		onStack[node] = false
		stack = stack[:len(stack)-1]
		return nil
	}

	for _, n := range g.sortedNodes() {
		if visited[n] {
			continue
		}
		if found := visit(n); found != nil {
			return found, true
		}
	}
	return nil, false
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// CycleError reports a cycle TopologicalSort encountered.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %v", e.Cycle)
}

// TopologicalSort returns the graph's nodes in dependency order (a
// node's dependencies precede it), stable given the same edge set, or a
// *CycleError when the graph isn't a DAG (spec §4.8, §9: "stable under
// cycle → error branching").
func (g *Graph) TopologicalSort() ([]string, error) {
	if cycle, found := g.DetectCycle(); found {
		return nil, &CycleError{Cycle: cycle}
	}

	visited := map[string]bool{}
	var order []string

	var visit func(node string)
	visit = func(node string) {
		if visited[node] {
			return
		}
		visited[node] = true
		for _, e := range g.Edges(node) {
			visit(e.To)
		}
		order = append(order, node)
	}

	for _, n := range g.sortedNodes() {
		visit(n)
	}
	return order, nil
}
