// Package depgraph builds a table dependency graph from foreign-key edges and
// enumerates every path through it from a starting table.
package depgraph

import (
	"ddl-deps/internal/ddl"
)

// Direction selects which adjacency a traversal follows.
type Direction int

const (
	// Forward follows "references" edges: from a table to the tables it depends on.
	Forward Direction = iota
	// Reverse follows "referenced by" edges: from a table to the tables depending on it.
	Reverse
)

// String returns the direction name used in logs and exports.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// Graph is an immutable adjacency view over a set of foreign-key edges.
// Parallel edges between the same pair of tables collapse to one.
type Graph struct {
	forward map[string][]string
	reverse map[string][]string
	sources []string
	nodes   []string
}

// Build creates a graph from edges. Neighbor lists keep first-seen edge order.
func Build(edges []ddl.Edge) *Graph {
	g := &Graph{
		forward: make(map[string][]string),
		reverse: make(map[string][]string),
	}

	seenEdge := make(map[[2]string]struct{}, len(edges))
	seenNode := make(map[string]struct{})
	addNode := func(name string) {
		if _, ok := seenNode[name]; ok {
			return
		}
		seenNode[name] = struct{}{}
		g.nodes = append(g.nodes, name)
	}

	for _, edge := range edges {
		addNode(edge.From)
		addNode(edge.To)

		key := edge.Key()
		if _, ok := seenEdge[key]; ok {
			continue
		}
		seenEdge[key] = struct{}{}

		if _, ok := g.forward[edge.From]; !ok {
			g.sources = append(g.sources, edge.From)
		}
		g.forward[edge.From] = append(g.forward[edge.From], edge.To)
		g.reverse[edge.To] = append(g.reverse[edge.To], edge.From)
	}
	return g
}

// Forward returns the tables referenced by table. Unknown tables yield an empty slice.
func (g *Graph) Forward(table string) []string {
	return append([]string{}, g.forward[table]...)
}

// Reverse returns the tables that reference table. Unknown tables yield an empty slice.
func (g *Graph) Reverse(table string) []string {
	return append([]string{}, g.reverse[table]...)
}

// Neighbors returns the adjacency of table in the given direction.
func (g *Graph) Neighbors(table string, dir Direction) []string {
	if dir == Reverse {
		return g.Reverse(table)
	}
	return g.Forward(table)
}

// Edges returns the distinct edges grouped by source table, sources in
// first-seen order and targets in first-seen order within each source.
func (g *Graph) Edges() []ddl.Edge {
	var out []ddl.Edge
	for _, from := range g.sources {
		for _, to := range g.forward[from] {
			out = append(out, ddl.Edge{From: from, To: to})
		}
	}
	return out
}

// Nodes returns every edge endpoint in first-seen order.
func (g *Graph) Nodes() []string {
	return append([]string{}, g.nodes...)
}

// neighbors returns the internal adjacency slice without copying.
func (g *Graph) neighbors(table string, dir Direction) []string {
	if dir == Reverse {
		return g.reverse[table]
	}
	return g.forward[table]
}
