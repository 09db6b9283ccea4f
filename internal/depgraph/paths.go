package depgraph

import (
	"context"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Path is one walk from a query root. A path either ends at a table with no
// further edges in the walked direction, or ends by repeating a table already
// on the path (a cycle closure).
type Path []string

// String joins the path with sep.
func (p Path) String(sep string) string {
	return strings.Join(p, sep)
}

// IsCycle reports whether the last table already appears earlier in the path.
func (p Path) IsCycle() bool {
	if len(p) < 2 {
		return false
	}
	return slices.Contains(p[:len(p)-1], p[len(p)-1])
}

// CycleCount returns how many paths end in a cycle closure.
func CycleCount(paths []Path) int {
	n := 0
	for _, p := range paths {
		if p.IsCycle() {
			n++
		}
	}
	return n
}

// frame is one node of the traversal arena. Following parent indexes back to
// the root yields the path that reached the node.
type frame struct {
	table  string
	parent int
}

// EnumeratePaths walks g from start in dir and returns every simple path, plus
// one closing path per cycle encountered, deduplicated and sorted.
//
// The walk is an explicit-stack depth-first search. Each branch sees only the
// tables on its own path, so sibling branches do not affect each other's cycle
// detection. A start with no edges in dir yields the single path [start].
// The number of paths is exponential in the worst case.
func EnumeratePaths(ctx context.Context, start string, g *Graph, dir Direction) []Path {
	_, span := otel.Tracer("ddl-deps/depgraph").Start(ctx, "depgraph.enumerate_paths")
	defer span.End()
	span.SetAttributes(
		attribute.String("depgraph.start", start),
		attribute.String("depgraph.direction", dir.String()),
	)

	arena := []frame{{table: start, parent: -1}}
	stack := []int{0}
	var paths []Path

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		current := arena[idx].table

		next := g.neighbors(current, dir)
		if len(next) == 0 {
			paths = append(paths, pathTo(arena, idx))
			continue
		}
		for _, table := range next {
			if onPath(arena, idx, table) {
				paths = append(paths, append(pathTo(arena, idx), table))
				continue
			}
			arena = append(arena, frame{table: table, parent: idx})
			stack = append(stack, len(arena)-1)
		}
	}

	paths = sortPaths(paths)
	span.SetAttributes(
		attribute.Int("depgraph.paths", len(paths)),
		attribute.Int("depgraph.cycles", CycleCount(paths)),
	)
	return paths
}

func onPath(arena []frame, idx int, table string) bool {
	for i := idx; i >= 0; i = arena[i].parent {
		if arena[i].table == table {
			return true
		}
	}
	return false
}

func pathTo(arena []frame, idx int) Path {
	var path Path
	for i := idx; i >= 0; i = arena[i].parent {
		path = append(path, arena[i].table)
	}
	slices.Reverse(path)
	return path
}

// sortPaths orders paths element by element and drops duplicates. Table names never
// contain whitespace, so this matches sorting the rendered " > " or " -> " strings.
func sortPaths(paths []Path) []Path {
	slices.SortFunc(paths, func(a, b Path) int {
		return slices.Compare(a, b)
	})
	return slices.CompactFunc(paths, func(a, b Path) bool {
		return slices.Equal(a, b)
	})
}
