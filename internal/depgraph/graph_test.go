package depgraph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddl-deps/internal/ddl"
)

func edges(pairs ...string) []ddl.Edge {
	out := make([]ddl.Edge, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, ddl.Edge{From: pairs[i], To: pairs[i+1]})
	}
	return out
}

func render(paths []Path, sep string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.String(sep))
	}
	return out
}

func TestBuild_AdjacencyKeepsInsertionOrder(t *testing.T) {
	g := Build(edges("ORDERS", "CUSTOMERS", "ORDERS", "ADDRESSES", "INVOICES", "ORDERS", "ORDERS", "CUSTOMERS"))

	assert.Equal(t, []string{"CUSTOMERS", "ADDRESSES"}, g.Forward("ORDERS"))
	assert.Equal(t, []string{"ORDERS"}, g.Reverse("CUSTOMERS"))
	assert.Equal(t, []string{"INVOICES"}, g.Reverse("ORDERS"))
	assert.Equal(t, []string{"ORDERS", "CUSTOMERS", "ADDRESSES", "INVOICES"}, g.Nodes())
}

func TestBuild_UnknownTableHasNoNeighbors(t *testing.T) {
	g := Build(edges("A", "B"))

	assert.Empty(t, g.Forward("MISSING"))
	assert.Empty(t, g.Reverse("MISSING"))
	assert.NotNil(t, g.Forward("MISSING"))
	assert.Empty(t, g.Forward("B"))
}

func TestBuild_NeighborsAreCopies(t *testing.T) {
	g := Build(edges("A", "B"))

	got := g.Forward("A")
	got[0] = "MUTATED"
	assert.Equal(t, []string{"B"}, g.Forward("A"))
}

func TestGraph_EdgesCollapseDuplicates(t *testing.T) {
	g := Build(edges("B", "A", "C", "B", "B", "A", "B", "D", "C", "B"))

	assert.Equal(t, []ddl.Edge{
		{From: "B", To: "A"},
		{From: "B", To: "D"},
		{From: "C", To: "B"},
	}, g.Edges())
}

func TestGraph_Neighbors(t *testing.T) {
	g := Build(edges("A", "B"))

	assert.Equal(t, []string{"B"}, g.Neighbors("A", Forward))
	assert.Equal(t, []string{"A"}, g.Neighbors("B", Reverse))
}

func TestEnumeratePaths_NoEdgesYieldsTrivialPath(t *testing.T) {
	g := Build(nil)

	for _, dir := range []Direction{Forward, Reverse} {
		paths := EnumeratePaths(context.Background(), "LONELY", g, dir)
		require.Len(t, paths, 1)
		assert.Equal(t, Path{"LONELY"}, paths[0])
	}
}

func TestEnumeratePaths_Chain(t *testing.T) {
	g := Build(edges("A", "B", "B", "C"))

	forward := EnumeratePaths(context.Background(), "A", g, Forward)
	assert.Equal(t, []string{"A > B > C"}, render(forward, " > "))

	reverse := EnumeratePaths(context.Background(), "C", g, Reverse)
	assert.Equal(t, []string{"C -> B -> A"}, render(reverse, " -> "))
}

func TestEnumeratePaths_Branching(t *testing.T) {
	g := Build(edges(
		"ORDER_ITEMS", "ORDERS",
		"ORDER_ITEMS", "PRODUCTS",
		"ORDERS", "CUSTOMERS",
		"PRODUCTS", "SUPPLIERS",
		"SUPPLIERS", "COUNTRIES",
		"CUSTOMERS", "COUNTRIES",
	))

	paths := EnumeratePaths(context.Background(), "ORDER_ITEMS", g, Forward)
	assert.Equal(t, []string{
		"ORDER_ITEMS > ORDERS > CUSTOMERS > COUNTRIES",
		"ORDER_ITEMS > PRODUCTS > SUPPLIERS > COUNTRIES",
	}, render(paths, " > "))

	reverse := EnumeratePaths(context.Background(), "COUNTRIES", g, Reverse)
	assert.Equal(t, []string{
		"COUNTRIES -> CUSTOMERS -> ORDERS -> ORDER_ITEMS",
		"COUNTRIES -> SUPPLIERS -> PRODUCTS -> ORDER_ITEMS",
	}, render(reverse, " -> "))
}

func TestEnumeratePaths_TwoNodeCycle(t *testing.T) {
	g := Build(edges("A", "B", "B", "A"))

	paths := EnumeratePaths(context.Background(), "A", g, Forward)
	require.Equal(t, []string{"A > B > A"}, render(paths, " > "))
	assert.True(t, paths[0].IsCycle())
	assert.Equal(t, 1, CycleCount(paths))
}

func TestEnumeratePaths_SelfReference(t *testing.T) {
	g := Build(edges("EMPLOYEES", "EMPLOYEES", "EMPLOYEES", "DEPARTMENTS"))

	paths := EnumeratePaths(context.Background(), "EMPLOYEES", g, Forward)
	assert.Equal(t, []string{
		"EMPLOYEES > DEPARTMENTS",
		"EMPLOYEES > EMPLOYEES",
	}, render(paths, " > "))
	assert.Equal(t, 1, CycleCount(paths))
}

func TestEnumeratePaths_SiblingBranchesDoNotShareVisitedState(t *testing.T) {
	// Both branches pass through C; the second visit must not be treated as a cycle.
	g := Build(edges("A", "B1", "A", "B2", "B1", "C", "B2", "C"))

	paths := EnumeratePaths(context.Background(), "A", g, Forward)
	assert.Equal(t, []string{"A > B1 > C", "A > B2 > C"}, render(paths, " > "))
	assert.Zero(t, CycleCount(paths))
}

func TestEnumeratePaths_CycleInsideLargerGraph(t *testing.T) {
	g := Build(edges("A", "B", "B", "C", "C", "B", "C", "D"))

	paths := EnumeratePaths(context.Background(), "A", g, Forward)
	assert.Equal(t, []string{"A > B > C > B", "A > B > C > D"}, render(paths, " > "))
}

func TestEnumeratePaths_DuplicateEdgesDeduplicated(t *testing.T) {
	g := Build(edges("B", "A", "B", "A", "B", "A"))

	paths := EnumeratePaths(context.Background(), "B", g, Forward)
	assert.Equal(t, []string{"B > A"}, render(paths, " > "))
}

func TestEnumeratePaths_DeterministicAcrossRuns(t *testing.T) {
	g := Build(edges("A", "C", "A", "B", "B", "D", "C", "D", "D", "A"))

	first := EnumeratePaths(context.Background(), "A", g, Forward)
	second := EnumeratePaths(context.Background(), "A", g, Forward)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A > B > D > A", "A > C > D > A"}, render(first, " > "))
}

func TestEnumeratePaths_DeepChainWithoutRecursion(t *testing.T) {
	const depth = 3000
	var chain []ddl.Edge
	for i := 0; i < depth; i++ {
		chain = append(chain, ddl.Edge{From: tableName(i), To: tableName(i + 1)})
	}
	g := Build(chain)

	paths := EnumeratePaths(context.Background(), tableName(0), g, Forward)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0], depth+1)
}

func TestPath_IsCycle(t *testing.T) {
	assert.False(t, Path{"A"}.IsCycle())
	assert.False(t, Path{"A", "B"}.IsCycle())
	assert.True(t, Path{"A", "B", "A"}.IsCycle())
	assert.True(t, Path{"A", "A"}.IsCycle())
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "reverse", Reverse.String())
	assert.Equal(t, "unknown", Direction(9).String())
}

func tableName(i int) string {
	return fmt.Sprintf("T%d", i)
}
