package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ddl-deps/internal/ddl"
	"ddl-deps/internal/depgraph"
)

func TestRenderDiagram(t *testing.T) {
	got := RenderDiagram([]ddl.Edge{
		{From: "B", To: "A"},
		{From: "C", To: "B"},
		{From: "B", To: "A", Origin: ddl.OriginAlterTable},
		{From: "ORDERS", To: "REGIONS"},
	})

	want := "```mermaid\n" +
		"graph TD;\n" +
		"    B-->A;\n" +
		"    C-->B;\n" +
		"    ORDERS-->REGIONS;\n" +
		"```\n"
	assert.Equal(t, want, got)
}

func TestRenderDiagram_NoEdges(t *testing.T) {
	assert.Equal(t, "```mermaid\ngraph TD;\n```\n", RenderDiagram(nil))
}

func TestRenderReport(t *testing.T) {
	forward := []depgraph.Path{{"B", "A"}}
	reverse := []depgraph.Path{{"B"}}

	want := "Tabela analisada: B\n" +
		"-- Tabelas referenciadas por B --\n" +
		"B > A\n" +
		"-- Tabelas que referenciam B --\n" +
		"B\n"
	assert.Equal(t, want, RenderReport("B", forward, reverse))
}

func TestRenderReport_MultiplePaths(t *testing.T) {
	forward := []depgraph.Path{{"A", "B", "C"}, {"A", "D"}}
	reverse := []depgraph.Path{{"A", "X", "A"}}

	want := "Tabela analisada: A\n" +
		"-- Tabelas referenciadas por A --\n" +
		"A > B > C\n" +
		"A > D\n" +
		"-- Tabelas que referenciam A --\n" +
		"A -> X -> A\n"
	assert.Equal(t, want, RenderReport("A", forward, reverse))
}

func TestRenderExport(t *testing.T) {
	doc := NewExportDocument(
		"B",
		[]string{"A", "B"},
		[]ddl.Edge{{From: "B", To: "A"}},
		[]depgraph.Path{{"B", "A"}},
		[]depgraph.Path{{"B"}},
	)

	data, err := RenderExport(doc)
	require.NoError(t, err)

	var decoded ExportDocument
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "B", decoded.Start)
	assert.Equal(t, []ExportEdge{{From: "B", To: "A"}}, decoded.Edges)
	assert.Equal(t, "forward", decoded.Referenced.Direction)
	assert.Equal(t, [][]string{{"B", "A"}}, decoded.Referenced.Paths)
	assert.Equal(t, "reverse", decoded.Referencing.Direction)
	assert.Zero(t, decoded.Referencing.Cycles)
}

func TestNewExportDocument_CountsCycles(t *testing.T) {
	doc := NewExportDocument("A", nil, nil,
		[]depgraph.Path{{"A", "B", "A"}, {"A", "C"}},
		[]depgraph.Path{{"A"}},
	)

	assert.Equal(t, 1, doc.Referenced.Cycles)
	assert.Equal(t, 0, doc.Referencing.Cycles)
	assert.Empty(t, doc.Tables)
	assert.NotNil(t, doc.Edges)
}
