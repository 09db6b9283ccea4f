// Package report renders dependency analysis results into the Mermaid diagram,
// the text report, and the optional YAML export, and writes them to disk.
package report

import (
	"strings"

	"ddl-deps/internal/ddl"
	"ddl-deps/internal/depgraph"
)

const (
	// DiagramFile is the fixed name of the Mermaid diagram artifact.
	DiagramFile = "mermaid.md"
	// ReportFile is the fixed name of the text report artifact.
	ReportFile = "resultado_analise.txt"

	forwardSeparator = " > "
	reverseSeparator = " -> "
)

// RenderDiagram renders edges as a top-down Mermaid graph. Repeated edges
// between the same pair of tables are written once, in first-seen order.
func RenderDiagram(edges []ddl.Edge) string {
	var b strings.Builder
	b.WriteString("```mermaid\ngraph TD;\n")

	seen := make(map[[2]string]struct{}, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.Key()]; ok {
			continue
		}
		seen[e.Key()] = struct{}{}
		b.WriteString("    ")
		b.WriteString(e.From)
		b.WriteString("-->")
		b.WriteString(e.To)
		b.WriteString(";\n")
	}

	b.WriteString("```\n")
	return b.String()
}

// RenderReport renders the text report: the analyzed table, then the tables it
// references (forward paths), then the tables referencing it (reverse paths).
// A path holding only the start table is still written as its own line.
func RenderReport(start string, forward, reverse []depgraph.Path) string {
	var b strings.Builder
	b.WriteString("Tabela analisada: " + start + "\n")

	b.WriteString("-- Tabelas referenciadas por " + start + " --\n")
	for _, p := range forward {
		b.WriteString(p.String(forwardSeparator))
		b.WriteByte('\n')
	}

	b.WriteString("-- Tabelas que referenciam " + start + " --\n")
	for _, p := range reverse {
		b.WriteString(p.String(reverseSeparator))
		b.WriteByte('\n')
	}
	return b.String()
}
