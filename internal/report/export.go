package report

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"ddl-deps/internal/ddl"
	"ddl-deps/internal/depgraph"
)

// ExportDocument is the machine-readable form of an analysis.
type ExportDocument struct {
	Start       string        `yaml:"start"`
	Tables      []string      `yaml:"tables"`
	Edges       []ExportEdge  `yaml:"edges"`
	Referenced  ExportSection `yaml:"referenced"`
	Referencing ExportSection `yaml:"referencing"`
}

// ExportEdge is one distinct foreign-key dependency.
type ExportEdge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ExportSection lists the paths found in one direction.
type ExportSection struct {
	Direction string     `yaml:"direction"`
	Cycles    int        `yaml:"cycles"`
	Paths     [][]string `yaml:"paths"`
}

// NewExportDocument assembles an export from the analysis pieces.
func NewExportDocument(start string, tables []string, edges []ddl.Edge, forward, reverse []depgraph.Path) ExportDocument {
	doc := ExportDocument{
		Start:       start,
		Tables:      append([]string{}, tables...),
		Edges:       make([]ExportEdge, 0, len(edges)),
		Referenced:  newExportSection(depgraph.Forward, forward),
		Referencing: newExportSection(depgraph.Reverse, reverse),
	}
	for _, e := range edges {
		doc.Edges = append(doc.Edges, ExportEdge{From: e.From, To: e.To})
	}
	return doc
}

func newExportSection(dir depgraph.Direction, paths []depgraph.Path) ExportSection {
	section := ExportSection{
		Direction: dir.String(),
		Cycles:    depgraph.CycleCount(paths),
		Paths:     make([][]string, 0, len(paths)),
	}
	for _, p := range paths {
		section.Paths = append(section.Paths, append([]string{}, p...))
	}
	return section
}

// RenderExport encodes doc as YAML.
func RenderExport(doc ExportDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return buf.Bytes(), nil
}
