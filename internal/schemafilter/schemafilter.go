// Package schemafilter applies allow/deny table filters to extracted schemas.
package schemafilter

import (
	"path"
	"strings"

	"ddl-deps/internal/ddl"
)

// Config controls allow/deny filters for tables.
type Config struct {
	AllowTables []string `mapstructure:"allow_tables"`
	DenyTables  []string `mapstructure:"deny_tables"`
}

// Apply returns a copy of schema without filtered tables and without any edge
// touching a filtered table. Edge endpoints that were never declared are filtered
// by name the same way. Missing allow lists default to allow-all; deny rules always win.
func Apply(schema *ddl.Schema, cfg Config) *ddl.Schema {
	filtered := ddl.NewSchema()
	if schema == nil {
		return filtered
	}

	for _, table := range schema.Tables {
		if TableAllowed(table, cfg) {
			filtered.AddTable(table)
		}
	}
	for _, edge := range schema.Edges {
		if !TableAllowed(edge.From, cfg) || !TableAllowed(edge.To, cfg) {
			continue
		}
		filtered.Edges = append(filtered.Edges, edge)
	}
	return filtered
}

// TableAllowed reports whether a table passes the allow and deny lists.
func TableAllowed(table string, cfg Config) bool {
	if matchesAny(table, cfg.DenyTables) {
		return false
	}
	if len(cfg.AllowTables) == 0 {
		return true
	}
	return matchesAny(table, cfg.AllowTables)
}

func matchesAny(value string, patterns []string) bool {
	value = strings.ToLower(value)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		// matching should be case-insensitive
		ok, err := path.Match(strings.ToLower(pattern), value)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
