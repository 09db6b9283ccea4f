// Package ddl extracts tables and foreign-key edges from schema definition text.
// Extraction is best-effort text scanning: unsupported or malformed statements are
// skipped rather than reported, so the result may be an incomplete graph but never an error.
package ddl

// EdgeOrigin records which declaration form produced an edge.
type EdgeOrigin string

const (
	// OriginAlterTable marks edges declared with ALTER TABLE ... ADD ... FOREIGN KEY.
	OriginAlterTable EdgeOrigin = "alter_table"
	// OriginInline marks edges declared inside a CREATE TABLE body.
	OriginInline EdgeOrigin = "inline"
)

// Edge is a foreign-key dependency: From holds a key referencing To.
// Origin is informational and does not take part in edge identity.
type Edge struct {
	From   string
	To     string
	Origin EdgeOrigin
}

// Key returns the identity of the edge, ignoring its origin.
func (e Edge) Key() [2]string {
	return [2]string{e.From, e.To}
}

// Schema is the result of scanning DDL text.
type Schema struct {
	// Tables lists declared table names in first-declaration order, without duplicates.
	Tables []string
	// Edges lists every foreign-key edge in source order, duplicates included.
	Edges []Edge

	tableSet map[string]struct{}
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{
		Tables:   []string{},
		Edges:    []Edge{},
		tableSet: make(map[string]struct{}),
	}
}

// AddTable records a declared table. Repeated declarations are ignored.
func (s *Schema) AddTable(name string) {
	if s.tableSet == nil {
		s.tableSet = make(map[string]struct{})
	}
	if _, ok := s.tableSet[name]; ok {
		return
	}
	s.tableSet[name] = struct{}{}
	s.Tables = append(s.Tables, name)
}

// HasTable reports whether name was declared with CREATE TABLE.
func (s *Schema) HasTable(name string) bool {
	_, ok := s.tableSet[name]
	return ok
}
