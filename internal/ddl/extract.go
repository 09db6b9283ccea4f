package ddl

import (
	"context"
	"log/slog"
	"regexp"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ddl-deps/internal/sqlutil"
)

// identPattern captures a table name; the capture stops at whitespace,
// parentheses, commas, and statement terminators.
const identPattern = `([^\s(),;]+)`

// extractor holds the compiled patterns for a single Extract call.
type extractor struct {
	createTable *regexp.Regexp
	alterFK     *regexp.Regexp
	references  *regexp.Regexp
}

func newExtractor() *extractor {
	return &extractor{
		createTable: regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + identPattern),
		alterFK: regexp.MustCompile(`(?i)\bALTER\s+TABLE\s+(?:ONLY\s+)?` + identPattern +
			`\s+ADD\s+(?:CONSTRAINT\s+[^\s(),;]+\s+)?FOREIGN\s+KEY\s*\([^)]*\)\s*REFERENCES\s+` + identPattern),
		references: regexp.MustCompile(`(?i)\bREFERENCES\s+` + identPattern),
	}
}

// positionedEdge keeps the byte offset an edge was found at so both
// declaration forms can be merged back into source order.
type positionedEdge struct {
	offset int
	edge   Edge
}

// Extract scans DDL text for CREATE TABLE declarations and foreign-key clauses.
// It never fails; constructs it does not recognize contribute nothing.
func Extract(ctx context.Context, text string) *Schema {
	_, span := startSpan(ctx, "ddl.extract",
		attribute.Int("ddl.bytes", len(text)),
	)
	defer span.End()

	x := newExtractor()
	source := blankComments(text)
	schema := NewSchema()

	var found []positionedEdge

	headers := x.createTable.FindAllStringSubmatchIndex(source, -1)
	for i, loc := range headers {
		table := sqlutil.NormalizeIdentifier(source[loc[2]:loc[3]])
		if table == "" {
			continue
		}
		schema.AddTable(table)

		limit := len(source)
		if i+1 < len(headers) {
			limit = headers[i+1][0]
		}
		start, end, ok := tableBody(source, loc[1], limit)
		if !ok {
			continue
		}
		body := source[start:end]
		for _, ref := range x.references.FindAllStringSubmatchIndex(body, -1) {
			target := sqlutil.NormalizeIdentifier(body[ref[2]:ref[3]])
			if target == "" {
				continue
			}
			found = append(found, positionedEdge{
				offset: start + ref[0],
				edge:   Edge{From: table, To: target, Origin: OriginInline},
			})
		}
	}

	for _, loc := range x.alterFK.FindAllStringSubmatchIndex(source, -1) {
		from := sqlutil.NormalizeIdentifier(source[loc[2]:loc[3]])
		to := sqlutil.NormalizeIdentifier(source[loc[4]:loc[5]])
		if from == "" || to == "" {
			continue
		}
		found = append(found, positionedEdge{
			offset: loc[0],
			edge:   Edge{From: from, To: to, Origin: OriginAlterTable},
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].offset < found[j].offset
	})
	for _, item := range found {
		schema.Edges = append(schema.Edges, item.edge)
	}

	span.SetAttributes(
		attribute.Int("ddl.tables", len(schema.Tables)),
		attribute.Int("ddl.edges", len(schema.Edges)),
	)
	slog.Default().Debug("extracted schema graph",
		slog.Int("tables", len(schema.Tables)),
		slog.Int("edges", len(schema.Edges)),
	)
	return schema
}

// tableBody locates the parenthesized body following a CREATE TABLE header.
// It returns the offsets just inside the outer parentheses. A body that is never
// closed ends at the first statement terminator, or at limit (the next CREATE TABLE
// header or the end of the text). Parentheses inside single-quoted literals are ignored.
func tableBody(source string, from, limit int) (int, int, bool) {
	i := from
	for i < limit && isSpace(source[i]) {
		i++
	}
	if i >= limit || source[i] != '(' {
		return 0, 0, false
	}

	start := i + 1
	depth := 1
	inString := false
	for j := start; j < limit; j++ {
		c := source[j]
		if inString {
			if c == '\'' {
				inString = false
			}
			continue
		}
		switch c {
		case '\'':
			inString = true
		case ';':
			return start, j, true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return start, j, true
			}
		}
	}
	return start, limit, true
}

// blankComments replaces "--" line comments and "/* */" block comments with spaces,
// keeping every byte offset stable. Comment markers inside single-quoted literals are
// left alone.
func blankComments(text string) string {
	out := []byte(text)
	inString := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		if inString {
			if c == '\'' {
				inString = false
			}
			continue
		}
		switch {
		case c == '\'':
			inString = true
		case c == '-' && i+1 < len(out) && out[i+1] == '-':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			for i < len(out) {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
				i++
			}
		}
	}
	return string(out)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("ddl-deps/ddl")
	ctx, span := tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}
