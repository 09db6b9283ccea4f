// Package sqlutil provides SQL identifier helpers.
package sqlutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// decorationChars are the quoting characters dialects wrap identifiers in.
const decorationChars = "[]`\"'"

// StripDecoration removes bracket, backtick, and quote characters from an identifier.
func StripDecoration(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(decorationChars, r) {
			return -1
		}
		return r
	}, name)
}

// NormalizeIdentifier folds an identifier to its canonical table-name form:
// decoration stripped, surrounding space trimmed, upper-cased.
// Normalizing an already normalized name returns it unchanged.
func NormalizeIdentifier(name string) string {
	stripped := strings.TrimSpace(StripDecoration(name))
	if stripped == "" {
		return ""
	}
	return cases.Upper(language.Und).String(stripped)
}
