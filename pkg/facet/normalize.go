package facet

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Normalize builds the dedup key for a facet value: all whitespace removed,
// lowercased. Empty in, empty out. The key is never used for matching,
// selections are compared against the raw product value.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	compact := strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, raw)
	// a Caser keeps state between calls, so one per call
	return strings.TrimSpace(cases.Lower(language.Und).String(compact))
}
