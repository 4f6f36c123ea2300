// Package abstract turns a JAMA-style article document into a normalized
// visual-abstract record: structured-abstract sections keyed by canonical
// names, the optional Key Points box, and mined fields (comparator,
// settings, primary outcome, key numeric evidence).
package abstract

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean canonicalizes text pulled out of a document: HTML entities are
// decoded, Unicode compatibility forms collapse to a single representation,
// whitespace runs become single spaces, and the Unicode minus sign becomes
// an ASCII hyphen so the numeric patterns downstream can assume ASCII.
// Empty input yields an empty string.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = norm.NFKC.String(s)
	s = collapseSpaces(s)
	return strings.ReplaceAll(s, "−", "-")
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true // also drops leading whitespace
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSuffix(b.String(), " ")
}
