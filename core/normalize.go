package core

import (
	"strings"
	"unicode"
)

// Normalize collapses runs of whitespace into a single space, trims, and
// lowercases. Every text comparison in the system goes through this; raw
// string comparison invites whitespace- and case-driven false negatives.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// ClassTokens splits a class attribute value into normalized tokens.
func ClassTokens(className string) []string {
	return strings.Fields(Normalize(className))
}
