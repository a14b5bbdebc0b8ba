// Package fold reduces strings to an accent and case insensitive form and
// orders headwords the way a French reader expects.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newFolder returns a transformer that strips combining marks. Transformers
// are stateful, so every call gets its own chain.
func newFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize lower-cases s, decomposes it and drops the combining marks.
// "Ndzébi" and "ndzebi" normalize to the same string.
//
// Lower-casing runs first: some upper-case letters (İ) lower to a base letter
// plus a combining mark, which the folder then removes, keeping Normalize
// idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lower := cases.Lower(language.Und).String(s)
	folded, _, err := transform.String(newFolder(), lower)
	if err != nil {
		return lower
	}
	return folded
}

// Contains reports whether needle occurs in haystack once both are normalized.
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
