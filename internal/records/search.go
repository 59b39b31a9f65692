package records

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery prepares a free-text query for matching: trim,
// lowercase, fold diacritics.
func NormalizeQuery(query string) string {
	return Fold(strings.TrimSpace(query))
}

// IsFileNumberQuery reports whether query looks like a bare file number
// (all digits). Such queries are resolved as exact file-number lookups
// on every backend, so "123" never matches "1234567" by substring.
func IsFileNumberQuery(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}
	for _, r := range query {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Match reports whether any of fields holds a value containing query as
// a substring, case- and diacritic-insensitively. query must already be
// normalized via NormalizeQuery. Field lookup tolerates mixed-case keys.
func Match(r Record, query string, fields []string) bool {
	if query == "" {
		return false
	}
	for _, f := range fields {
		v, ok := r.Get(f)
		if !ok {
			continue
		}
		if strings.Contains(Fold(strings.TrimSpace(v)), query) {
			return true
		}
	}
	return false
}

// Filter returns the records matching query on fields, preserving
// source iteration order.
func Filter(recs []Record, query string, fields []string) []Record {
	query = NormalizeQuery(query)
	var out []Record
	for _, r := range recs {
		if Match(r, query, fields) {
			out = append(out, r)
		}
	}
	return out
}

// Fold lowercases s and strips diacritical marks (NFD decompose, drop
// combining marks) so "José" matches "jose".
func Fold(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
