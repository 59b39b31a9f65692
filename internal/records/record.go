// Package records implements the field normalization, name extraction,
// and matching logic shared by every case-file backend. All functions
// here are pure: they never touch the CSV files or the document store.
package records

import (
	"strings"
	"time"
)

// Record is one row or document, keyed by field name. Values are kept as
// strings; a missing key means the source had no value for that field.
type Record map[string]string

// Get returns the value for key, falling back to a case-insensitive key
// match when the exact key is absent. Records that predate normalization
// may still carry mixed-case keys.
func (r Record) Get(key string) (string, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	lower := strings.ToLower(key)
	for k, v := range r {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	return "", false
}

// Field returns the trimmed value for key, or "" when absent.
func (r Record) Field(key string) string {
	v, _ := r.Get(key)
	return strings.TrimSpace(v)
}

// FileNumber returns the record's trimmed file number, or "".
// Equality on file numbers is exact-string after trim; leading zeros
// are significant.
func (r Record) FileNumber() string {
	return r.Field(FieldFileNumber)
}

// Normalize returns a copy of r with every field name mapped to its
// canonical snake_case form and every value trimmed. When two source
// keys collapse to the same canonical name the first non-empty value
// wins.
func Normalize(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		ck := NormalizeFieldName(k)
		if ck == "" {
			continue
		}
		trimmed := strings.TrimSpace(v)
		if prev, ok := out[ck]; ok && prev != "" && trimmed == "" {
			continue
		}
		out[ck] = trimmed
	}
	return out
}

// dateLayouts are tried in order when interpreting date-valued fields.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
}

// ParseDate interprets a date-valued field. The second return is false
// when the string matches none of the known layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
