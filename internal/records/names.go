package records

import "strings"

// legacyNameKeys are raw spellings seen in pre-normalization exports.
// They are consulted only when the canonical fields yield nothing.
var legacyNameKeys = []string{"FILE NAME", "FILENAME", "CLIENT NAME", "CLIENTNAME"}

// ClientNames derives the ordered display names for a client record.
// The whole-file display name comes first when present, followed by one
// entry per populated client1..client4 first/last pair. Intake sheets
// carry the household name, per-client pairs, or neither depending on
// the form revision, so all candidates are accumulated rather than
// short-circuited. May return an empty slice; never fails.
func ClientNames(r Record) []string {
	names := []string{}

	if fileName := r.Field(FieldFileName); fileName != "" {
		names = append(names, fileName)
	}

	for i := 1; i <= 4; i++ {
		first := r.Field(ClientNameField(i, true))
		last := r.Field(ClientNameField(i, false))
		if full := JoinName(first, last); full != "" {
			names = append(names, full)
		}
	}

	if len(names) > 0 {
		return names
	}

	for _, key := range legacyNameKeys {
		if v := r.Field(key); v != "" {
			return append(names, v)
		}
	}
	return names
}

// JoinName joins the non-empty parts of a first/last name pair with a
// single space.
func JoinName(first, last string) string {
	parts := make([]string, 0, 2)
	if first = strings.TrimSpace(first); first != "" {
		parts = append(parts, first)
	}
	if last = strings.TrimSpace(last); last != "" {
		parts = append(parts, last)
	}
	return strings.Join(parts, " ")
}

// DisplayName renders the extracted names as a single comma-separated
// string for listing surfaces.
func DisplayName(r Record) string {
	return strings.Join(ClientNames(r), ", ")
}
