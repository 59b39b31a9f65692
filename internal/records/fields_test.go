package records

import "testing"

func TestNormalizeFieldName_KnownVariants(t *testing.T) {
	cases := map[string]string{
		"FILE NUMBER":            "file_number",
		"File Number":            "file_number",
		"FILE_NUMBER":            "file_number",
		"FileNumber":             "file_number",
		"filenumber":             "file_number",
		"File Name":              "file_name",
		"FILENAME":               "file_name",
		"Client1 First Name":     "client1_first_name",
		"CLIENT3 LAST NAME":      "client3_last_name",
		"Counselor First Name":   "counselor_first_name",
		"Session Payment Status": "session_payment_status",
		"DATE OF BIRTH":          "dob",
		"Dob":                    "dob",
		"THERAPY TYPE":           "therapy_type",
	}
	for in, want := range cases {
		if got := NormalizeFieldName(in); got != want {
			t.Errorf("NormalizeFieldName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeFieldName_FallbackSlug(t *testing.T) {
	cases := map[string]string{
		"Some Weird Col!":  "some_weird_col",
		"Referral  Source": "referral_source",
		"Notes (internal)": "notes_internal",
		"already_snake":    "already_snake",
	}
	for in, want := range cases {
		if got := NormalizeFieldName(in); got != want {
			t.Errorf("NormalizeFieldName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeFieldName_Idempotent(t *testing.T) {
	inputs := []string{"Some Weird Col!", "Referral  Source", "FILE NUMBER", "x-y-z"}
	for _, in := range inputs {
		once := NormalizeFieldName(in)
		if twice := NormalizeFieldName(once); twice != once {
			t.Errorf("NormalizeFieldName not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeFieldName_NeverEmptyForNonEmptyInput(t *testing.T) {
	if got := NormalizeFieldName(""); got != "" {
		t.Errorf("empty input should normalize to empty, got %q", got)
	}
	// Pure punctuation slugs to nothing under the strict rule, so the
	// underscore fallback must kick in.
	if got := NormalizeFieldName("???"); got != "___" {
		t.Errorf("NormalizeFieldName(\"???\") = %q, want \"___\"", got)
	}
}

func TestNormalize_CanonicalKeysAndTrimmedValues(t *testing.T) {
	raw := Record{
		"FILE NUMBER":        " 125477 ",
		"Client1 First Name": "Jane ",
		"Unknown Column":     "kept",
	}
	got := Normalize(raw)
	if got["file_number"] != "125477" {
		t.Errorf("file_number = %q", got["file_number"])
	}
	if got["client1_first_name"] != "Jane" {
		t.Errorf("client1_first_name = %q", got["client1_first_name"])
	}
	if got["unknown_column"] != "kept" {
		t.Errorf("unknown fields must be slugged, not dropped: %v", got)
	}
}

func TestRecord_GetCaseInsensitiveFallback(t *testing.T) {
	r := Record{"File Number": "42"}
	if v, ok := r.Get("file number"); !ok || v != "42" {
		t.Errorf("Get(\"file number\") = %q, %v", v, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get on absent key should report false")
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2021-03-05", "3/5/2021", "03/05/2021"} {
		d, ok := ParseDate(in)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", in)
		}
		if d.Year() != 2021 || int(d.Month()) != 3 || d.Day() != 5 {
			t.Errorf("ParseDate(%q) = %v", in, d)
		}
	}
	if _, ok := ParseDate("not a date"); ok {
		t.Error("ParseDate should reject garbage")
	}
	if _, ok := ParseDate(""); ok {
		t.Error("ParseDate should reject empty input")
	}
}
