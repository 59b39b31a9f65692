package records

import (
	"reflect"
	"testing"
)

func TestClientNames_FileNameOnly(t *testing.T) {
	r := Record{"file_name": "CHEN, JULIA"}
	got := ClientNames(r)
	if !reflect.DeepEqual(got, []string{"CHEN, JULIA"}) {
		t.Errorf("ClientNames = %v", got)
	}
}

func TestClientNames_PerClientPairs(t *testing.T) {
	r := Record{
		"client1_first_name": "Jane",
		"client1_last_name":  "Doe",
		"client2_first_name": "John",
	}
	got := ClientNames(r)
	if !reflect.DeepEqual(got, []string{"Jane Doe", "John"}) {
		t.Errorf("ClientNames = %v", got)
	}
}

func TestClientNames_FileNameComesFirst(t *testing.T) {
	r := Record{
		"file_name":          "DOE HOUSEHOLD",
		"client1_first_name": "Jane",
		"client1_last_name":  "Doe",
	}
	got := ClientNames(r)
	if !reflect.DeepEqual(got, []string{"DOE HOUSEHOLD", "Jane Doe"}) {
		t.Errorf("ClientNames = %v", got)
	}
}

func TestClientNames_NoNameFields(t *testing.T) {
	got := ClientNames(Record{"file_number": "1", "city": "Springfield"})
	if len(got) != 0 {
		t.Errorf("ClientNames = %v, want empty", got)
	}
}

func TestClientNames_LegacyRawKeys(t *testing.T) {
	// Pre-normalization exports carried mixed-case raw headers; they
	// are consulted only when canonical fields are empty.
	r := Record{"CLIENT NAME": "SMITH, ALEX"}
	got := ClientNames(r)
	if !reflect.DeepEqual(got, []string{"SMITH, ALEX"}) {
		t.Errorf("ClientNames = %v", got)
	}

	r = Record{"file_name": "JONES", "CLIENT NAME": "ignored"}
	got = ClientNames(r)
	if !reflect.DeepEqual(got, []string{"JONES"}) {
		t.Errorf("legacy key must not fire when canonical fields match: %v", got)
	}
}

func TestClientNames_BlankPairsSkipped(t *testing.T) {
	r := Record{
		"client1_first_name": "  ",
		"client1_last_name":  "",
		"client2_first_name": "Ana",
	}
	got := ClientNames(r)
	if !reflect.DeepEqual(got, []string{"Ana"}) {
		t.Errorf("ClientNames = %v", got)
	}
}

func TestDisplayName(t *testing.T) {
	r := Record{
		"file_name":          "CHEN, JULIA",
		"client2_first_name": "Marco",
		"client2_last_name":  "Chen",
	}
	if got := DisplayName(r); got != "CHEN, JULIA, Marco Chen" {
		t.Errorf("DisplayName = %q", got)
	}
}
