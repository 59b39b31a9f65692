package source

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/starford/casefile/internal/records"
)

func TestDocToRecord(t *testing.T) {
	doc := bson.M{
		"_id":         "abc",
		"file_number": " 100 ",
		"session_fee": int32(120),
		"attended":    true,
		"dob":         nil,
		"nested":      bson.M{"ignored": "yes"},
	}

	got := docToRecord(doc)
	want := records.Record{
		"file_number": "100",
		"session_fee": "120",
		"attended":    "true",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("docToRecord = %v, want %v", got, want)
	}
}

// A CSV row normalized at read time and the same row stored as a
// document must read back as identical records, so the backends stay
// interchangeable.
func TestDocRoundTripMatchesCSVNormalization(t *testing.T) {
	raw := records.Record{
		"FILE NUMBER":        "100",
		"File Name":          " DOE, JANE ",
		"Client1 First Name": "Jane",
		"Session Fee":        "120",
	}
	normalized := records.Normalize(raw)

	doc := make(bson.M, len(normalized))
	for k, v := range normalized {
		doc[k] = v
	}

	if got := docToRecord(doc); !reflect.DeepEqual(got, normalized) {
		t.Errorf("round trip = %v, want %v", got, normalized)
	}
}
