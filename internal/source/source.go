// Package source provides the row-source adapters that feed the file
// aggregator: a cached CSV reader and a MongoDB document store. Both
// yield normalized records and honor the same lookup contract so the
// aggregation layer cannot observe which backend served a request.
package source

import (
	"context"

	"github.com/starford/casefile/internal/records"
)

// Kind identifies one of the four record datasets.
type Kind string

const (
	KindClient    Kind = "clients"
	KindIntake    Kind = "intakes"
	KindCounselor Kind = "counselors"
	KindSession   Kind = "sessions"
)

// Kinds lists every dataset in aggregation order.
var Kinds = []Kind{KindClient, KindIntake, KindCounselor, KindSession}

// Source is the backend contract consumed by the aggregator. Records
// returned from either implementation carry canonical snake_case keys.
type Source interface {
	// Name identifies the backend ("csv" or "mongo") for logging.
	Name() string
	// ByFileNumber returns every record of kind whose file number
	// equals fileNumber exactly (after trim), in source order.
	ByFileNumber(ctx context.Context, kind Kind, fileNumber string) ([]records.Record, error)
	// Search returns every record of kind where any of fields contains
	// query as a case-insensitive substring, in source order.
	Search(ctx context.Context, kind Kind, query string, fields []string) ([]records.Record, error)
}
