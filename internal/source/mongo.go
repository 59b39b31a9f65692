package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starford/casefile/internal/records"
)

// Mongo serves the four datasets from one collection per kind. Documents
// are expected to already carry canonical snake_case fields — the
// migration job writes them that way — so no per-request normalization
// pass is needed beyond value stringification. No caching: every call
// is a fresh round trip; pooling belongs to the driver.
type Mongo struct {
	db *mongo.Database
}

// NewMongo connects a Mongo source. The driver dials lazily, so a
// misconfigured URI surfaces on first use rather than here.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("source: mongo connect: %w", err)
	}
	return &Mongo{db: client.Database(database)}, nil
}

// NewMongoFromDatabase wraps an existing database handle. Used by the
// migration job and by tests.
func NewMongoFromDatabase(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// Name implements Source.
func (m *Mongo) Name() string { return "mongo" }

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.db.Client().Disconnect(ctx)
}

// Database exposes the handle for the migration job.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

func (m *Mongo) collection(kind Kind) *mongo.Collection {
	return m.db.Collection(string(kind))
}

// ByFileNumber implements Source with an exact file_number match.
func (m *Mongo) ByFileNumber(ctx context.Context, kind Kind, fileNumber string) ([]records.Record, error) {
	filter := bson.M{records.FieldFileNumber: strings.TrimSpace(fileNumber)}
	return m.find(ctx, kind, filter, nil)
}

// Search implements Source with a case-insensitive $regex per field,
// combined with $or. The query is quoted so user input is matched
// literally, never as a pattern.
func (m *Mongo) Search(ctx context.Context, kind Kind, query string, fields []string) ([]records.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" || len(fields) == 0 {
		return nil, nil
	}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}})
	}
	return m.find(ctx, kind, bson.M{"$or": or}, nil)
}

func (m *Mongo) find(ctx context.Context, kind Kind, filter bson.M, opts *options.FindOptions) ([]records.Record, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = m.collection(kind).Find(ctx, filter, opts)
	} else {
		cur, err = m.collection(kind).Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("source: mongo find %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("source: mongo decode %s: %w", kind, err)
	}
	out := make([]records.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docToRecord(doc))
	}
	return out, nil
}

// docToRecord flattens a document into a string-valued record. The _id
// and other non-scalar fields are dropped; dates and numbers keep their
// natural string form.
func docToRecord(doc bson.M) records.Record {
	rec := make(records.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		switch val := v.(type) {
		case string:
			rec[k] = strings.TrimSpace(val)
		case nil:
			// Absent is absent; do not materialize empty keys.
		case int32, int64, float64, bool:
			rec[k] = fmt.Sprintf("%v", val)
		default:
			// Composite values have no place in a flat record.
		}
	}
	return rec
}
