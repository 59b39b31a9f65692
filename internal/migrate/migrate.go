// Package migrate imports the four CSV datasets into the document
// store, normalizing every field name on the way so the Mongo backend
// serves canonical snake_case documents. The import is idempotent:
// clients and intakes upsert on file_number, counselors on the
// (file_number, counselor name) pair, and sessions on a deterministic
// content hash, so re-running after a partial failure is safe.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starford/casefile/internal/checksum"
	"github.com/starford/casefile/internal/records"
	"github.com/starford/casefile/internal/source"
)

// Options control the import run.
type Options struct {
	SkipSessions  bool
	SessionsLimit int       // stop after importing this many session rows; 0 = all
	Since         time.Time // drop sessions dated before this; zero = keep all
	BatchSize     int       // session bulk-write batch size
	DryRun        bool      // read and normalize but write nothing
}

const defaultBatchSize = 2000

// Result summarizes one import run.
type Result struct {
	Clients      int
	Intakes      int
	Counselors   int
	SessionsRead int
	Sessions     int
}

// Runner performs the CSV to document-store import.
type Runner struct {
	db     *mongo.Database
	dir    string
	files  source.CSVFiles
	logger *slog.Logger
}

// NewRunner creates a migration runner reading from dir and writing
// into db.
func NewRunner(db *mongo.Database, dir string, files source.CSVFiles, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, dir: dir, files: files, logger: logger}
}

// Run executes the import with opts.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}

	src, err := source.NewCSV(r.dir, r.files)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := r.createPrimaryIndexes(ctx); err != nil {
			return nil, err
		}
	}

	res := &Result{}

	res.Clients, err = r.importKeyed(ctx, src, source.KindClient, opts, clientFilter)
	if err != nil {
		return nil, err
	}
	res.Intakes, err = r.importKeyed(ctx, src, source.KindIntake, opts, clientFilter)
	if err != nil {
		return nil, err
	}
	res.Counselors, err = r.importKeyed(ctx, src, source.KindCounselor, opts, counselorFilter)
	if err != nil {
		return nil, err
	}

	if opts.SkipSessions {
		r.logger.Info("migrate: sessions skipped")
	} else {
		read, written, err := r.importSessions(ctx, opts)
		if err != nil {
			return nil, err
		}
		res.SessionsRead = read
		res.Sessions = written
	}

	if !opts.DryRun {
		if err := r.createPostImportIndexes(ctx); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// filterFunc derives the upsert key filter for one normalized record,
// or nil when the record cannot be keyed and must be dropped.
type filterFunc func(records.Record) bson.M

func clientFilter(rec records.Record) bson.M {
	fn := rec.FileNumber()
	if fn == "" {
		return nil
	}
	return bson.M{records.FieldFileNumber: fn}
}

// counselorFilter keys on file number plus counselor name: one file may
// carry several assignments.
func counselorFilter(rec records.Record) bson.M {
	fn := rec.FileNumber()
	if fn == "" {
		return nil
	}
	return bson.M{
		records.FieldFileNumber:         fn,
		records.FieldCounselorFirstName: rec.Field(records.FieldCounselorFirstName),
		records.FieldCounselorLastName:  rec.Field(records.FieldCounselorLastName),
	}
}

func (r *Runner) importKeyed(ctx context.Context, src *source.CSV, kind source.Kind, opts Options, keyOf filterFunc) (int, error) {
	rows, err := src.All(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("migrate: load %s: %w", kind, err)
	}

	var ops []mongo.WriteModel
	for _, rec := range rows {
		filter := keyOf(rec)
		if filter == nil {
			continue
		}
		ops = append(ops, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(bson.M{"$set": toDoc(rec)}).
			SetUpsert(true))
	}
	if len(ops) == 0 || opts.DryRun {
		r.logger.Info("migrate: imported", slog.String("kind", string(kind)),
			slog.Int("records", len(ops)), slog.Bool("dry_run", opts.DryRun))
		return len(ops), nil
	}
	if _, err := r.db.Collection(string(kind)).BulkWrite(ctx, ops); err != nil {
		return 0, fmt.Errorf("migrate: write %s: %w", kind, err)
	}
	r.logger.Info("migrate: imported", slog.String("kind", string(kind)), slog.Int("records", len(ops)))
	return len(ops), nil
}

// importSessions streams the session history in batches instead of
// loading it whole; histories run to hundreds of thousands of rows.
func (r *Runner) importSessions(ctx context.Context, opts Options) (read, written int, err error) {
	coll := r.db.Collection(string(source.KindSession))
	path := filepath.Join(r.dir, r.files.Sessions)

	var batch []mongo.WriteModel
	flush := func() error {
		if len(batch) == 0 || opts.DryRun {
			batch = batch[:0]
			return nil
		}
		res, err := coll.BulkWrite(ctx, batch, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return fmt.Errorf("migrate: write sessions: %w", err)
		}
		written += int(res.UpsertedCount + res.ModifiedCount)
		batch = batch[:0]
		return nil
	}

	imported := 0
	err = source.Stream(path, func(rec records.Record) error {
		read++
		if !keepSession(rec, opts) {
			return nil
		}
		sid := SessionID(rec)
		doc := toDoc(rec)
		doc["session_id"] = sid
		batch = append(batch, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"session_id": sid}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
		imported++

		if len(batch) >= opts.BatchSize {
			if err := flush(); err != nil {
				return err
			}
			r.logger.Info("migrate: sessions progress",
				slog.Int("read", read), slog.Int("imported", imported), slog.Int("written", written))
		}
		if opts.SessionsLimit > 0 && imported >= opts.SessionsLimit {
			return errSessionsLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errSessionsLimit) {
		return read, written, err
	}
	if err := flush(); err != nil {
		return read, written, err
	}
	if opts.DryRun {
		written = imported
	}
	r.logger.Info("migrate: sessions imported",
		slog.Int("read", read), slog.Int("written", written), slog.Bool("dry_run", opts.DryRun))
	return read, written, nil
}

var errSessionsLimit = errors.New("sessions limit reached")

// keepSession applies the file-number and --since filters.
func keepSession(rec records.Record, opts Options) bool {
	if rec.FileNumber() == "" {
		return false
	}
	if opts.Since.IsZero() {
		return true
	}
	d, ok := records.ParseDate(rec.Field(records.FieldSessionDate))
	if !ok {
		return false
	}
	return !d.Before(opts.Since)
}

// sessionKeyFields is the tuple that identifies one session row across
// re-imports. The note is truncated so minor trailing edits do not
// duplicate history.
var sessionKeyFields = []string{
	records.FieldFileNumber,
	records.FieldSessionDate,
	records.FieldSessionStatus,
	records.FieldSessionPaymentStatus,
	records.FieldSupervisionGroup,
	records.FieldPaymentMethod,
	records.FieldSessionFee,
}

const sessionNoteKeyLen = 64

// SessionID returns the deterministic identifier for a session record:
// the SHA-1 of its key fields joined by "|", note truncated to 64
// characters.
func SessionID(rec records.Record) string {
	parts := make([]string, 0, len(sessionKeyFields)+1)
	for _, f := range sessionKeyFields {
		v, _ := rec.Get(f)
		parts = append(parts, v)
	}
	note, _ := rec.Get(records.FieldSessionNote)
	// Truncate by characters, not bytes: ids minted over multi-byte
	// notes must not shift.
	if r := []rune(note); len(r) > sessionNoteKeyLen {
		note = string(r[:sessionNoteKeyLen])
	}
	parts = append(parts, note)

	return checksum.Sum([]byte(strings.Join(parts, "|")))
}

func toDoc(rec records.Record) bson.M {
	doc := make(bson.M, len(rec))
	for k, v := range rec {
		doc[k] = v
	}
	return doc
}

func (r *Runner) createPrimaryIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	fileNumberKey := bson.D{{Key: records.FieldFileNumber, Value: 1}}

	for _, spec := range []struct {
		kind source.Kind
		mod  mongo.IndexModel
	}{
		{source.KindClient, mongo.IndexModel{Keys: fileNumberKey, Options: unique}},
		{source.KindIntake, mongo.IndexModel{Keys: fileNumberKey, Options: unique}},
		{source.KindCounselor, mongo.IndexModel{Keys: fileNumberKey}},
	} {
		if _, err := r.db.Collection(string(spec.kind)).Indexes().CreateOne(ctx, spec.mod); err != nil {
			return fmt.Errorf("migrate: index %s: %w", spec.kind, err)
		}
	}
	return nil
}

// createPostImportIndexes builds the session and name-search indexes
// after the bulk load so the import itself stays fast.
func (r *Runner) createPostImportIndexes(ctx context.Context) error {
	sessions := r.db.Collection(string(source.KindSession))
	if _, err := sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: records.FieldFileNumber, Value: 1}},
	}); err != nil {
		return fmt.Errorf("migrate: index sessions: %w", err)
	}
	if _, err := sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("migrate: index session_id: %w", err)
	}

	nameKeys := bson.D{{Key: records.FieldFileName, Value: "text"}}
	for i := 1; i <= 4; i++ {
		nameKeys = append(nameKeys,
			bson.E{Key: records.ClientNameField(i, true), Value: "text"},
			bson.E{Key: records.ClientNameField(i, false), Value: "text"})
	}
	clients := r.db.Collection(string(source.KindClient))
	if _, err := clients.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: nameKeys}); err != nil {
		return fmt.Errorf("migrate: text index clients: %w", err)
	}
	return nil
}
