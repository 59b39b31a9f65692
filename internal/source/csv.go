package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/starford/casefile/internal/records"
)

// CSVFiles names the per-kind data files inside the data directory.
type CSVFiles struct {
	Clients    string
	Intakes    string
	Counselors string
	Sessions   string
}

// DefaultCSVFiles are the export names produced by the upstream system.
func DefaultCSVFiles() CSVFiles {
	return CSVFiles{
		Clients:    "File+Client Name.csv",
		Intakes:    "Intake Form.csv",
		Counselors: "Client+Counselor Assignment.csv",
		Sessions:   "Session History.csv",
	}
}

// CSV reads the four datasets from delimited files and keeps a parsed,
// normalized copy in memory. The cache is populated lazily per kind and
// treated as immutable once loaded; Reload drops it so the next read
// re-parses from disk.
type CSV struct {
	dir   string
	files CSVFiles

	mu    sync.Mutex
	cache map[Kind][]records.Record
}

// NewCSV creates a CSV source rooted at dir. The directory must exist;
// individual files are checked on first use.
func NewCSV(dir string, files CSVFiles) (*CSV, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("source: resolve data dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source: stat data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source: data path is not a directory: %s", abs)
	}
	return &CSV{dir: abs, files: files, cache: make(map[Kind][]records.Record)}, nil
}

// Name implements Source.
func (c *CSV) Name() string { return "csv" }

// Dir returns the absolute data directory, for diagnostics and the
// change watcher.
func (c *CSV) Dir() string { return c.dir }

func (c *CSV) path(kind Kind) string {
	var name string
	switch kind {
	case KindClient:
		name = c.files.Clients
	case KindIntake:
		name = c.files.Intakes
	case KindCounselor:
		name = c.files.Counselors
	case KindSession:
		name = c.files.Sessions
	}
	return filepath.Join(c.dir, name)
}

// All returns every normalized record of kind, loading and caching the
// file on first use.
func (c *CSV) All(_ context.Context, kind Kind) ([]records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rows, ok := c.cache[kind]; ok {
		return rows, nil
	}
	rows, err := ReadFile(c.path(kind))
	if err != nil {
		return nil, fmt.Errorf("source: load %s: %w", kind, err)
	}
	c.cache[kind] = rows
	return rows, nil
}

// ByFileNumber implements Source by scanning the cached rows.
func (c *CSV) ByFileNumber(ctx context.Context, kind Kind, fileNumber string) ([]records.Record, error) {
	rows, err := c.All(ctx, kind)
	if err != nil {
		return nil, err
	}
	fileNumber = strings.TrimSpace(fileNumber)
	var out []records.Record
	for _, r := range rows {
		if r.FileNumber() == fileNumber {
			out = append(out, r)
		}
	}
	return out, nil
}

// Search implements Source by substring-matching the cached rows.
func (c *CSV) Search(ctx context.Context, kind Kind, query string, fields []string) ([]records.Record, error) {
	rows, err := c.All(ctx, kind)
	if err != nil {
		return nil, err
	}
	return records.Filter(rows, query, fields), nil
}

// Reload drops the cached rows for every kind. Used by tests and by the
// data-directory watcher when a file changes on disk.
func (c *CSV) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[Kind][]records.Record)
}

// Counts returns the number of rows per kind, loading as needed.
func (c *CSV) Counts(ctx context.Context) (map[Kind]int, error) {
	out := make(map[Kind]int, len(Kinds))
	for _, kind := range Kinds {
		rows, err := c.All(ctx, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = len(rows)
	}
	return out, nil
}

// Files lists the .csv files present in the data directory.
func (c *CSV) Files() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("source: read data dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ReadFile parses one delimited file into normalized records. The first
// row is the header; cells are trimmed and bound by header name. Rows
// with too few cells are padded, rows with too many are truncated.
func ReadFile(path string) ([]records.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []records.Record
	err = decode(f, func(r records.Record) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// Stream parses one delimited file row by row, invoking fn per
// normalized record without retaining rows in memory. The session
// import uses this to keep large histories out of the heap.
func Stream(path string, fn func(records.Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := decode(f, fn); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func decode(r io.Reader, fn func(records.Record) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty file: no header row")
		}
		return fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		raw := make(records.Record, len(header))
		empty := true
		for i, h := range header {
			if h == "" {
				continue
			}
			raw[h] = row[i]
			if strings.TrimSpace(row[i]) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		if err := fn(records.Normalize(raw)); err != nil {
			return err
		}
	}
	return nil
}
