package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/starford/casefile/internal/records"
	"github.com/starford/casefile/internal/source"
)

// sampleLimit caps the example file numbers shown per finding.
const sampleLimit = 10

// Summary describes referential integrity across the four datasets:
// how many distinct file numbers each carries, which rows reference a
// file number with no client record (orphans), and which clients lack
// coverage in the other datasets.
type Summary struct {
	Counts map[source.Kind]int

	OrphanIntakes    []string
	OrphanCounselors []string
	OrphanSessions   []string

	MissingIntakes    []string
	MissingCounselors []string
	MissingSessions   []string

	// Samples names a few of the clients that have no session rows.
	Samples []Sample
}

// Sample pairs a file number with the client name on record.
type Sample struct {
	FileNumber string
	Name       string
}

// Build loads all four datasets from src and cross-references their
// file numbers. File numbers keep first-seen dataset order so repeated
// runs over the same files report identically.
func Build(ctx context.Context, src *source.CSV) (*Summary, error) {
	type dataset struct {
		kind  source.Kind
		order []string
		seen  map[string]struct{}
	}

	byKind := make(map[source.Kind]*dataset, len(source.Kinds))
	var clients []records.Record
	for _, kind := range source.Kinds {
		recs, err := src.All(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", kind, err)
		}
		if kind == source.KindClient {
			clients = recs
		}
		ds := &dataset{kind: kind, seen: make(map[string]struct{})}
		for _, rec := range recs {
			fn := rec.FileNumber()
			if fn == "" {
				continue
			}
			if _, ok := ds.seen[fn]; ok {
				continue
			}
			ds.seen[fn] = struct{}{}
			ds.order = append(ds.order, fn)
		}
		byKind[kind] = ds
	}

	clientSet := byKind[source.KindClient].seen
	orphans := func(kind source.Kind) []string {
		var out []string
		for _, fn := range byKind[kind].order {
			if _, ok := clientSet[fn]; !ok {
				out = append(out, fn)
			}
		}
		return out
	}
	missing := func(kind source.Kind) []string {
		var out []string
		for _, fn := range byKind[source.KindClient].order {
			if _, ok := byKind[kind].seen[fn]; !ok {
				out = append(out, fn)
			}
		}
		return out
	}

	s := &Summary{
		Counts:            make(map[source.Kind]int, len(source.Kinds)),
		OrphanIntakes:     orphans(source.KindIntake),
		OrphanCounselors:  orphans(source.KindCounselor),
		OrphanSessions:    orphans(source.KindSession),
		MissingIntakes:    missing(source.KindIntake),
		MissingCounselors: missing(source.KindCounselor),
		MissingSessions:   missing(source.KindSession),
	}
	for kind, ds := range byKind {
		s.Counts[kind] = len(ds.order)
	}

	clientIndex := make(map[string]records.Record, len(clients))
	for _, rec := range clients {
		if fn := rec.FileNumber(); fn != "" {
			if _, ok := clientIndex[fn]; !ok {
				clientIndex[fn] = rec
			}
		}
	}
	for _, fn := range head(s.MissingSessions, sampleLimit) {
		name := "(no client record)"
		if rec, ok := clientIndex[fn]; ok {
			name = records.DisplayName(rec)
			if name == "" {
				name = "(no name)"
			}
		}
		s.Samples = append(s.Samples, Sample{FileNumber: fn, Name: name})
	}
	return s, nil
}

// Render writes the summary as a human-readable report.
func (s *Summary) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString("=== Data Validation Summary ===\n")
	fmt.Fprintf(&b, "Client files: %d\n", s.Counts[source.KindClient])
	fmt.Fprintf(&b, "Intake files: %d\n", s.Counts[source.KindIntake])
	fmt.Fprintf(&b, "Counselor files: %d\n", s.Counts[source.KindCounselor])
	fmt.Fprintf(&b, "Session files: %d\n", s.Counts[source.KindSession])

	b.WriteString("\n-- Orphans (exist in dataset but missing client file) --\n")
	fmt.Fprintf(&b, "From counselors: %d\n", len(s.OrphanCounselors))
	fmt.Fprintf(&b, "Examples: %s\n", strings.Join(head(s.OrphanCounselors, sampleLimit), ", "))
	fmt.Fprintf(&b, "From sessions:   %d\n", len(s.OrphanSessions))
	fmt.Fprintf(&b, "Examples: %s\n", strings.Join(head(s.OrphanSessions, sampleLimit), ", "))
	fmt.Fprintf(&b, "From intakes:    %d\n", len(s.OrphanIntakes))
	fmt.Fprintf(&b, "Examples: %s\n", strings.Join(head(s.OrphanIntakes, sampleLimit), ", "))

	b.WriteString("\n-- Missing datasets for known client files --\n")
	fmt.Fprintf(&b, "Clients without intakes: %d\n", len(s.MissingIntakes))
	fmt.Fprintf(&b, "Clients without counselors: %d\n", len(s.MissingCounselors))
	fmt.Fprintf(&b, "Clients without sessions: %d\n", len(s.MissingSessions))

	b.WriteString("\n-- Sample clients missing sessions --\n")
	for _, sample := range s.Samples {
		fmt.Fprintf(&b, "%s - %s\n", sample.FileNumber, sample.Name)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
