package report

import (
	"context"
	"strings"
	"testing"

	"github.com/starford/casefile/internal/source"
	"github.com/starford/casefile/internal/testutil"
)

func TestBuildCrossReferencesDatasets(t *testing.T) {
	src := testutil.CSVSource(t)

	s, err := Build(context.Background(), src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantCounts := map[source.Kind]int{
		source.KindClient:    2,
		source.KindIntake:    1,
		source.KindCounselor: 1,
		source.KindSession:   2,
	}
	for kind, want := range wantCounts {
		if got := s.Counts[kind]; got != want {
			t.Errorf("Counts[%s] = %d, want %d", kind, got, want)
		}
	}

	if len(s.OrphanIntakes) != 0 || len(s.OrphanCounselors) != 0 {
		t.Errorf("unexpected orphans: intakes=%v counselors=%v", s.OrphanIntakes, s.OrphanCounselors)
	}
	if len(s.OrphanSessions) != 1 || s.OrphanSessions[0] != "300" {
		t.Errorf("OrphanSessions = %v, want [300]", s.OrphanSessions)
	}

	for name, got := range map[string][]string{
		"MissingIntakes":    s.MissingIntakes,
		"MissingCounselors": s.MissingCounselors,
		"MissingSessions":   s.MissingSessions,
	} {
		if len(got) != 1 || got[0] != "200" {
			t.Errorf("%s = %v, want [200]", name, got)
		}
	}
}

func TestBuildSamplesNameClientsMissingSessions(t *testing.T) {
	src := testutil.CSVSource(t)

	s, err := Build(context.Background(), src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(s.Samples) != 1 {
		t.Fatalf("Samples = %v, want one entry", s.Samples)
	}
	if s.Samples[0].FileNumber != "200" {
		t.Errorf("sample file number = %q, want 200", s.Samples[0].FileNumber)
	}
	if s.Samples[0].Name != "Marco Pérez, Lucía" {
		t.Errorf("sample name = %q", s.Samples[0].Name)
	}
}

func TestBuildDeduplicatesFileNumbers(t *testing.T) {
	dir := t.TempDir()
	files := source.DefaultCSVFiles()
	testutil.WriteCSV(t, dir, files.Clients,
		"FILE NUMBER,File Name\n100,A\n100,A again\n")
	testutil.WriteCSV(t, dir, files.Intakes, "FILE NUMBER\n100\n")
	testutil.WriteCSV(t, dir, files.Counselors, "FILE NUMBER\n100\n")
	testutil.WriteCSV(t, dir, files.Sessions, "File Number\n100\n100\n")
	src, err := source.NewCSV(dir, files)
	if err != nil {
		t.Fatal(err)
	}

	s, err := Build(context.Background(), src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.Counts[source.KindClient] != 1 || s.Counts[source.KindSession] != 1 {
		t.Errorf("counts = %v, want distinct file numbers only", s.Counts)
	}
}

func TestRender(t *testing.T) {
	src := testutil.CSVSource(t)

	s, err := Build(context.Background(), src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var b strings.Builder
	if err := s.Render(&b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"Client files: 2",
		"From sessions:   1",
		"Clients without sessions: 1",
		"200 - Marco Pérez, Lucía",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}
