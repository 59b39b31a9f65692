// Package testutil provides shared test helpers for building CSV data
// directories and sources.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/casefile/internal/source"
)

// WriteCSV writes one CSV file into dir.
func WriteCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// DataDir creates a temp data directory populated with the four
// standard datasets: two client households, one intake, two counselor
// assignments, and three sessions for file 100, plus a session-only
// file 300.
func DataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := source.DefaultCSVFiles()
	WriteCSV(t, dir, files.Clients,
		"FILE NUMBER,File Name,Client1 First Name,Client1 Last Name,Client2 First Name\n"+
			"100,\"DOE, JANE\",Jane,Doe,\n"+
			"200,,Marco,Pérez,Lucía\n")
	WriteCSV(t, dir, files.Intakes,
		"FILE NUMBER,DOB,CITY,STATE\n"+
			"100,1990-01-02,Springfield,IL\n")
	WriteCSV(t, dir, files.Counselors,
		"FILE NUMBER,Counselor First Name,Counselor Last Name,THERAPY TYPE,STATUS\n"+
			"100,Dana,Reyes,Family,Active\n"+
			"100,Lee,Okafor,Individual,Closed\n")
	WriteCSV(t, dir, files.Sessions,
		"File Number,Session Date,Session Status,Session Fee\n"+
			"100,2023-05-01,Attended,120\n"+
			"100,2023-07-01,Attended,120\n"+
			"300,2023-01-15,Cancelled,0\n")
	return dir
}

// CSVSource creates a CSV source over a populated fixture directory.
func CSVSource(t *testing.T) *source.CSV {
	t.Helper()
	src, err := source.NewCSV(DataDir(t), source.DefaultCSVFiles())
	if err != nil {
		t.Fatal(err)
	}
	return src
}
