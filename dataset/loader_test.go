package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSample(t *testing.T) {
	records, labels, stats, err := Load(filepath.Join("testdata", "heart_sample.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Rows != 5 || stats.Dropped != 2 {
		t.Fatalf("expected 5 rows and 2 dropped, got %d/%d", stats.Rows, stats.Dropped)
	}
	if len(records) != 5 || len(labels) != 5 {
		t.Fatalf("expected 5 records and labels, got %d/%d", len(records), len(labels))
	}

	// Multi-valued targets binarize: 1 -> 1, 0 -> 0, 2 -> 1.
	want := []int{1, 0, 1, 0, 0}
	for i, label := range labels {
		if label != want[i] {
			t.Fatalf("label %d: got %d, want %d", i, label, want[i])
		}
	}

	if records[0].Age != 63 || records[0].Oldpeak != 2.3 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, _, err := Load(filepath.Join("testdata", "nope.csv"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadColumnCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("1,2,3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadAllRowsUnusable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.csv")
	row := "?,?,?,?,?,?,?,?,?,?,?,?,?,?\n"
	if err := os.WriteFile(path, []byte(row+row), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}
