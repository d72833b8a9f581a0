package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	return records
}

func TestCSV_WritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.csv")
	s := NewCSV(path, ColumnsDetail)

	first := [][]string{{"2026-08-25T10:30:00Z", "Washer 1", "Washer", "Available", ""}}
	second := [][]string{{"2026-08-25T10:45:00Z", "Washer 1", "Washer", "In Use", "28 min"}}

	if err := s.Append(context.Background(), first); err != nil {
		t.Fatalf("first Append() error = %v", err)
	}
	if err := s.Append(context.Background(), second); err != nil {
		t.Fatalf("second Append() error = %v", err)
	}

	got := readCSV(t, path)
	if len(got) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(got))
	}
	if !reflect.DeepEqual(got[0], Header(ColumnsDetail)) {
		t.Errorf("header = %v", got[0])
	}
	if got[2][3] != "In Use" {
		t.Errorf("appended row = %v", got[2])
	}
}

func TestCSV_QuotesCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.csv")
	s := NewCSV(path, ColumnsDetail)

	rows := [][]string{{"2026-08-25T10:30:00Z", "Washer 1", "Washer", "In Use", "running, 5 min"}}
	if err := s.Append(context.Background(), rows); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got := readCSV(t, path)
	if got[1][4] != "running, 5 min" {
		t.Errorf("detail cell = %q, comma should round-trip", got[1][4])
	}
}
