package sink

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/washwatch/washwatch/pkg/machine"
)

var testTime = time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

func TestRowsFor_DetailLayout(t *testing.T) {
	records := []machine.Record{
		{Name: "Washer 1", Kind: machine.KindWasher, Status: machine.StatusAvailable},
		{Name: "Dryer 2", Kind: machine.KindDryer, Status: machine.StatusInUse, Detail: "12 min"},
	}

	got := RowsFor(records, testTime, ColumnsDetail)
	want := [][]string{
		{"2026-08-25T10:30:00Z", "Washer 1", "Washer", "Available", ""},
		{"2026-08-25T10:30:00Z", "Dryer 2", "Dryer", "In Use", "12 min"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RowsFor() = %v, want %v", got, want)
	}
}

func TestRowsFor_SizeLayout(t *testing.T) {
	records := []machine.Record{
		{Name: "Washer 1", Kind: machine.KindWasher, Size: "Large", Status: machine.StatusAvailable},
	}

	got := RowsFor(records, testTime, ColumnsSize)
	want := [][]string{
		{"2026-08-25T10:30:00Z", "Washer 1", "Large", "Available"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RowsFor() = %v, want %v", got, want)
	}
}

func TestRowsFor_SentinelRecord(t *testing.T) {
	got := RowsFor([]machine.Record{machine.Heartbeat()}, testTime, ColumnsDetail)
	want := [][]string{{"2026-08-25T10:30:00Z", "N/A", "", "NO_ROWS_FOUND", ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RowsFor() = %v, want %v", got, want)
	}
}

// stubSink records appends and optionally fails.
type stubSink struct {
	batches int
	err     error
}

func (s *stubSink) Append(_ context.Context, rows [][]string) error {
	s.batches++
	return s.err
}

func TestMulti_DeliversToAllDespiteFailure(t *testing.T) {
	failing := &stubSink{err: errors.New("boom")}
	ok := &stubSink{}

	err := Multi(failing, ok).Append(context.Background(), [][]string{{"a"}})
	if err == nil {
		t.Error("expected joined error from failing sink")
	}
	if ok.batches != 1 {
		t.Errorf("second sink got %d batches, want 1", ok.batches)
	}
}

func TestBestEffort_SwallowsError(t *testing.T) {
	failing := &stubSink{err: errors.New("disk full")}

	if err := BestEffort(failing).Append(context.Background(), nil); err != nil {
		t.Errorf("BestEffort Append() error = %v, want nil", err)
	}
}
