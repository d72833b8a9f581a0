// Package sink delivers observation rows to append-only destinations.
//
// The core extraction pipeline is timestamp-agnostic; rows are stamped here,
// at hand-off time.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/washwatch/washwatch/internal/logger"
	"github.com/washwatch/washwatch/pkg/machine"
)

// Columns selects the row layout presented to sinks.
type Columns string

const (
	// ColumnsDetail is [timestamp, name, kind, status, detail].
	ColumnsDetail Columns = "detail"
	// ColumnsSize is [timestamp, name, size, status].
	ColumnsSize Columns = "size"
)

// Sink accepts an ordered batch of rows.
type Sink interface {
	Append(ctx context.Context, rows [][]string) error
}

// Header returns the column names for a layout.
func Header(layout Columns) []string {
	if layout == ColumnsSize {
		return []string{"timestamp", "machine_name", "size", "status"}
	}
	return []string{"timestamp", "machine_name", "machine_type", "status", "detail"}
}

// RowsFor renders records into sink rows, stamping each with the given
// observation time in UTC RFC3339.
func RowsFor(records []machine.Record, at time.Time, layout Columns) [][]string {
	ts := at.UTC().Format(time.RFC3339)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		if layout == ColumnsSize {
			rows = append(rows, []string{ts, r.Name, r.Size, string(r.Status)})
			continue
		}
		rows = append(rows, []string{ts, r.Name, string(r.Kind), string(r.Status), r.Detail})
	}
	return rows
}

// Multi fans a batch out to every sink, delivering to all of them even when
// some fail; the errors are joined.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Append(ctx context.Context, rows [][]string) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort wraps a sink so delivery failures are logged instead of
// propagated. Used for the debug CSV, which must never fail a run.
func BestEffort(s Sink) Sink {
	return bestEffortSink{inner: s}
}

type bestEffortSink struct {
	inner Sink
}

func (b bestEffortSink) Append(ctx context.Context, rows [][]string) error {
	if err := b.inner.Append(ctx, rows); err != nil {
		logger.Warn("best-effort sink append failed", "error", err)
	}
	return nil
}
