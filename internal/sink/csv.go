package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/washwatch/washwatch/internal/logger"
)

// CSV appends rows to a local file, writing the header line when the file is
// new or empty. It is the durable debug log, independent of sink delivery.
type CSV struct {
	path   string
	header []string
}

// NewCSV creates a CSV sink for the given path and column layout.
func NewCSV(path string, layout Columns) *CSV {
	return &CSV{path: path, header: Header(layout)}
}

// Append writes the rows, creating the file and header on first use.
func (c *CSV) Append(_ context.Context, rows [][]string) error {
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open csv %q: %w", c.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat csv %q: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(c.header); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}

	logger.Debug("csv rows appended", "path", c.path, "count", len(rows))
	return nil
}
