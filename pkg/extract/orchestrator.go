package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/washwatch/washwatch/internal/logger"
	"github.com/washwatch/washwatch/pkg/machine"
	"github.com/washwatch/washwatch/pkg/page"
)

// Cell vocabulary for column-to-field mapping. A cell matching statusCellRe
// is never a name; the first cell matching statusOrTimeRe is the status
// source ("first status/time-matching cell wins", regardless of position).
var (
	statusCellRe   = regexp.MustCompile(`(?i)available|in use|out of order|fault|error`)
	statusOrTimeRe = regexp.MustCompile(`(?i)available|in use|out of order|fault|error|\d+\s*(?:minutes|mins|min|m)`)
	sizeCellRe     = regexp.MustCompile(`(?i)^(?:small|medium|large|\d+\s*(?:lbs|lb|kg))$`)
)

// Orchestrator drives one extraction run: resolve the data-bearing context,
// try adapters in priority order until one yields rows, classify the rows
// into records, and synthesize a heartbeat when nothing was found.
type Orchestrator struct {
	adapters []Adapter
}

// NewOrchestrator builds an orchestrator. With no arguments it uses the
// default table → grid → card chain.
func NewOrchestrator(adapters ...Adapter) *Orchestrator {
	if len(adapters) == 0 {
		adapters = DefaultAdapters()
	}
	return &Orchestrator{adapters: adapters}
}

// Run resolves the data-bearing context under root and extracts machine
// records from it.
func (o *Orchestrator) Run(ctx context.Context, root page.Context) []machine.Record {
	return o.Extract(page.Resolve(ctx, root))
}

// Extract runs the adapter chain against an already-resolved scope. The
// result is never empty: zero parsed rows produce exactly one heartbeat
// record, so callers always receive at least one observation per successful
// run.
func (o *Orchestrator) Extract(scope page.Context) []machine.Record {
	var rows []RawRow
	for _, a := range o.adapters {
		rows = a.Rows(scope)
		if len(rows) > 0 {
			logger.Debug("adapter produced rows", "adapter", a.Name(), "rows", len(rows))
			break
		}
		logger.Debug("adapter found nothing", "adapter", a.Name())
	}

	records := make([]machine.Record, 0, len(rows))
	for _, row := range rows {
		rec, ok := recordFromRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		logger.Info("no machine rows parsed, emitting heartbeat", "url", scope.URL())
		return []machine.Record{machine.Heartbeat()}
	}
	return records
}

// recordFromRow maps raw cells onto a record. Returns ok=false for rows with
// no usable text, which are dropped rather than emitted blank.
func recordFromRow(row RawRow) (machine.Record, bool) {
	usable := false
	for _, c := range row.Cells {
		if c != "" {
			usable = true
			break
		}
	}
	if !usable {
		return machine.Record{}, false
	}

	var name, statusText, size string
	for _, c := range row.Cells {
		if c == "" {
			continue
		}
		if name == "" && !statusCellRe.MatchString(c) {
			name = c
		}
		if statusText == "" && statusOrTimeRe.MatchString(c) {
			statusText = c
		}
	}
	for _, c := range row.Cells {
		if c != name && c != statusText && sizeCellRe.MatchString(c) {
			size = c
			break
		}
	}

	if name == "" {
		name = row.Cells[0]
	}
	if name == "" {
		name = fmt.Sprintf("Machine %d", row.Index+1)
	}

	if statusText == "" {
		statusText = strings.Join(row.Cells, " ")
	}
	status, detail := machine.ClassifyStatus(statusText)

	return machine.Record{
		Name:   name,
		Kind:   machine.ClassifyKind(name),
		Size:   size,
		Status: status,
		Detail: detail,
	}, true
}
