// Package extract turns a document context into structured machine records.
//
// Three interchangeable adapters share one contract: give a Context, get raw
// rows. They are tried in a fixed confidence order (native table, ARIA grid,
// card/tile scan) and an adapter that finds nothing returns an empty slice,
// never an error.
package extract

import (
	"regexp"
	"strings"

	"github.com/washwatch/washwatch/pkg/page"
)

// maxRows bounds how many rows or tiles one adapter processes per run, to
// keep pathological pages from blowing up a scrape cycle.
const maxRows = 200

// RawRow is an ordered list of normalized text cells plus the row's ordinal
// among the rows the adapter emitted. Skipped elements (headers, page chrome)
// do not advance the ordinal, so "Machine N" placeholders derived from it
// count actual machines.
type RawRow struct {
	Index int
	Cells []string
}

// Adapter extracts candidate rows from a document context.
type Adapter interface {
	Name() string
	Rows(c page.Context) []RawRow
}

// DefaultAdapters returns the adapter chain in priority order: structured
// markup first, heuristic text scanning last.
func DefaultAdapters() []Adapter {
	return []Adapter{&TableAdapter{}, &GridAdapter{}, &CardAdapter{}}
}

// Header labels that identify a non-data row when no cell carries a digit.
var headerLabels = map[string]struct{}{
	"node":    {},
	"name":    {},
	"machine": {},
}

var digitRe = regexp.MustCompile(`\d`)

// isHeaderRow reports whether the cells look like a column header: a known
// header label appears AND no cell contains a digit. The digit check keeps a
// data row that happens to say "Machine 4" from being dropped.
func isHeaderRow(cells []string) bool {
	labeled := false
	for _, c := range cells {
		if _, ok := headerLabels[strings.ToLower(c)]; ok {
			labeled = true
			break
		}
	}
	if !labeled {
		return false
	}
	for _, c := range cells {
		if digitRe.MatchString(c) {
			return false
		}
	}
	return true
}

// cellRows converts row elements into RawRows using the given cell selector,
// applying the row cap and the header-skip rule.
func cellRows(rows []page.Element, cellSelector string) []RawRow {
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	var out []RawRow
	for _, row := range rows {
		elems := row.Select(cellSelector)
		if len(elems) == 0 {
			continue
		}
		cells := make([]string, 0, len(elems))
		for _, e := range elems {
			cells = append(cells, e.Text())
		}
		if isHeaderRow(cells) {
			continue
		}
		out = append(out, RawRow{Index: len(out), Cells: cells})
	}
	return out
}
