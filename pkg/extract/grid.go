package extract

import "github.com/washwatch/washwatch/pkg/page"

// GridAdapter is the TableAdapter's twin for role-based ARIA markup. It only
// ever runs when no native table produced rows.
type GridAdapter struct{}

func (a *GridAdapter) Name() string { return "aria-grid" }

func (a *GridAdapter) Rows(c page.Context) []RawRow {
	rows := c.Select(`[role='grid'] [role='row']`)
	if len(rows) == 0 {
		rows = c.Select(`[role='row']`)
	}
	return cellRows(rows, `[role='columnheader'], [role='gridcell'], [role='cell']`)
}
