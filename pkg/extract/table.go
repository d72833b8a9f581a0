package extract

import "github.com/washwatch/washwatch/pkg/page"

// TableAdapter reads rows from native table markup. It prefers an explicit
// tbody, then falls back to any row element regardless of table wrapper
// (some status pages emit bare <tr> without <table>).
type TableAdapter struct{}

func (a *TableAdapter) Name() string { return "table" }

func (a *TableAdapter) Rows(c page.Context) []RawRow {
	rows := c.Select("table tbody tr")
	if len(rows) == 0 {
		rows = c.Select("tr")
	}
	return cellRows(rows, "th, td")
}
