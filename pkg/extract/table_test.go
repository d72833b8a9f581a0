package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/washwatch/washwatch/pkg/page"
)

func snapshotCtx(t *testing.T, html string) page.Context {
	t.Helper()
	s, err := page.NewSnapshot(html, "https://status.example.com/1", nil)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	return s
}

func TestTableAdapter_SkipsHeaderRow(t *testing.T) {
	ctx := snapshotCtx(t, `<html><body><table><tbody>
		<tr><th>Machine</th><th>Status</th></tr>
		<tr><td>Washer 1</td><td>Available</td></tr>
		<tr><td>Dryer 2</td><td>In Use</td></tr>
	</tbody></table></body></html>`)

	rows := (&TableAdapter{}).Rows(ctx)
	if len(rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(rows))
	}
	if rows[0].Cells[0] != "Washer 1" {
		t.Errorf("first data row = %v", rows[0].Cells)
	}
}

func TestTableAdapter_KeepsDataRowWithHeaderWord(t *testing.T) {
	// "Machine 4" shares a header label word but carries a digit, so it is a
	// data row, not a header.
	ctx := snapshotCtx(t, `<html><body><table><tbody>
		<tr><td>Machine 4</td><td>Available</td></tr>
	</tbody></table></body></html>`)

	rows := (&TableAdapter{}).Rows(ctx)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestTableAdapter_FallsBackToAnyRow(t *testing.T) {
	// Rows living outside a tbody (thead-only tables exist in the wild)
	// are still picked up by the bare row fallback.
	ctx := snapshotCtx(t, `<html><body><table><thead>
		<tr><td>Washer 1</td><td>In Use 12 min</td></tr>
	</thead></table></body></html>`)

	rows := (&TableAdapter{}).Rows(ctx)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row from fallback selector, got %d", len(rows))
	}
	if rows[0].Cells[1] != "In Use 12 min" {
		t.Errorf("cells = %v", rows[0].Cells)
	}
}

func TestTableAdapter_CapsRowCount(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><table><tbody>`)
	for i := 1; i <= 250; i++ {
		fmt.Fprintf(&b, `<tr><td>Washer %d</td><td>Available</td></tr>`, i)
	}
	b.WriteString(`</tbody></table></body></html>`)

	rows := (&TableAdapter{}).Rows(snapshotCtx(t, b.String()))
	if len(rows) != maxRows {
		t.Fatalf("expected %d rows from a 250-row table, got %d", maxRows, len(rows))
	}
	last := rows[len(rows)-1]
	if last.Cells[0] != fmt.Sprintf("Washer %d", maxRows) {
		t.Errorf("last row = %v, want truncation at row %d", last.Cells, maxRows)
	}
	if last.Index != maxRows-1 {
		t.Errorf("last row ordinal = %d, want %d", last.Index, maxRows-1)
	}
}

func TestTableAdapter_OrdinalSkipsHeader(t *testing.T) {
	// The header does not advance the ordinal, so the first data row is row 0.
	ctx := snapshotCtx(t, `<html><body><table><tbody>
		<tr><th>Machine</th><th>Status</th></tr>
		<tr><td>Washer 1</td><td>Available</td></tr>
	</tbody></table></body></html>`)

	rows := (&TableAdapter{}).Rows(ctx)
	if len(rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(rows))
	}
	if rows[0].Index != 0 {
		t.Errorf("data row ordinal = %d, want 0", rows[0].Index)
	}
}

func TestTableAdapter_EmptyDocument(t *testing.T) {
	ctx := snapshotCtx(t, `<html><body><p>no machines</p></body></html>`)

	if rows := (&TableAdapter{}).Rows(ctx); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestIsHeaderRow(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  bool
	}{
		{"classic header", []string{"Machine", "Status"}, true},
		{"node header", []string{"Node", "State"}, true},
		{"data with digit", []string{"Machine 4", "Available"}, false},
		{"no header label", []string{"Washer", "Available"}, false},
		{"empty", []string{"", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHeaderRow(tt.cells); got != tt.want {
				t.Errorf("isHeaderRow(%v) = %v, want %v", tt.cells, got, tt.want)
			}
		})
	}
}
