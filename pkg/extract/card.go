package extract

import (
	"fmt"
	"regexp"

	"github.com/washwatch/washwatch/pkg/page"
)

const tileSelector = "div, li, section, article"

// tileKeywordRe gates which block elements qualify as machine tiles, so page
// chrome (nav bars, footers) never reaches the classifier.
var tileKeywordRe = regexp.MustCompile(`(?i)washer|dryer|available|in use|out of order|fault|error`)

// tileNameRe picks a machine label out of tile text: "Washer 3", "Dryer #12",
// or a washer/dryer word glued to an identifier token.
var tileNameRe = regexp.MustCompile(`(?i)(?:washer|dryer)\s*#?\s*\d+|(?:washer|dryer)[^\s,;:]+`)

// CardAdapter is the last-resort strategy for card/tile layouts with no
// table or grid structure at all. Each qualifying tile becomes a two-cell
// row: a best-effort name and the full tile text for the status classifier.
type CardAdapter struct{}

func (a *CardAdapter) Name() string { return "card" }

func (a *CardAdapter) Rows(c page.Context) []RawRow {
	tiles := c.Select(tileSelector)

	var out []RawRow
	for _, tile := range tiles {
		if len(out) >= maxRows {
			break
		}
		text := tile.Text()
		if text == "" || !tileKeywordRe.MatchString(text) {
			continue
		}
		// The selector matches ancestors of a card as well as the card
		// itself; keep only the deepest qualifying element so one physical
		// tile yields one row.
		if hasQualifyingDescendant(tile) {
			continue
		}

		name := tileNameRe.FindString(text)
		if name == "" {
			name = fmt.Sprintf("Machine %d", len(out)+1)
		}
		out = append(out, RawRow{Index: len(out), Cells: []string{name, text}})
	}
	return out
}

func hasQualifyingDescendant(tile page.Element) bool {
	for _, child := range tile.Select(tileSelector) {
		if tileKeywordRe.MatchString(child.Text()) {
			return true
		}
	}
	return false
}
