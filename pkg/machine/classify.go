package machine

import (
	"regexp"
	"strings"
)

// statusRule is one entry of the ordered status decision table.
type statusRule struct {
	status   Status
	keywords []string
}

// Ordered by priority: out-of-order wins over anything else because a faulty
// machine may still render "available" or countdown text nearby.
var statusRules = []statusRule{
	{StatusOutOfOrder, []string{"out of order", "fault", "error", "down"}},
	{StatusAvailable, []string{"available", "vacant", "free"}},
	{StatusInUse, []string{"in use", "running", "busy", "occupied"}},
}

// Longest unit first so "12 min" captures "12 min", not "12 m".
var timeDetailRe = regexp.MustCompile(`(?i)\d+\s*(?:minutes|mins|min|m)`)

var dryTokenRe = regexp.MustCompile(`\bdry\b`)

// Normalize collapses all whitespace runs (tabs, newlines included) to a
// single space and trims the ends. Empty input yields "".
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// ClassifyStatus maps free-form cell text to a Status plus an optional detail
// fragment (remaining time). Status and detail are independent extractions
// over the same text: "Available, done in 3 min" yields (Available, "3 min").
func ClassifyStatus(text string) (Status, string) {
	t := strings.ToLower(text)

	status := StatusUnknown
	for _, rule := range statusRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				status = rule.status
				break
			}
		}
		if status != StatusUnknown {
			break
		}
	}

	detail := timeDetailRe.FindString(text)
	return status, detail
}

// ClassifyKind infers washer/dryer from a machine label. Dryer rules run
// first so labels like "Quick Dry 2" never fall through to Washer.
func ClassifyKind(name string) Kind {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "dryer"), dryTokenRe.MatchString(n):
		return KindDryer
	case strings.Contains(n, "washer"), strings.Contains(n, "wash"), strings.Contains(n, "laundry"):
		return KindWasher
	default:
		return KindUnknown
	}
}
