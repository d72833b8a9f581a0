// Package machine defines the observation model for laundry machines and the
// text classifiers that turn scraped cell text into structured records.
package machine

// Status is the occupancy taxonomy for a machine observation.
type Status string

const (
	StatusAvailable  Status = "Available"
	StatusInUse      Status = "In Use"
	StatusOutOfOrder Status = "Out of Order"
	StatusUnknown    Status = "Unknown"

	// StatusNoRows is the heartbeat sentinel: the run executed but no data
	// rows were parsed. Emitted instead of silence so page-structure drift
	// shows up in the sink timeline.
	StatusNoRows Status = "NO_ROWS_FOUND"

	// StatusScrapeError is the failure sentinel written by the caller when
	// all retries are exhausted.
	StatusScrapeError Status = "SCRAPE_ERROR"
)

// Kind is the machine type inferred from its label. Best-effort only.
type Kind string

const (
	KindWasher  Kind = "Washer"
	KindDryer   Kind = "Dryer"
	KindUnknown Kind = ""
)

// Record is one observation of one machine. Records are immutable values;
// a row with no usable text is dropped rather than emitted blank.
type Record struct {
	Name   string `json:"name" yaml:"name"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Size   string `json:"size,omitempty" yaml:"size,omitempty"`
	Status Status `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Heartbeat returns the sentinel record emitted when an extraction run
// legitimately finds zero rows.
func Heartbeat() Record {
	return Record{Name: "N/A", Status: StatusNoRows}
}
