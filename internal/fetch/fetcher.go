// Package fetch handles acquisition of the status page HTML.
package fetch

import (
	"context"
	"errors"
	"time"
)

// ErrUnreachable marks navigation/timeout failures acquiring a document.
// These are the only failures that cross the retry boundary.
var ErrUnreachable = errors.New("target unreachable")

// Content represents a fetched page snapshot.
type Content struct {
	URL        string
	HTML       string
	Title      string
	Text       string // extracted readable text
	StatusCode int
	FetchedAt  time.Time
}

// Options controls fetching behavior for one request.
type Options struct {
	Referer         string        // sent as the Referer header when non-empty
	Timeout         time.Duration // overrides the fetcher default when non-zero
	WaitForSelector string        // CSS selector to wait for (dynamic only)
	WaitDuration    time.Duration // additional settle time after load (dynamic only)
}

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns "static", "dynamic" or "auto".
	Type() string
}

// Config holds common fetcher configuration.
type Config struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int // cap on response body bytes; 0 = unlimited
}

// Chrome user agent: the status pages behind lazyload plugins tend to serve
// stripped markup to obvious bots.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

// Mode determines how pages are fetched.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// New creates an appropriate fetcher for the mode.
func New(mode Mode, cfg Config) (Fetcher, error) {
	switch mode {
	case ModeStatic:
		return NewStatic(cfg), nil
	case ModeDynamic:
		return NewDynamic(cfg)
	case ModeAuto, "":
		return NewAuto(cfg)
	default:
		return nil, errors.New("unknown fetch mode: " + string(mode))
	}
}
