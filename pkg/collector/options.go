// Package collector provides the public API for producing laundry machine
// observations from a configured status page.
package collector

import (
	"time"

	"github.com/washwatch/washwatch/internal/fetch"
)

// RetryPolicy bounds how the full collection run is retried on transient
// acquisition failure.
type RetryPolicy struct {
	Attempts int           `validate:"min=1"`
	Wait     time.Duration `validate:"min=0"`
}

// Config holds all collector configuration. The environment is read by the
// CLI, never in here; callers pass an explicit struct.
type Config struct {
	// TargetURL is the page to observe: either the status widget itself or a
	// page embedding it in a (possibly lazy-loaded) frame.
	TargetURL string `validate:"required,url"`

	// RefererHint is sent as the Referer header on the target fetch, for
	// endpoints that refuse direct navigation.
	RefererHint string `validate:"omitempty,url"`

	// Direct skips frame resolution entirely and extracts from the target
	// document as-is.
	Direct bool

	FetchMode       fetch.Mode
	UserAgent       string
	Timeout         time.Duration // top-level page load budget; a hard failure when exceeded
	MaxSnapshotSize int           // cap on fetched HTML bytes; 0 = unlimited

	Retry RetryPolicy

	// Fetcher overrides the page acquisition strategy. Mostly for tests;
	// when nil one is created from FetchMode and owned by the collector.
	Fetcher fetch.Fetcher `validate:"-"`
}

// DefaultConfig returns sensible defaults. The page-load budget is generous
// because the upstream widget is slow to settle; the retry policy mirrors
// the long-standing 3-attempts/5-second-wait production configuration.
func DefaultConfig() Config {
	return Config{
		FetchMode: fetch.ModeAuto,
		Timeout:   90 * time.Second,
		Retry: RetryPolicy{
			Attempts: 3,
			Wait:     5 * time.Second,
		},
	}
}

// Option configures a Collector.
type Option func(*Config)

// WithTargetURL sets the page to observe.
func WithTargetURL(url string) Option {
	return func(c *Config) {
		c.TargetURL = url
	}
}

// WithRefererHint sets the Referer header for the target fetch.
func WithRefererHint(url string) Option {
	return func(c *Config) {
		c.RefererHint = url
	}
}

// WithDirect disables frame resolution.
func WithDirect(direct bool) Option {
	return func(c *Config) {
		c.Direct = direct
	}
}

// WithFetchMode sets the fetch mode (auto, static, dynamic).
func WithFetchMode(mode fetch.Mode) Option {
	return func(c *Config) {
		c.FetchMode = mode
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the top-level page load budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxSnapshotSize caps how much HTML one fetch may return.
func WithMaxSnapshotSize(bytes int) Option {
	return func(c *Config) {
		c.MaxSnapshotSize = bytes
	}
}

// WithRetryPolicy sets the retry attempts and fixed wait.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Config) {
		c.Retry = p
	}
}

// WithFetcher injects a page fetcher, bypassing FetchMode.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}
