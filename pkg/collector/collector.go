package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/washwatch/washwatch/internal/fetch"
	"github.com/washwatch/washwatch/internal/logger"
	"github.com/washwatch/washwatch/pkg/extract"
	"github.com/washwatch/washwatch/pkg/machine"
	"github.com/washwatch/washwatch/pkg/page"
)

var validate = validator.New()

// Collector produces one batch of machine records per run for a configured
// target.
// Runs are independent and stateless; the collector only holds configuration
// and the fetcher's browser resources.
type Collector struct {
	cfg          Config
	fetcher      fetch.Fetcher
	orchestrator *extract.Orchestrator
	ownsFetcher  bool
}

// New creates a Collector from functional options.
func New(opts ...Option) (*Collector, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid collector config: %w", err)
	}

	f := cfg.Fetcher
	owns := false
	if f == nil {
		var err error
		f, err = fetch.New(cfg.FetchMode, fetch.Config{
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout,
			MaxBodySize: cfg.MaxSnapshotSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
		owns = true
	}

	return &Collector{
		cfg:          cfg,
		fetcher:      f,
		orchestrator: extract.NewOrchestrator(),
		ownsFetcher:  owns,
	}, nil
}

// Collect performs a single extraction run: acquire the root document,
// resolve the data-bearing scope, run the adapter chain, classify. The
// returned slice always has at least one record (heartbeat on empty). Only
// acquisition-level failure returns an error.
func (c *Collector) Collect(ctx context.Context) ([]machine.Record, error) {
	logger.Info("collecting", "url", c.cfg.TargetURL, "fetcher", c.fetcher.Type())

	content, err := c.fetcher.Fetch(ctx, c.cfg.TargetURL, fetch.Options{
		Referer: c.cfg.RefererHint,
		Timeout: c.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire root document: %w", err)
	}

	loader := fetch.FrameLoader(c.fetcher, fetch.Options{})
	root, err := page.NewSnapshot(content.HTML, content.URL, loader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse root document: %w", err)
	}

	var records []machine.Record
	if c.cfg.Direct {
		records = c.orchestrator.Extract(root)
	} else {
		records = c.orchestrator.Run(ctx, root)
	}

	logger.Info("collection complete", "records", len(records))
	return records, nil
}

// CollectWithRetry re-runs Collect on failure, waiting a fixed delay between
// attempts. Exhausting all attempts returns the final error.
func (c *Collector) CollectWithRetry(ctx context.Context) ([]machine.Record, error) {
	policy := c.cfg.Retry
	var lastErr error

	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		records, err := c.Collect(ctx)
		if err == nil {
			return records, nil
		}
		lastErr = err
		logger.Warn("collection attempt failed",
			"attempt", attempt,
			"max_attempts", policy.Attempts,
			"error", err)

		if attempt == policy.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Wait):
		}
	}

	return nil, fmt.Errorf("collection failed after %d attempts: %w", policy.Attempts, lastErr)
}

// Close releases fetcher resources the collector owns.
func (c *Collector) Close() error {
	if c.ownsFetcher && c.fetcher != nil {
		return c.fetcher.Close()
	}
	return nil
}
