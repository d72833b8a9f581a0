package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/washwatch/washwatch/internal/logger"
	"github.com/washwatch/washwatch/pkg/page"
)

// How long to wait for row markup to appear after the page settles. A miss
// degrades to "not found"; the card adapter may still find tiles.
const structuralWait = 10 * time.Second

// DynamicFetcher uses chromedp for JavaScript-rendered status pages.
type DynamicFetcher struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewDynamic creates a new dynamic fetcher with a browser allocator.
func NewDynamic(cfg Config) (*DynamicFetcher, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Debug("dynamic fetcher created", "user_agent", cfg.UserAgent, "timeout", cfg.Timeout)

	return &DynamicFetcher{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Fetch retrieves page content using a headless browser.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx)
	defer cancelBrowser()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	actions := []chromedp.Action{network.Enable()}
	if opts.Referer != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{
			"Referer": opts.Referer,
		}))
	}
	actions = append(actions,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	)
	if opts.WaitDuration > 0 {
		actions = append(actions, chromedp.Sleep(opts.WaitDuration))
	}

	logger.Debug("dynamic fetch navigating", "url", targetURL, "timeout", timeout)
	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		if timeoutCtx.Err() != nil || strings.Contains(err.Error(), "deadline exceeded") {
			return result, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return result, fmt.Errorf("browser automation failed: %w", err)
	}

	// Give row markup a bounded chance to render. Timing out here is not a
	// failure; extraction just sees whatever the page has.
	waitSelector := opts.WaitForSelector
	if waitSelector == "" {
		waitSelector = page.StructuralProbe
	}
	structCtx, cancelStruct := context.WithTimeout(browserCtx, structuralWait)
	if err := chromedp.Run(structCtx, chromedp.WaitReady(waitSelector)); err != nil {
		logger.Debug("structural wait missed, continuing", "selector", waitSelector, "error", err)
	}
	cancelStruct()

	var html, title string
	if err := chromedp.Run(timeoutCtx,
		chromedp.OuterHTML("html", &html),
		chromedp.Title(&title),
	); err != nil {
		if timeoutCtx.Err() != nil {
			return result, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return result, fmt.Errorf("browser automation failed: %w", err)
	}

	result.HTML = html
	result.Title = title
	result.StatusCode = 200 // chromedp doesn't easily expose status codes

	if err := parseContent(&result); err != nil {
		return result, fmt.Errorf("failed to parse content: %w", err)
	}

	logger.Debug("dynamic fetch complete",
		"url", targetURL,
		"title", result.Title,
		"html_size", len(result.HTML))

	return result, nil
}

// Close releases browser resources.
func (f *DynamicFetcher) Close() error {
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
