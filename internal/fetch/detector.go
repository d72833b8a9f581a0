package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/washwatch/washwatch/internal/logger"
)

// AutoFetcher tries a cheap static fetch first and escalates to the headless
// browser when the page appears to be JavaScript-rendered.
type AutoFetcher struct {
	static  *StaticFetcher
	dynamic *DynamicFetcher
}

// NewAuto creates a fetcher that auto-detects JS requirements.
func NewAuto(cfg Config) (*AutoFetcher, error) {
	dynamic, err := NewDynamic(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic fetcher: %w", err)
	}

	return &AutoFetcher{
		static:  NewStatic(cfg),
		dynamic: dynamic,
	}, nil
}

// Fetch tries static first, then falls back to dynamic if needed.
func (f *AutoFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	content, err := f.static.Fetch(ctx, url, opts)
	if err != nil {
		logger.Debug("static fetch failed, escalating to browser", "url", url, "error", err)
		return f.dynamic.Fetch(ctx, url, opts)
	}

	if needsJavaScript(content) {
		logger.Debug("page looks JS-rendered, escalating to browser", "url", url)
		return f.dynamic.Fetch(ctx, url, opts)
	}

	return content, nil
}

// needsJavaScript checks if a page appears to require JS rendering.
func needsJavaScript(content Content) bool {
	html := strings.ToLower(content.HTML)
	text := strings.ToLower(content.Text)

	// SPA framework mount points with nothing rendered into them.
	spaMarkers := []string{
		"<div id=\"root\"></div>",
		"<div id=\"app\"></div>",
		"<app-root></app-root>",
		"<div id=\"__next\"></div>",
		"<div data-reactroot",
	}
	for _, marker := range spaMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}

	// Almost no text plus a loading indicator is the usual widget shell.
	if len(strings.TrimSpace(content.Text)) < 100 {
		jsIndicators := []string{
			"loading",
			"please wait",
			"javascript required",
			"enable javascript",
		}
		for _, indicator := range jsIndicators {
			if strings.Contains(text, indicator) {
				return true
			}
		}
	}

	return false
}

// Close releases all fetcher resources.
func (f *AutoFetcher) Close() error {
	if f.dynamic != nil {
		return f.dynamic.Close()
	}
	return nil
}

// Type returns the fetcher type.
func (f *AutoFetcher) Type() string {
	return "auto"
}
