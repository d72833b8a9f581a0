package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/washwatch/washwatch/internal/fetch"
	"github.com/washwatch/washwatch/pkg/machine"
)

// stubFetcher serves canned pages and can fail the first N fetches.
type stubFetcher struct {
	pages     map[string]string
	failFirst int
	calls     int
}

func (s *stubFetcher) Fetch(_ context.Context, url string, _ fetch.Options) (fetch.Content, error) {
	s.calls++
	if s.calls <= s.failFirst {
		return fetch.Content{}, fmt.Errorf("%w: connection refused", fetch.ErrUnreachable)
	}
	html, ok := s.pages[url]
	if !ok {
		return fetch.Content{}, fmt.Errorf("%w: no such page %q", fetch.ErrUnreachable, url)
	}
	return fetch.Content{URL: url, HTML: html}, nil
}

func (s *stubFetcher) Close() error { return nil }

func (s *stubFetcher) Type() string { return "stub" }

const statusTable = `<html><body><table><tbody>
	<tr><th>Machine</th><th>Status</th></tr>
	<tr><td>Washer 1</td><td>Available</td></tr>
	<tr><td>Dryer 1</td><td>In Use, 21 min</td></tr>
</tbody></table></body></html>`

func newTestCollector(t *testing.T, f fetch.Fetcher, opts ...Option) *Collector {
	t.Helper()
	opts = append([]Option{
		WithTargetURL("https://example.com/laundry"),
		WithFetcher(f),
		WithRetryPolicy(RetryPolicy{Attempts: 3, Wait: time.Millisecond}),
	}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestCollect_ThroughLazyFrame(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/laundry": `<html><body>
			<iframe data-lazy-src="https://status.example.com/widget?room=1"></iframe>
		</body></html>`,
		"https://status.example.com/widget?room=1": statusTable,
	}}

	c := newTestCollector(t, f)
	records, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Name != "Washer 1" || records[0].Status != machine.StatusAvailable {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Detail != "21 min" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestCollect_HeartbeatWhenNothingParses(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/laundry": `<html><body><p>under renovation</p></body></html>`,
	}}

	c := newTestCollector(t, f)
	records, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(records) != 1 || records[0].Status != machine.StatusNoRows {
		t.Errorf("records = %+v, want single heartbeat", records)
	}
}

func TestCollect_DirectSkipsFrames(t *testing.T) {
	// Direct mode must not chase the frame even though one is attached.
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/laundry": `<html><body>
			<iframe src="https://status.example.com/widget"></iframe>
		</body></html>`,
	}}

	c := newTestCollector(t, f, WithDirect(true))
	records, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(records) != 1 || records[0].Status != machine.StatusNoRows {
		t.Errorf("records = %+v, want heartbeat without frame fetch", records)
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (no frame load)", f.calls)
	}
}

func TestCollectWithRetry_RecoversFromTransientFailure(t *testing.T) {
	f := &stubFetcher{
		failFirst: 2,
		pages: map[string]string{
			"https://example.com/laundry": statusTable,
		},
	}

	c := newTestCollector(t, f)
	records, err := c.CollectWithRetry(context.Background())
	if err != nil {
		t.Fatalf("CollectWithRetry() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
	if f.calls != 3 {
		t.Errorf("fetch calls = %d, want 3", f.calls)
	}
}

func TestCollectWithRetry_Exhaustion(t *testing.T) {
	f := &stubFetcher{failFirst: 10}

	c := newTestCollector(t, f)
	_, err := c.CollectWithRetry(context.Background())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, fetch.ErrUnreachable) {
		t.Errorf("error = %v, want wrapped ErrUnreachable", err)
	}
	if f.calls != 3 {
		t.Errorf("fetch calls = %d, want bounded at 3", f.calls)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(WithTargetURL("not a url")); err == nil {
		t.Error("expected validation error for malformed target URL")
	}
	if _, err := New(WithFetcher(&stubFetcher{})); err == nil {
		t.Error("expected validation error for missing target URL")
	}
}
