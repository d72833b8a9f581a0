package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/washwatch/washwatch/internal/logger"
)

// Webhook posts row batches as a JSON array to a sheet web-app endpoint.
type Webhook struct {
	client *resty.Client
	url    string
}

// NewWebhook creates a webhook sink. A zero timeout defaults to 30s, the
// web-app's own execution ceiling.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Webhook{client: client, url: url}
}

// Append posts the rows. A non-2xx response is an error; the web app
// acknowledges appends in its body, which is logged for debugging.
func (w *Webhook) Append(ctx context.Context, rows [][]string) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(rows).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	logger.Debug("webhook accepted rows", "count", len(rows), "response", truncate(resp.String(), 200))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
