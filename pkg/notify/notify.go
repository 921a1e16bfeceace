package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Notifier delivers a human-readable alert to operators. Delivery is
// best-effort: callers log failures and move on.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Noop is the notifier used when no channel is configured
type Noop struct{}

// Send discards the message
func (Noop) Send(ctx context.Context, text string) error {
	return nil
}

// Webhook posts notifications as JSON to a configured URL
type Webhook struct {
	url  string
	http *http.Client
}

// NewWebhook creates a webhook notifier targeting url
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

type webhookPayload struct {
	Text string `json:"text"`
}

// Send posts the message to the webhook
func (w *Webhook) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(webhookPayload{Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification returned status %d", resp.StatusCode)
	}
	return nil
}
