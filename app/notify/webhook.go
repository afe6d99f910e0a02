package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	postTimeout      = 30 * time.Second
	maxErrorBodySize = 4 << 10
)

// Key identifies an entry across polls.
type Key struct {
	FeedURL string
	EntryID string
}

// DeliveryStore records successful deliveries so an entry is never sent
// twice.
type DeliveryStore interface {
	MarkDelivered(feedURL, entryID string) error
}

// Notifier posts payloads to every configured webhook. Delivery is
// at-least-once: the dedup record is written after the first webhook
// accepts the payload, so a later webhook failing in the same fan-out is
// not retried on the next poll.
type Notifier struct {
	httpClient *http.Client
	webhooks   []string
	store      DeliveryStore
	dryRun     bool
}

func NewNotifier(httpClient *http.Client, webhooks []string, store DeliveryStore, dryRun bool) *Notifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: postTimeout}
	}

	return &Notifier{
		httpClient: httpClient,
		webhooks:   webhooks,
		store:      store,
		dryRun:     dryRun,
	}
}

// Deliver posts the payload to every webhook. Webhook failures are logged
// and absorbed so each webhook gets its attempt; only a store write failure
// surfaces, aborting the feed's current cycle.
func (n *Notifier) Deliver(ctx context.Context, key Key, payload Payload) error {
	body, err := json.Marshal(webhookRequest{Embeds: []Payload{payload}})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	if n.dryRun {
		slog.Info("Dry run, skipping delivery",
			"feed", key.FeedURL, "entry", key.EntryID, "payload", string(body))
		return nil
	}

	for _, webhook := range n.webhooks {
		if err := n.post(ctx, webhook, body); err != nil {
			slog.Error("Webhook delivery failed",
				"feed", key.FeedURL, "entry", key.EntryID, "webhook", webhook, "error", err)
			continue
		}

		if err := n.store.MarkDelivered(key.FeedURL, key.EntryID); err != nil {
			return err
		}
	}

	return nil
}

func (n *Notifier) post(ctx context.Context, webhook string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode, resp.Status, string(respBody))
	}

	return nil
}
