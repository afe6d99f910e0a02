// Package engine decides which fetched entries are novel and hands them to
// delivery.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/feedhook/feedhook/app/config"
	"github.com/feedhook/feedhook/app/feed"
	"github.com/feedhook/feedhook/app/notify"
	"github.com/feedhook/feedhook/app/store"
)

// EntryStore is the durable novelty record the processor consults.
type EntryStore interface {
	Has(feedURL, entryID string) (bool, error)
	MarkDelivered(feedURL, entryID string) error
	GetFeedMeta(feedURL string) (*store.FeedMeta, error)
	SetFeedMeta(feedURL string, initializedAt time.Time) error
}

// Deliverer posts a payload for one entry to the configured webhooks.
type Deliverer interface {
	Deliver(ctx context.Context, key notify.Key, payload notify.Payload) error
}

type Processor struct {
	store     EntryStore
	deliverer Deliverer
}

func NewProcessor(entryStore EntryStore, deliverer Deliverer) *Processor {
	return &Processor{
		store:     entryStore,
		deliverer: deliverer,
	}
}

// Run processes one fetched snapshot of a feed. The very first time a feed
// is seen, every entry currently present is recorded as delivered without
// sending anything, so a newly added feed does not flood the webhooks with
// its backlog. Subsequent runs deliver entries the store has not seen yet,
// in feed-declared order.
//
// A store failure aborts the cycle; the feed is retried on its next tick.
func (p *Processor) Run(ctx context.Context, feedCfg config.Feed, fetched *feed.Feed) error {
	meta, err := p.store.GetFeedMeta(feedCfg.URL)
	if err != nil {
		return err
	}
	if meta == nil {
		return p.seed(feedCfg.URL, fetched)
	}

	var withImage bool
	switch feedCfg.ImageMode {
	case config.ImageModeNone:
		withImage = false
	case config.ImageModeHTML:
		withImage = true
	}

	for _, entry := range fetched.Entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		seen, err := p.store.Has(feedCfg.URL, entry.ID)
		if err != nil {
			return err
		}
		if seen {
			continue
		}

		slog.Info("New entry found",
			"feed", feedCfg.URL, "feed_title", fetched.Title, "entry", entry.ID)

		payload := notify.BuildPayload(fetched, entry, withImage)
		key := notify.Key{FeedURL: feedCfg.URL, EntryID: entry.ID}
		if err := p.deliverer.Deliver(ctx, key, payload); err != nil {
			return err
		}
	}

	return nil
}

func (p *Processor) seed(feedURL string, fetched *feed.Feed) error {
	slog.Info("Feed has not been seen before, seeding delivery state",
		"feed", feedURL, "feed_title", fetched.Title, "entries", len(fetched.Entries))

	for _, entry := range fetched.Entries {
		if err := p.store.MarkDelivered(feedURL, entry.ID); err != nil {
			return err
		}
	}

	return p.store.SetFeedMeta(feedURL, time.Now().UTC())
}
