// Package scheduler drives the recurring feed polls and the liveness
// heartbeat.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/feedhook/feedhook/app/config"
	"github.com/feedhook/feedhook/app/feed"
)

const (
	heartbeatRetryFloor   = 1 * time.Second
	heartbeatRetryCeiling = 2500 * time.Millisecond
	heartbeatAttempts     = 2
)

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*feed.Feed, error)
}

type FeedProcessor interface {
	Run(ctx context.Context, feedCfg config.Feed, fetched *feed.Feed) error
}

// Scheduler owns one polling loop per configured feed and, when configured,
// one heartbeat loop. Feed loops are independent: one feed failing never
// affects another. Each loop's interval comes from the feed's own advertised
// refresh hint, capped at an hour.
type Scheduler struct {
	fetcher     FeedFetcher
	processor   FeedProcessor
	feeds       []config.Feed
	healthCheck *config.HealthCheck
	httpClient  *http.Client

	hbRetryFloor   time.Duration
	hbRetryCeiling time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(fetcher FeedFetcher, processor FeedProcessor, feeds []config.Feed, healthCheck *config.HealthCheck, httpClient *http.Client) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Scheduler{
		fetcher:        fetcher,
		processor:      processor,
		feeds:          feeds,
		healthCheck:    healthCheck,
		httpClient:     httpClient,
		hbRetryFloor:   heartbeatRetryFloor,
		hbRetryCeiling: heartbeatRetryCeiling,
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (s *Scheduler) Start() {
	for _, feedCfg := range s.feeds {
		s.wg.Add(1)
		go func(fc config.Feed) {
			defer s.wg.Done()
			s.runFeed(fc)
		}(feedCfg)
	}

	if s.healthCheck != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runHeartbeat(*s.healthCheck)
		}()
	}
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// runFeed initializes one feed and polls it until shutdown. If the initial
// fetch fails the feed is skipped for the rest of the process lifetime;
// later fetch failures only skip the current cycle.
func (s *Scheduler) runFeed(feedCfg config.Feed) {
	fetched, err := s.fetcher.Fetch(s.ctx, feedCfg.URL)
	if err != nil {
		slog.Error("Failed to initialize feed, skipping it",
			"feed", feedCfg.URL, "error", err)
		return
	}

	interval := fetched.RefreshInterval()
	slog.Info("Feed initialized",
		"feed", feedCfg.URL, "feed_title", fetched.Title, "interval", interval.String())

	if err := s.processor.Run(s.ctx, feedCfg, fetched); err != nil {
		slog.Error("Feed check failed", "feed", feedCfg.URL, "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.checkFeed(feedCfg)
		}
	}
}

func (s *Scheduler) checkFeed(feedCfg config.Feed) {
	fetched, err := s.fetcher.Fetch(s.ctx, feedCfg.URL)
	if err != nil {
		slog.Error("Failed to fetch feed, skipping cycle", "feed", feedCfg.URL, "error", err)
		return
	}

	if err := s.processor.Run(s.ctx, feedCfg, fetched); err != nil {
		slog.Error("Feed check failed", "feed", feedCfg.URL, "error", err)
	}
}

func (s *Scheduler) runHeartbeat(hc config.HealthCheck) {
	interval := time.Duration(hc.Interval) * time.Second
	slog.Info("Health check enabled",
		"endpoint", hc.Endpoint, "method", hc.Method, "interval", interval.String())

	s.callHeartbeat(hc)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.callHeartbeat(hc)
		}
	}
}

// callHeartbeat performs the heartbeat call with its own small retry
// budget. A persistent failure is logged and nothing more; the heartbeat
// must never take the process down.
func (s *Scheduler) callHeartbeat(hc config.HealthCheck) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.hbRetryFloor
	b.MaxInterval = s.hbRetryCeiling
	b.MaxElapsedTime = 0

	operation := func() error {
		req, err := http.NewRequestWithContext(s.ctx, hc.Method, hc.Endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to call health check endpoint: %w", err)
		}
		resp.Body.Close()

		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, heartbeatAttempts-1), s.ctx))
	if err != nil {
		slog.Error("Health check failed", "endpoint", hc.Endpoint, "error", err)
		return
	}

	slog.Debug("Health check posted", "endpoint", hc.Endpoint)
}
