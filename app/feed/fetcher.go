package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	fetchTimeout  = 30 * time.Second
	retryFloor    = 1 * time.Second
	retryCeiling  = 10 * time.Second
	fetchAttempts = 3
)

// Fetcher retrieves and parses a feed URL. Network failures, non-2xx
// responses and parse failures all retry under the same bounded backoff
// policy; the error surfaces to the caller only after the attempt budget
// is exhausted.
type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string

	retryFloor   time.Duration
	retryCeiling time.Duration
	maxRetries   uint64
}

func NewFetcher(httpClient *http.Client, parser *Parser, userAgent string) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}

	return &Fetcher{
		httpClient:   httpClient,
		parser:       parser,
		userAgent:    userAgent,
		retryFloor:   retryFloor,
		retryCeiling: retryCeiling,
		maxRetries:   fetchAttempts - 1,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*Feed, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.retryFloor
	b.MaxInterval = f.retryCeiling
	b.MaxElapsedTime = 0

	var feed *Feed
	operation := func() error {
		fetched, err := f.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		feed = fetched
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, f.maxRetries), ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}

	return feed, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return f.parser.Run(data)
}
