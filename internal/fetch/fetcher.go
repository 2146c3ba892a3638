package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nao1215/sitespider/internal/model"
)

// Fetcher retrieves single documents over HTTP. It satisfies the crawl
// engine's Fetcher interface: any transport error or non-2xx status is
// returned as an error, which the engine records as a rejected URL.
//
// Design decision: We use a struct with the http.Client rather than
// passing the client on each call because:
//  1. Client configuration (proxy, timeouts) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with mock transport
type Fetcher struct {
	// client is the shared HTTP client, built by NewHTTPClient.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize limits the response body size to prevent memory
	// exhaustion. Bodies larger than this are truncated.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// NewFetcher creates a Fetcher over the given HTTP client.
// The client should come from NewHTTPClient so proxy, cookies, and
// redirect behavior are configured consistently.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "sitespider/1.0",
		maxBodySize: model.MaxPageSize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the URL and returns the resulting page.
// The body is read fully (up to the size limit) before returning, so
// the caller owns the bytes and no connection is held open.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read side already consumed

	// Non-success statuses are fetch failures; the crawler does not
	// distinguish a 404 from a connection refused.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d for %s", ErrHTTPStatus, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	page := &model.Page{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FetchedAt:   time.Now(),
		Size:        int64(len(body)),
		Body:        body,
	}
	page.ComputeHash()

	return page, nil
}
