// Package http provides an HTTP-based implementation of skitter.Fetcher for
// fetching page content, robots documents, and sitemaps.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/skitterio/skitter"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements skitter.Fetcher at compile time.
var _ skitter.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves content from URLs using plain HTTP requests, following
// redirects. It does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient overrides the HTTP client, e.g. for tests.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the content at the given URL. The response carries the
// final URL after redirects so callers can resolve relative links against
// it. Status codes of 400 and above are EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*skitter.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, skitter.Errorf(skitter.EINVALID, "creating request for %s: %v", rawURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, skitter.Errorf(skitter.EUNAVAILABLE, "fetching %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, skitter.Errorf(skitter.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, skitter.Errorf(skitter.EUNAVAILABLE, "reading %s: %v", rawURL, err)
	}

	return &skitter.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		FinalURL:   resp.Request.URL.String(),
		Body:       string(body),
	}, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
