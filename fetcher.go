package skitter

import (
	"context"
	"net/http"
)

// Response is the outcome of fetching a URL: page content plus enough
// metadata to resolve redirects and inspect headers.
type Response struct {
	StatusCode int
	Header     http.Header

	// FinalURL is the URL after following redirects. Link resolution uses
	// it as the base, not the requested URL.
	FinalURL string

	Body string
}

// Fetcher retrieves content from URLs. It is used for page content, robots
// policy documents, and sitemap documents alike.
type Fetcher interface {
	// Fetch retrieves the content at the given URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, rawURL string) (*Response, error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
