// Package slog provides logging decorators and event observers built on the
// standard library's structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/skitterio/skitter"
)

// Ensure LoggingFetcher implements skitter.Fetcher.
var _ skitter.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   skitter.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next skitter.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, rawURL string) (resp *skitter.Response, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", rawURL,
			"duration", time.Since(begin),
		}
		if resp != nil {
			attrs = append(attrs, "status", resp.StatusCode, "bytes", len(resp.Body))
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
