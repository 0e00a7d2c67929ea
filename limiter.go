package skitter

import (
	"context"
	"time"
)

// LimiterConfig carries per-domain throttling bounds derived from robots
// policy. A zero CrawlDelay and nil Rate mean "unspecified".
type LimiterConfig struct {
	Domain     string
	CrawlDelay time.Duration
	Rate       *RequestRate
}

// RateLimiter throttles requests. Implementations reconfigure at runtime
// from policy-derived bounds; merges are conservative, so the tightest
// constraint seen so far always wins.
type RateLimiter interface {
	// Limit suspends until a request to the URL is permitted.
	// Returns an error if the context is canceled first.
	Limit(ctx context.Context, rawURL string) error

	// Configure adjusts the limiter's policy. Bounds that would loosen the
	// current policy are ignored; non-positive delays or rates are ECONFIG.
	Configure(cfg LimiterConfig) error
}
