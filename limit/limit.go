// Package limit provides per-domain throttling strategies for the crawler:
// a no-op limiter, a fixed-delay limiter, a token bucket, and a per-domain
// dispatch layer composing them.
//
// Limiters are reconfigured at runtime from robots-derived policy. Merges
// are conservative: a fixed delay only ever grows, a token bucket rate only
// ever shrinks, so every bound seen so far stays respected.
package limit

import (
	"context"
	"time"

	"github.com/skitterio/skitter"
)

// Compile-time interface verification.
var _ skitter.RateLimiter = NoLimit{}

// NoLimit never suspends. It is the default when no throttling is wanted.
type NoLimit struct{}

// Limit implements skitter.RateLimiter.
func (NoLimit) Limit(ctx context.Context, rawURL string) error {
	return ctx.Err()
}

// Configure implements skitter.RateLimiter. It does nothing.
func (NoLimit) Configure(skitter.LimiterConfig) error {
	return nil
}

// delayFrom derives a request delay from a limiter config: the crawl delay
// when present, otherwise seconds-per-request from the request rate. The
// second result is false when the config specifies neither.
func delayFrom(cfg skitter.LimiterConfig) (time.Duration, bool, error) {
	if cfg.CrawlDelay != 0 {
		if cfg.CrawlDelay < 0 {
			return 0, false, skitter.Errorf(skitter.ECONFIG, "crawl delay must be positive (got %s)", cfg.CrawlDelay)
		}
		return cfg.CrawlDelay, true, nil
	}
	if cfg.Rate != nil {
		if cfg.Rate.Requests <= 0 || cfg.Rate.Seconds <= 0 {
			return 0, false, skitter.Errorf(skitter.ECONFIG, "request rate must be positive (got %d/%ds)", cfg.Rate.Requests, cfg.Rate.Seconds)
		}
		d := time.Duration(float64(cfg.Rate.Seconds) / float64(cfg.Rate.Requests) * float64(time.Second))
		return d, true, nil
	}
	return 0, false, nil
}

// rateFrom derives a tokens-per-second rate from a limiter config: the
// request rate when present, otherwise one request per crawl-delay period.
// The second result is false when the config specifies neither.
func rateFrom(cfg skitter.LimiterConfig) (float64, bool, error) {
	if cfg.CrawlDelay != 0 {
		if cfg.CrawlDelay < 0 {
			return 0, false, skitter.Errorf(skitter.ECONFIG, "crawl delay must be positive (got %s)", cfg.CrawlDelay)
		}
		return 1 / cfg.CrawlDelay.Seconds(), true, nil
	}
	if cfg.Rate != nil {
		if cfg.Rate.Requests <= 0 || cfg.Rate.Seconds <= 0 {
			return 0, false, skitter.Errorf(skitter.ECONFIG, "request rate must be positive (got %d/%ds)", cfg.Rate.Requests, cfg.Rate.Seconds)
		}
		return float64(cfg.Rate.Requests) / float64(cfg.Rate.Seconds), true, nil
	}
	return 0, false, nil
}
