package skitter

import (
	"context"
	"time"
)

// RequestRate is a robots "Request-rate" directive: at most Requests
// requests per Seconds seconds.
type RequestRate struct {
	Requests int
	Seconds  int
}

// RobotsPolicy is the crawl policy published by one domain, keyed by
// user-agent name.
type RobotsPolicy interface {
	// Allowed reports whether the user agent may fetch the given path.
	Allowed(userAgent, path string) bool

	// CrawlDelay returns the crawl delay for the user agent.
	// The second result is false when the policy does not specify one.
	CrawlDelay(userAgent string) (time.Duration, bool)

	// RequestRate returns the request rate for the user agent.
	// The second result is false when the policy does not specify one.
	RequestRate(userAgent string) (RequestRate, bool)

	// Sitemaps returns the sitemap URLs listed by the policy.
	Sitemaps() []string
}

// RobotsParser parses a robots.txt document into a policy.
type RobotsParser interface {
	Parse(body string) (RobotsPolicy, error)
}

// Agent is the politeness subsystem: a per-domain policy store derived from
// robots documents, keyed by exact domain string.
type Agent interface {
	// Name returns the user-agent name the policies are evaluated for.
	Name() string

	// Respect fetches and records the robots policy for a domain.
	// It is idempotent: a domain already acknowledged is left untouched.
	// A failed robots fetch records a permissive policy; it never fails
	// the crawl.
	Respect(ctx context.Context, domain, robotsURL string)

	// CanAccess reports whether the agent may fetch the URL. Unknown
	// domains are permitted (permissive default).
	CanAccess(domain string, u URL) bool

	// CrawlDelay returns the recorded crawl delay for a domain, if any.
	CrawlDelay(domain string) (time.Duration, bool)

	// RequestRate returns the recorded request rate for a domain, if any.
	RequestRate(domain string) (RequestRate, bool)

	// Sitemaps returns the sitemap URLs recorded for a domain.
	Sitemaps(domain string) []string
}
