package robotstxt

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/skitterio/skitter"
)

var _ skitter.Agent = (*Agent)(nil)

// Agent stores one robots policy per acknowledged domain, keyed by exact
// domain string, and answers politeness queries for a single user-agent
// name. Safe for concurrent use.
type Agent struct {
	name    string
	fetcher skitter.Fetcher
	parser  skitter.RobotsParser

	mu      sync.Mutex
	domains map[string]skitter.RobotsPolicy
}

// Option configures an Agent.
type Option func(*Agent)

// WithParser overrides the robots parser. Defaults to Parser{}.
func WithParser(p skitter.RobotsParser) Option {
	return func(a *Agent) {
		a.parser = p
	}
}

// NewAgent creates an Agent that evaluates policies for the given
// user-agent name and fetches robots documents with the given fetcher.
func NewAgent(name string, fetcher skitter.Fetcher, opts ...Option) *Agent {
	a := &Agent{
		name:    name,
		fetcher: fetcher,
		parser:  Parser{},
		domains: make(map[string]skitter.RobotsPolicy),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements skitter.Agent.
func (a *Agent) Name() string {
	return a.name
}

// Respect fetches and records the robots policy for a domain. Calling it
// again for a known domain is a no-op. A failed fetch or parse records a
// permissive policy instead: robots failures must never fail the crawl.
func (a *Agent) Respect(ctx context.Context, domain, robotsURL string) {
	a.mu.Lock()
	if _, ok := a.domains[domain]; ok {
		a.mu.Unlock()
		return
	}
	// Record the permissive default up front so concurrent Respect calls
	// for the same domain trigger at most one robots fetch.
	a.domains[domain] = Permissive()
	a.mu.Unlock()

	resp, err := a.fetcher.Fetch(ctx, robotsURL)
	if err != nil || resp.StatusCode != http.StatusOK {
		return
	}
	pol, err := a.parser.Parse(resp.Body)
	if err != nil {
		return
	}

	a.mu.Lock()
	a.domains[domain] = pol
	a.mu.Unlock()
}

// CanAccess implements skitter.Agent. Unknown domains are permitted.
func (a *Agent) CanAccess(domain string, u skitter.URL) bool {
	pol, ok := a.policy(domain)
	if !ok {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return pol.Allowed(a.name, path)
}

// CrawlDelay implements skitter.Agent.
func (a *Agent) CrawlDelay(domain string) (time.Duration, bool) {
	pol, ok := a.policy(domain)
	if !ok {
		return 0, false
	}
	return pol.CrawlDelay(a.name)
}

// RequestRate implements skitter.Agent.
func (a *Agent) RequestRate(domain string) (skitter.RequestRate, bool) {
	pol, ok := a.policy(domain)
	if !ok {
		return skitter.RequestRate{}, false
	}
	return pol.RequestRate(a.name)
}

// Sitemaps implements skitter.Agent.
func (a *Agent) Sitemaps(domain string) []string {
	pol, ok := a.policy(domain)
	if !ok {
		return nil
	}
	return pol.Sitemaps()
}

func (a *Agent) policy(domain string) (skitter.RobotsPolicy, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pol, ok := a.domains[domain]
	return pol, ok
}
