// Package mock provides function-field mock implementations of the skitter
// interfaces for tests.
package mock

import (
	"context"
	"time"

	"github.com/skitterio/skitter"
)

var _ skitter.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of skitter.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, rawURL string) (*skitter.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*skitter.Response, error) {
	return f.FetchFn(ctx, rawURL)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ skitter.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of skitter.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(baseURL, body string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(baseURL, body string) ([]string, error) {
	return e.ExtractLinksFn(baseURL, body)
}

var _ skitter.Filterer = (*Filterer)(nil)

// Filterer is a mock implementation of skitter.Filterer.
type Filterer struct {
	ProcessFn func(u skitter.URL) (skitter.URL, bool)
}

func (f *Filterer) Process(u skitter.URL) (skitter.URL, bool) {
	return f.ProcessFn(u)
}

var _ skitter.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of skitter.RateLimiter.
type RateLimiter struct {
	LimitFn     func(ctx context.Context, rawURL string) error
	ConfigureFn func(cfg skitter.LimiterConfig) error
}

func (l *RateLimiter) Limit(ctx context.Context, rawURL string) error {
	if l.LimitFn == nil {
		return nil
	}
	return l.LimitFn(ctx, rawURL)
}

func (l *RateLimiter) Configure(cfg skitter.LimiterConfig) error {
	if l.ConfigureFn == nil {
		return nil
	}
	return l.ConfigureFn(cfg)
}

var _ skitter.Agent = (*Agent)(nil)

// Agent is a mock implementation of skitter.Agent.
type Agent struct {
	NameFn        func() string
	RespectFn     func(ctx context.Context, domain, robotsURL string)
	CanAccessFn   func(domain string, u skitter.URL) bool
	CrawlDelayFn  func(domain string) (time.Duration, bool)
	RequestRateFn func(domain string) (skitter.RequestRate, bool)
	SitemapsFn    func(domain string) []string
}

func (a *Agent) Name() string {
	if a.NameFn == nil {
		return "mock"
	}
	return a.NameFn()
}

func (a *Agent) Respect(ctx context.Context, domain, robotsURL string) {
	if a.RespectFn != nil {
		a.RespectFn(ctx, domain, robotsURL)
	}
}

func (a *Agent) CanAccess(domain string, u skitter.URL) bool {
	if a.CanAccessFn == nil {
		return true
	}
	return a.CanAccessFn(domain, u)
}

func (a *Agent) CrawlDelay(domain string) (time.Duration, bool) {
	if a.CrawlDelayFn == nil {
		return 0, false
	}
	return a.CrawlDelayFn(domain)
}

func (a *Agent) RequestRate(domain string) (skitter.RequestRate, bool) {
	if a.RequestRateFn == nil {
		return skitter.RequestRate{}, false
	}
	return a.RequestRateFn(domain)
}

func (a *Agent) Sitemaps(domain string) []string {
	if a.SitemapsFn == nil {
		return nil
	}
	return a.SitemapsFn(domain)
}

var _ skitter.SitemapParser = (*SitemapParser)(nil)

// SitemapParser is a mock implementation of skitter.SitemapParser.
type SitemapParser struct {
	ParseFn func(body string) (*skitter.Sitemap, error)
}

func (p *SitemapParser) Parse(body string) (*skitter.Sitemap, error) {
	return p.ParseFn(body)
}

var _ skitter.RobotsParser = (*RobotsParser)(nil)

// RobotsParser is a mock implementation of skitter.RobotsParser.
type RobotsParser struct {
	ParseFn func(body string) (skitter.RobotsPolicy, error)
}

func (p *RobotsParser) Parse(body string) (skitter.RobotsPolicy, error) {
	return p.ParseFn(body)
}
