// Package crawl provides the crawl scheduler. It coordinates a pool of
// workers over a shared frontier, consulting the robots agent and the rate
// limiter before every fetch and feeding extracted links back into the
// frontier until the crawl drains or hits its page limit.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/skitterio/skitter"
	"github.com/skitterio/skitter/etree"
	"github.com/skitterio/skitter/filter"
	"github.com/skitterio/skitter/goquery"
	"github.com/skitterio/skitter/limit"
	"github.com/skitterio/skitter/robotstxt"
)

// Defaults applied by New when no option overrides them.
const (
	DefaultWorkers   = 10
	DefaultLimit     = 25
	DefaultUserAgent = "skitter"
)

// Crawler walks the web graph from a set of seed URLs. Workers pull URLs
// from a shared queue, fetch them politely, and push newly discovered
// links back through the filter chain and frontier.
type Crawler struct {
	fetcher   skitter.Fetcher
	extractor skitter.LinkExtractor
	sitemaps  skitter.SitemapParser
	filterer  skitter.Filterer
	agent     skitter.Agent
	limiter   skitter.RateLimiter
	events    *skitter.Emitter
	logger    *slog.Logger
	workers   int
	limit     int

	frontier *Frontier
	todo     *queue

	mu           sync.Mutex
	done         map[string]string // raw URL -> content fingerprint
	total        int
	acked        map[string]struct{}
	seenSitemaps map[string]struct{}
	cancel       context.CancelFunc
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithWorkers sets the number of concurrent workers.
// Defaults to DefaultWorkers.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLimit caps how many URLs the crawl may enqueue beyond the first.
// A limit of 0 still admits a single seed. Defaults to DefaultLimit.
func WithLimit(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.limit = n
		}
	}
}

// WithRateLimiter sets the rate limiter consulted before every fetch.
// Defaults to a per-domain limiter with a one second delay.
func WithRateLimiter(l skitter.RateLimiter) Option {
	return func(c *Crawler) {
		c.limiter = l
	}
}

// WithAgent sets the robots agent. Defaults to a robots.txt agent named
// DefaultUserAgent backed by the crawler's fetcher.
func WithAgent(a skitter.Agent) Option {
	return func(c *Crawler) {
		c.agent = a
	}
}

// WithFilterer sets the filter chain applied to discovered URLs.
// Defaults to an empty chain that passes everything.
func WithFilterer(f skitter.Filterer) Option {
	return func(c *Crawler) {
		c.filterer = f
	}
}

// WithLinkExtractor sets the link extractor applied to fetched pages.
func WithLinkExtractor(e skitter.LinkExtractor) Option {
	return func(c *Crawler) {
		c.extractor = e
	}
}

// WithSitemapParser sets the parser for sitemaps discovered via robots.txt.
func WithSitemapParser(p skitter.SitemapParser) Option {
	return func(c *Crawler) {
		c.sitemaps = p
	}
}

// WithLogger sets the logger used for event dispatch and configuration
// warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler around the given fetcher.
func New(fetcher skitter.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:      fetcher,
		workers:      DefaultWorkers,
		limit:        DefaultLimit,
		frontier:     NewFrontier(),
		todo:         newQueue(),
		done:         make(map[string]string),
		acked:        make(map[string]struct{}),
		seenSitemaps: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.extractor == nil {
		c.extractor = &goquery.Extractor{}
	}
	if c.sitemaps == nil {
		c.sitemaps = &etree.Parser{}
	}
	if c.filterer == nil {
		c.filterer = filter.NewFilterer()
	}
	if c.agent == nil {
		c.agent = robotstxt.NewAgent(DefaultUserAgent, fetcher)
	}
	if c.limiter == nil {
		c.limiter = limit.NewPerDomain(nil)
	}
	c.events = skitter.NewEmitter(c.logger)

	return c
}

// Events returns the crawler's event emitter for subscribing handlers.
func (c *Crawler) Events() *skitter.Emitter {
	return c.events
}

// Run crawls from the given seed URLs until the frontier drains, the page
// limit stops producing work, or the context is canceled. It is safe to
// call Run again after it returns; the frontier carries over so already
// crawled URLs are not revisited.
func (c *Crawler) Run(ctx context.Context, seeds ...string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	todo := newQueue()
	c.mu.Lock()
	c.todo = todo
	c.cancel = cancel
	c.mu.Unlock()

	var urls []skitter.URL
	for _, seed := range seeds {
		u := skitter.ParseURL(seed)
		if u.Domain == "" {
			return skitter.Errorf(skitter.EINVALID, "seed %q is not an absolute URL", seed)
		}
		urls = append(urls, u)
	}
	c.OnFoundLinks(ctx, urls...)

	go func() {
		<-ctx.Done()
		todo.Close()
	}()
	go func() {
		todo.Join()
		todo.Close()
	}()

	g, gctx := errgroup.WithContext(ctx)
	for n := 0; n < c.workers; n++ {
		g.Go(func() error {
			for {
				u, ok := todo.Next()
				if !ok {
					return nil
				}
				c.crawlOne(gctx, u)
				todo.Done()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return context.Cause(ctx)
}

// Stop cancels a running crawl. Workers finish their current URL and exit.
func (c *Crawler) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Reset clears all crawl state so the crawler can be reused from scratch.
func (c *Crawler) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frontier.Reset()
	c.done = make(map[string]string)
	c.acked = make(map[string]struct{})
	c.seenSitemaps = make(map[string]struct{})
	c.total = 0
}

// Seen returns every URL the crawler has admitted, sorted.
func (c *Crawler) Seen() []skitter.URL {
	urls := c.frontier.All()
	slices.SortFunc(urls, skitter.URL.Compare)
	return urls
}

// Done returns the raw URLs that have finished processing, sorted.
func (c *Crawler) Done() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	urls := make([]string, 0, len(c.done))
	for raw := range c.done {
		urls = append(urls, raw)
	}
	slices.Sort(urls)
	return urls
}

// Fingerprint returns the content fingerprint recorded for a finished URL.
func (c *Crawler) Fingerprint(rawURL string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash, ok := c.done[rawURL]
	return hash, ok
}

// OnFoundLinks feeds discovered URLs into the crawl. Each URL is admitted
// at most once; new domains get their robots policy acknowledged before
// the URL is queued.
func (c *Crawler) OnFoundLinks(ctx context.Context, urls ...skitter.URL) {
	for _, u := range urls {
		if !c.frontier.Admit(u) {
			continue
		}
		c.acknowledge(ctx, u)
		c.events.Emit(skitter.Event{Type: skitter.EventURLFound, URL: u.Raw()})
		c.enqueue(u)
	}
}

// crawlOne processes a single URL. Failures never abort the crawl; the URL
// is marked done regardless so the scheduler keeps draining.
func (c *Crawler) crawlOne(ctx context.Context, u skitter.URL) {
	raw := u.Raw()
	var fingerprint string
	defer func() {
		c.mu.Lock()
		c.done[raw] = fingerprint
		c.mu.Unlock()
		c.events.Emit(skitter.Event{Type: skitter.EventDone, URL: raw, Hash: fingerprint})
	}()

	if err := c.limiter.Limit(ctx, raw); err != nil {
		c.events.Emit(skitter.Event{Type: skitter.EventError, URL: raw, Err: err})
		return
	}

	c.events.Emit(skitter.Event{Type: skitter.EventRequest, URL: raw})

	if !c.agent.CanAccess(u.Domain, u) {
		return
	}

	resp, err := c.fetcher.Fetch(ctx, raw)
	if err != nil {
		c.events.Emit(skitter.Event{Type: skitter.EventError, URL: raw, Err: err})
		return
	}
	c.events.Emit(skitter.Event{Type: skitter.EventResponse, URL: raw, Status: resp.StatusCode})
	fingerprint = fmt.Sprintf("%016x", xxhash.Sum64String(resp.Body))

	links, err := c.extractor.ExtractLinks(resp.FinalURL, resp.Body)
	if err != nil {
		c.events.Emit(skitter.Event{Type: skitter.EventError, URL: raw, Err: err})
		return
	}

	base := skitter.ParseURL(resp.FinalURL)
	c.OnFoundLinks(ctx, c.sift(base, links)...)
}

// sift resolves raw link strings against a base URL and runs them through
// the filter chain, dropping anything relative or rejected.
func (c *Crawler) sift(base skitter.URL, links []string) []skitter.URL {
	var urls []skitter.URL
	for _, link := range links {
		u := skitter.Resolve(base, link)
		if u.Domain == "" {
			continue
		}
		v, ok := c.filterer.Process(u)
		if !ok {
			continue
		}
		urls = append(urls, v)
	}
	return urls
}

// acknowledge performs the once-per-domain politeness handshake: fetch and
// cache the robots policy, ingest any sitemaps it advertises, and push the
// advertised delay or rate into the limiter.
func (c *Crawler) acknowledge(ctx context.Context, u skitter.URL) {
	c.mu.Lock()
	if _, ok := c.acked[u.Domain]; ok {
		c.mu.Unlock()
		return
	}
	c.acked[u.Domain] = struct{}{}
	c.mu.Unlock()

	scheme := u.Scheme
	if scheme == "" {
		scheme = "http"
	}
	c.agent.Respect(ctx, u.Domain, scheme+"://"+u.Domain+"/robots.txt")

	c.ingestSitemaps(ctx, c.agent.Sitemaps(u.Domain))

	cfg := skitter.LimiterConfig{Domain: u.Domain}
	if delay, ok := c.agent.CrawlDelay(u.Domain); ok {
		cfg.CrawlDelay = delay
	}
	if r, ok := c.agent.RequestRate(u.Domain); ok {
		cfg.Rate = &r
	}
	if err := c.limiter.Configure(cfg); err != nil {
		c.logger.Warn("rate limiter configuration rejected",
			"domain", u.Domain,
			"err", err,
		)
	}
}

// ingestSitemaps fetches and parses sitemaps concurrently, recursing into
// nested sitemap indexes. Each sitemap URL is fetched at most once per
// crawl no matter how many indexes reference it.
func (c *Crawler) ingestSitemaps(ctx context.Context, urls []string) {
	g, gctx := errgroup.WithContext(ctx)
	for _, rawURL := range urls {
		rawURL := rawURL
		if !c.markSitemap(rawURL) {
			continue
		}
		g.Go(func() error {
			c.ingestSitemap(gctx, rawURL)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Crawler) ingestSitemap(ctx context.Context, rawURL string) {
	resp, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		c.events.Emit(skitter.Event{Type: skitter.EventError, URL: rawURL, Err: err})
		return
	}

	sm, err := c.sitemaps.Parse(resp.Body)
	if err != nil {
		c.events.Emit(skitter.Event{Type: skitter.EventError, URL: rawURL, Err: err})
		return
	}

	c.ingestSitemaps(ctx, sm.Sitemaps)
	c.OnFoundLinks(ctx, c.sift(skitter.ParseURL(rawURL), sm.URLs)...)
}

func (c *Crawler) markSitemap(rawURL string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seenSitemaps[rawURL]; ok {
		return false
	}
	c.seenSitemaps[rawURL] = struct{}{}
	return true
}

// enqueue counts the URL against the crawl limit and pushes it to the work
// queue. The check happens before the increment, so a limit of 0 still
// admits the first URL.
func (c *Crawler) enqueue(u skitter.URL) {
	c.mu.Lock()
	if c.total > c.limit {
		c.mu.Unlock()
		return
	}
	c.total++
	todo := c.todo
	c.mu.Unlock()

	todo.Push(u)
}
