package crawl_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skitterio/skitter"
	"github.com/skitterio/skitter/crawl"
	"github.com/skitterio/skitter/filter"
	"github.com/skitterio/skitter/limit"
	"github.com/skitterio/skitter/mock"
)

// site is an in-memory web served through a mock fetcher. Unknown URLs
// return an unavailable error, which leaves robots policies permissive.
type site struct {
	mu      sync.Mutex
	pages   map[string]string
	fetches map[string]int
}

func newSite(pages map[string]string) *site {
	return &site{
		pages:   pages,
		fetches: make(map[string]int),
	}
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, rawURL string) (*skitter.Response, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s.mu.Lock()
			s.fetches[rawURL]++
			body, ok := s.pages[rawURL]
			s.mu.Unlock()
			if !ok {
				return nil, skitter.Errorf(skitter.EUNAVAILABLE, "HTTP 404 for %s", rawURL)
			}
			return &skitter.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{},
				FinalURL:   rawURL,
				Body:       body,
			}, nil
		},
	}
}

func (s *site) count(rawURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[rawURL]
}

func TestCrawler_discovers_relative_and_absolute_links(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com": `<html><body>
			<a href="/a">relative</a>
			<a href="https://example.com/a">absolute duplicate</a>
			<a href="https://other.com/b">cross domain</a>
		</body></html>`,
		"https://example.com/a": `<html></html>`,
		"https://other.com/b":   `<html></html>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))
	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	assert.Equal(t, []skitter.URL{
		skitter.ParseURL("https://example.com"),
		skitter.ParseURL("https://example.com/a"),
		skitter.ParseURL("https://other.com/b"),
	}, c.Seen())

	// Both domains had their robots policies fetched exactly once.
	assert.Equal(t, 1, web.count("https://example.com/robots.txt"))
	assert.Equal(t, 1, web.count("https://other.com/robots.txt"))

	assert.Equal(t, []string{
		"https://example.com",
		"https://example.com/a",
		"https://other.com/b",
	}, c.Done())
}

func TestCrawler_fetches_each_URL_exactly_once(t *testing.T) {
	t.Parallel()

	// a and b link to each other; neither is ever fetched twice.
	web := newSite(map[string]string{
		"https://example.com/a": `<a href="/b">b</a>`,
		"https://example.com/b": `<a href="/a">a</a>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))
	require.NoError(t, c.Run(context.Background(), "https://example.com/a"))

	assert.Equal(t, 1, web.count("https://example.com/a"))
	assert.Equal(t, 1, web.count("https://example.com/b"))
}

func TestCrawler_limit_zero_still_crawls_the_seed(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com": `<a href="/a">a</a><a href="/b">b</a>`,
	})

	c := crawl.New(web.fetcher(),
		crawl.WithRateLimiter(&limit.NoLimit{}),
		crawl.WithLimit(0),
	)
	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	assert.Equal(t, []string{"https://example.com"}, c.Done())
	assert.Equal(t, 0, web.count("https://example.com/a"))
	assert.Equal(t, 0, web.count("https://example.com/b"))
}

func TestCrawler_one_failure_does_not_stop_the_crawl(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com":      `<a href="/bad">bad</a><a href="/good">good</a>`,
		"https://example.com/good": `<html></html>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))

	var mu sync.Mutex
	var failed []string
	c.Events().On(skitter.EventError, func(ev skitter.Event) {
		mu.Lock()
		failed = append(failed, ev.URL)
		mu.Unlock()
	})

	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	// The failed URL is marked done so the crawl drains, and the healthy
	// sibling still gets crawled.
	assert.Equal(t, []string{
		"https://example.com",
		"https://example.com/bad",
		"https://example.com/good",
	}, c.Done())
	assert.Equal(t, 1, web.count("https://example.com/good"))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, failed, "https://example.com/bad")
}

func TestCrawler_respects_robots_disallow(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com/robots.txt": "User-agent: *\nDisallow: /private/\n",
		"https://example.com":            `<a href="/private/x">secret</a><a href="/ok">ok</a>`,
		"https://example.com/ok":         `<html></html>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))
	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	assert.Equal(t, 0, web.count("https://example.com/private/x"))
	assert.Equal(t, 1, web.count("https://example.com/ok"))

	// Denied URLs still count as processed.
	assert.Contains(t, c.Done(), "https://example.com/private/x")
}

func TestCrawler_ingests_sitemaps_advertised_by_robots(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com/robots.txt": "User-agent: *\nSitemap: https://example.com/sitemap.xml\n",
		"https://example.com/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
			<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
				<url><loc>https://example.com/s1</loc></url>
				<url><loc>https://example.com/s2</loc></url>
			</urlset>`,
		"https://example.com":    `<html></html>`,
		"https://example.com/s1": `<html></html>`,
		"https://example.com/s2": `<html></html>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))
	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	assert.Equal(t, []string{
		"https://example.com",
		"https://example.com/s1",
		"https://example.com/s2",
	}, c.Done())
	assert.Equal(t, 1, web.count("https://example.com/sitemap.xml"))
}

func TestCrawler_filter_chain_rejects_URLs_before_enqueue(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com":   `<a href="/a">same</a><a href="https://other.com/b">other</a>`,
		"https://example.com/a": `<html></html>`,
	})

	f, err := filter.NewFiltererFromRules(map[string]any{
		"domain__in": "example.com",
	})
	require.NoError(t, err)

	c := crawl.New(web.fetcher(),
		crawl.WithRateLimiter(&limit.NoLimit{}),
		crawl.WithFilterer(f),
	)
	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	assert.Equal(t, []skitter.URL{
		skitter.ParseURL("https://example.com"),
		skitter.ParseURL("https://example.com/a"),
	}, c.Seen())
	assert.Equal(t, 0, web.count("https://other.com/b"))
	assert.Equal(t, 0, web.count("https://other.com/robots.txt"))
}

func TestCrawler_records_content_fingerprints(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com/a": `<html>same body</html>`,
		"https://example.com/b": `<html>same body</html>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))
	require.NoError(t, c.Run(context.Background(),
		"https://example.com/a", "https://example.com/b"))

	ha, ok := c.Fingerprint("https://example.com/a")
	require.True(t, ok)
	hb, ok := c.Fingerprint("https://example.com/b")
	require.True(t, ok)

	assert.Len(t, ha, 16)
	assert.Equal(t, ha, hb, "identical bodies must fingerprint identically")
}

func TestCrawler_rejects_relative_seeds(t *testing.T) {
	t.Parallel()

	c := crawl.New(newSite(nil).fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))

	err := c.Run(context.Background(), "/not/absolute")
	require.Error(t, err)
	assert.Equal(t, skitter.EINVALID, skitter.ErrorCode(err))
}

func TestCrawler_Stop_cancels_a_running_crawl(t *testing.T) {
	t.Parallel()

	blocking := &mock.Fetcher{
		FetchFn: func(ctx context.Context, rawURL string) (*skitter.Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	c := crawl.New(blocking, crawl.WithRateLimiter(&limit.NoLimit{}))

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Run(context.Background(), "https://example.com")
	}()

	time.Sleep(50 * time.Millisecond)
	c.Stop()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestCrawler_Reset_allows_recrawling(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com": `<html></html>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))
	require.NoError(t, c.Run(context.Background(), "https://example.com"))
	assert.Equal(t, 1, web.count("https://example.com"))

	// Without Reset a second run skips everything already seen.
	require.NoError(t, c.Run(context.Background(), "https://example.com"))
	assert.Equal(t, 1, web.count("https://example.com"))

	c.Reset()
	require.NoError(t, c.Run(context.Background(), "https://example.com"))
	assert.Equal(t, 2, web.count("https://example.com"))
}

func TestCrawler_configures_limiter_from_robots_directives(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com/robots.txt": "User-agent: *\nCrawl-delay: 3\n",
		"https://example.com":            `<html></html>`,
	})

	var mu sync.Mutex
	var cfgs []skitter.LimiterConfig
	limiter := &mock.RateLimiter{
		ConfigureFn: func(cfg skitter.LimiterConfig) error {
			mu.Lock()
			cfgs = append(cfgs, cfg)
			mu.Unlock()
			return nil
		},
	}

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(limiter))
	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, cfgs, 1)
	assert.Equal(t, "example.com", cfgs[0].Domain)
	assert.Equal(t, 3*time.Second, cfgs[0].CrawlDelay)
}

func TestCrawler_emits_request_response_done_events(t *testing.T) {
	t.Parallel()

	web := newSite(map[string]string{
		"https://example.com": `<html></html>`,
	})

	c := crawl.New(web.fetcher(), crawl.WithRateLimiter(&limit.NoLimit{}))

	var mu sync.Mutex
	var order []skitter.EventType
	record := func(ev skitter.Event) {
		mu.Lock()
		order = append(order, ev.Type)
		mu.Unlock()
	}
	c.Events().On(skitter.EventURLFound, record)
	c.Events().On(skitter.EventRequest, record)
	c.Events().On(skitter.EventResponse, record)
	c.Events().On(skitter.EventDone, record)

	require.NoError(t, c.Run(context.Background(), "https://example.com"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []skitter.EventType{
		skitter.EventURLFound,
		skitter.EventRequest,
		skitter.EventResponse,
		skitter.EventDone,
	}, order)
}
