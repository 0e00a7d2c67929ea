// Command skitter crawls the web from a set of seed URLs, honoring
// robots.txt permissions and per-domain rate limits, and prints every URL
// it discovered.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/skitterio/skitter"
	"github.com/skitterio/skitter/crawl"
	"github.com/skitterio/skitter/filter"
	skitterhttp "github.com/skitterio/skitter/http"
	"github.com/skitterio/skitter/limit"
	"github.com/skitterio/skitter/robotstxt"
	skitterslog "github.com/skitterio/skitter/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("skitter"),
		kong.Description("A polite, filtering web crawler."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	return m.crawl(ctx, cli, stdout, stderr)
}

func (m *Main) crawl(ctx context.Context, cli *CLI, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	timeout, err := time.ParseDuration(cli.Timeout)
	if err != nil {
		return skitter.Errorf(skitter.ECONFIG, "invalid timeout %q: %v", cli.Timeout, err)
	}

	limiter, err := buildLimiter(cli)
	if err != nil {
		return err
	}

	filterer, err := buildFilterer(cli.Filter)
	if err != nil {
		return err
	}

	fetcher := skitterhttp.NewFetcher(
		skitterhttp.WithTimeout(timeout),
		skitterhttp.WithUserAgent(cli.UserAgent),
	)
	defer fetcher.Close()

	c := crawl.New(fetcher,
		crawl.WithWorkers(cli.Workers),
		crawl.WithLimit(cli.Limit),
		crawl.WithRateLimiter(limiter),
		crawl.WithFilterer(filterer),
		crawl.WithAgent(robotstxt.NewAgent(cli.UserAgent, fetcher)),
		crawl.WithLogger(logger),
	)
	skitterslog.NewObserver(logger).Register(c.Events())

	seeds := make([]string, 0, len(cli.URLs))
	for _, raw := range cli.URLs {
		seeds = append(seeds, normalizeSeed(raw))
	}

	begin := time.Now()
	if err := c.Run(ctx, seeds...); err != nil && ctx.Err() == nil {
		return err
	}

	for _, u := range c.Seen() {
		fmt.Fprintln(stdout, u.Raw())
	}
	fmt.Fprintf(stdout, "\nCrawled %d of %d found URLs in %s\n",
		len(c.Done()), len(c.Seen()), time.Since(begin).Round(time.Millisecond))
	return nil
}

// buildLimiter picks the per-domain limiter factory from the flags.
// A fixed delay and a token bucket rate are mutually exclusive.
func buildLimiter(cli *CLI) (skitter.RateLimiter, error) {
	if cli.Delay != "" && cli.RPS != 0 {
		return nil, skitter.Errorf(skitter.ECONFIG, "--delay and --rps are mutually exclusive")
	}

	if cli.RPS != 0 {
		rps := cli.RPS
		var factory limit.Factory = func() skitter.RateLimiter {
			tb, err := limit.NewTokenBucket(rps)
			if err != nil {
				return &limit.NoLimit{}
			}
			return tb
		}
		if _, err := limit.NewTokenBucket(rps); err != nil {
			return nil, err
		}
		return limit.NewPerDomain(factory), nil
	}

	if cli.Delay != "" {
		delay, err := time.ParseDuration(cli.Delay)
		if err != nil {
			return nil, skitter.Errorf(skitter.ECONFIG, "invalid delay %q: %v", cli.Delay, err)
		}
		if _, err := limit.NewStatic(delay); err != nil {
			return nil, err
		}
		return limit.NewPerDomain(func() skitter.RateLimiter {
			s, _ := limit.NewStatic(delay)
			return s
		}), nil
	}

	return limit.NewPerDomain(nil), nil
}

// buildFilterer parses key=value rules into a filter chain.
func buildFilterer(rules []string) (*filter.Filterer, error) {
	parsed := make(map[string]any, len(rules))
	for _, rule := range rules {
		key, value, ok := strings.Cut(rule, "=")
		if !ok {
			return nil, skitter.Errorf(skitter.ECONFIG, "filter rule %q is not key=value", rule)
		}
		parsed[key] = value
	}
	return filter.NewFiltererFromRules(parsed)
}

// normalizeSeed defaults schemeless seeds to http.
func normalizeSeed(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "http://" + raw
}
