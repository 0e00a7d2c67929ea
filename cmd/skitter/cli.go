package main

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs []string `arg:"" name:"url" help:"Seed URLs to crawl."`

	Workers   int     `short:"w" default:"10" help:"Number of concurrent workers."`
	Limit     int     `short:"l" default:"25" help:"Maximum number of URLs to crawl."`
	UserAgent string  `name:"user-agent" default:"skitter" help:"User agent for requests and robots.txt matching."`
	Timeout   string  `default:"10s" help:"HTTP request timeout."`
	Delay     string  `short:"d" help:"Fixed per-domain delay between requests (e.g. 500ms). Defaults to 1s."`
	RPS       float64 `name:"rps" help:"Per-domain requests per second. Mutually exclusive with --delay."`
	Filter    []string `short:"F" name:"filter" help:"URL filter rule as key=value, e.g. domain__in=example.com (repeatable)."`
	Verbose   bool    `short:"v" help:"Log at debug level."`
}
