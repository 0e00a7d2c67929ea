// Package robotstxt implements the politeness subsystem on top of
// github.com/temoto/robotstxt: a robots.txt parser producing per-domain
// crawl policies, and an Agent storing one policy per acknowledged domain.
package robotstxt

import (
	"bufio"
	"strconv"
	"strings"
	"time"

	"github.com/skitterio/skitter"
	"github.com/temoto/robotstxt"
)

// Compile-time interface verification.
var _ skitter.RobotsParser = Parser{}

// Parser parses robots.txt documents. Allow/disallow rules and crawl delays
// come from the robotstxt library; Sitemap and Request-rate directives are
// scanned from the raw text, which the library does not expose.
type Parser struct{}

// Parse implements skitter.RobotsParser.
func (Parser) Parse(body string) (skitter.RobotsPolicy, error) {
	data, err := robotstxt.FromString(body)
	if err != nil {
		return nil, skitter.Errorf(skitter.EINVALID, "parsing robots.txt: %v", err)
	}

	sitemaps, rates := scanDirectives(body)

	return &policy{
		data:     data,
		sitemaps: sitemaps,
		rates:    rates,
	}, nil
}

// Permissive returns the policy recorded when a robots document cannot be
// fetched: no restrictions known.
func Permissive() skitter.RobotsPolicy {
	return permissive{}
}

// scanDirectives extracts Sitemap (global) and Request-rate (per user-agent
// group) directives from a robots.txt document.
func scanDirectives(body string) ([]string, map[string]skitter.RequestRate) {
	var sitemaps []string
	rates := make(map[string]skitter.RequestRate)

	// Agents named by the user-agent lines of the group being read.
	var agents []string
	inGroupHeader := false

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "sitemap":
			if value != "" {
				sitemaps = append(sitemaps, value)
			}
		case "user-agent":
			if !inGroupHeader {
				agents = nil
				inGroupHeader = true
			}
			agents = append(agents, strings.ToLower(value))
		case "request-rate":
			inGroupHeader = false
			if r, ok := parseRate(value); ok {
				for _, a := range agents {
					rates[a] = r
				}
			}
		default:
			inGroupHeader = false
		}
	}

	return sitemaps, rates
}

// parseRate parses a "requests/seconds" request-rate value.
func parseRate(value string) (skitter.RequestRate, bool) {
	reqs, secs, ok := strings.Cut(value, "/")
	if !ok {
		return skitter.RequestRate{}, false
	}
	r, err := strconv.Atoi(strings.TrimSpace(reqs))
	if err != nil || r <= 0 {
		return skitter.RequestRate{}, false
	}
	s, err := strconv.Atoi(strings.TrimSpace(secs))
	if err != nil || s <= 0 {
		return skitter.RequestRate{}, false
	}
	return skitter.RequestRate{Requests: r, Seconds: s}, true
}

var _ skitter.RobotsPolicy = (*policy)(nil)

type policy struct {
	data     *robotstxt.RobotsData
	sitemaps []string
	rates    map[string]skitter.RequestRate
}

func (p *policy) Allowed(userAgent, path string) bool {
	return p.data.FindGroup(userAgent).Test(path)
}

func (p *policy) CrawlDelay(userAgent string) (time.Duration, bool) {
	d := p.data.FindGroup(userAgent).CrawlDelay
	return d, d > 0
}

func (p *policy) RequestRate(userAgent string) (skitter.RequestRate, bool) {
	if r, ok := p.rates[strings.ToLower(userAgent)]; ok {
		return r, true
	}
	r, ok := p.rates["*"]
	return r, ok
}

func (p *policy) Sitemaps() []string {
	return p.sitemaps
}

var _ skitter.RobotsPolicy = permissive{}

// permissive is the "no restrictions known" policy.
type permissive struct{}

func (permissive) Allowed(userAgent, path string) bool               { return true }
func (permissive) CrawlDelay(userAgent string) (time.Duration, bool) { return 0, false }
func (permissive) RequestRate(userAgent string) (skitter.RequestRate, bool) {
	return skitter.RequestRate{}, false
}
func (permissive) Sitemaps() []string { return nil }
