// Package goquery extracts outbound links from HTML documents using
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/skitterio/skitter"
)

// Compile-time interface verification.
var _ skitter.LinkExtractor = Extractor{}

// Extractor collects anchor hrefs from an HTML document. The returned links
// are raw strings exactly as they appear in the markup; the scheduler
// resolves them against the base URL.
type Extractor struct{}

// ExtractLinks implements skitter.LinkExtractor.
func (Extractor) ExtractLinks(baseURL, body string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, skitter.Errorf(skitter.EINVALID, "parsing HTML: %v", err)
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	return links, nil
}
