// Package etree parses sitemap XML documents using github.com/beevik/etree.
package etree

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/skitterio/skitter"
)

// Namespace is the sitemap protocol namespace the parser accepts.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Compile-time interface verification.
var _ skitter.SitemapParser = Parser{}

// Parser parses sitemap documents: plain urlsets and sitemap indexes.
type Parser struct{}

// Parse implements skitter.SitemapParser. A <urlset> document yields page
// URLs; a <sitemapindex> document yields nested sitemap URLs for the caller
// to fetch. Anything else is EINVALID.
func (Parser) Parse(body string) (*skitter.Sitemap, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, skitter.Errorf(skitter.EINVALID, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, skitter.Errorf(skitter.EINVALID, "empty sitemap document")
	}

	switch root.Tag {
	case "urlset":
		return &skitter.Sitemap{URLs: locations(root, "url")}, nil
	case "sitemapindex":
		return &skitter.Sitemap{Sitemaps: locations(root, "sitemap")}, nil
	}
	return nil, skitter.Errorf(skitter.EINVALID, "unrecognized sitemap root element %q", root.Tag)
}

// locations collects the <loc> children of the named elements.
func locations(root *etree.Element, tag string) []string {
	var urls []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
