package skitter

// Sitemap holds the contents of one parsed sitemap document: page URLs from
// a urlset, or nested sitemap URLs from a sitemapindex.
type Sitemap struct {
	URLs     []string
	Sitemaps []string
}

// SitemapParser parses sitemap XML documents (sitemaps.org/schemas/sitemap/0.9).
type SitemapParser interface {
	Parse(body string) (*Sitemap, error)
}
