// Package skitter provides a polite, extensible web crawler core: given a
// set of seed URLs it concurrently fetches pages, extracts outbound links,
// filters and deduplicates them, respects per-domain crawl policy (robots
// directives, crawl delays, sitemaps), and bounds total work.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., robotstxt/, goquery/, etree/) or
// after the concern they implement (filter/, limit/, crawl/).
package skitter
