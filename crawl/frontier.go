package crawl

import (
	"sync"

	"github.com/skitterio/skitter"
	"github.com/skitterio/skitter/bloom"
)

// Frontier tracks every URL the crawler has ever admitted. A Bloom filter
// answers the common "never seen" case without touching the authoritative
// set; positives are confirmed against the set so admission is exact.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu   sync.Mutex
	fast *bloom.Filter
	seen map[skitter.URL]struct{}
}

// NewFrontier creates an empty Frontier with default Bloom filter sizing.
func NewFrontier() *Frontier {
	return &Frontier{
		fast: bloom.NewDefaultFilter(),
		seen: make(map[skitter.URL]struct{}),
	}
}

// Admit marks the URL as seen and reports whether it was new. Checking and
// marking happen under one lock so concurrent workers racing on the same
// URL admit it exactly once.
func (f *Frontier) Admit(u skitter.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fast.MaySee(u) {
		if _, ok := f.seen[u]; ok {
			return false
		}
	}
	f.fast.Add(u)
	f.seen[u] = struct{}{}
	return true
}

// Seen reports whether the URL has been admitted.
func (f *Frontier) Seen(u skitter.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.fast.MaySee(u) {
		return false
	}
	_, ok := f.seen[u]
	return ok
}

// Len returns the number of admitted URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

// All returns the admitted URLs in no particular order.
func (f *Frontier) All() []skitter.URL {
	f.mu.Lock()
	defer f.mu.Unlock()

	urls := make([]skitter.URL, 0, len(f.seen))
	for u := range f.seen {
		urls = append(urls, u)
	}
	return urls
}

// Reset clears the frontier.
func (f *Frontier) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fast.Reset()
	f.seen = make(map[skitter.URL]struct{})
}
