// Package bloom provides a probabilistic membership filter used as the
// frontier's fast-path negative lookup during URL deduplication.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"

	"github.com/skitterio/skitter"
)

// Default sizing for a crawl of moderate scope. Callers with bigger
// frontiers should size the filter for their expected URL count.
const (
	DefaultCapacity = 100_000
	DefaultFPRate   = 0.01
)

// Filter answers "have we possibly seen this URL?" in constant time.
// A negative answer is definitive; a positive answer may be a false
// positive and must be confirmed against the authoritative seen set.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewDefaultFilter creates a filter with DefaultCapacity and DefaultFPRate.
func NewDefaultFilter() *Filter {
	return NewFilter(DefaultCapacity, DefaultFPRate)
}

// Add records a URL in the filter.
func (f *Filter) Add(u skitter.URL) {
	f.f.AddString(u.Raw())
}

// MaySee returns false only if the URL has definitely not been added.
func (f *Filter) MaySee(u skitter.URL) bool {
	return f.f.TestString(u.Raw())
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Reset clears the filter back to empty.
func (f *Filter) Reset() {
	f.f.ClearAll()
}
