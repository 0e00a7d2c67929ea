package filter

import "github.com/skitterio/skitter"

// Compile-time interface verification.
var _ skitter.Filterer = (*Filterer)(nil)

// Filterer aggregates filters and applies them conjunctively to URLs.
// Each Filterer owns its own filter set; instances never share state.
type Filterer struct {
	filters []Filter
}

// NewFilterer creates a Filterer over the given filters. A Filterer with no
// filters passes every URL.
func NewFilterer(filters ...Filter) *Filterer {
	return &Filterer{filters: filters}
}

// NewFiltererFromRules creates a Filterer from declarative key/value rules
// (see New for the key grammar). Any invalid rule fails construction.
func NewFiltererFromRules(rules map[string]any) (*Filterer, error) {
	f := NewFilterer()
	for key, value := range rules {
		if err := f.AddRule(key, value); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Add registers additional filters.
func (f *Filterer) Add(filters ...Filter) {
	f.filters = append(f.filters, filters...)
}

// AddRule registers a filter built from a declarative key/value rule.
func (f *Filterer) AddRule(key string, value any) error {
	flt, err := New(key, value)
	if err != nil {
		return err
	}
	f.filters = append(f.filters, flt)
	return nil
}

// Process returns the URL unchanged and true if all registered filters
// pass, or false to signal rejection.
func (f *Filterer) Process(u skitter.URL) (skitter.URL, bool) {
	for _, flt := range f.filters {
		if !flt.Apply(u) {
			return skitter.URL{}, false
		}
	}
	return u, true
}
