// Package filter provides composable boolean predicates over URLs.
//
// The variant set is closed: In, Matches, StartsWith, EndsWith and Contains
// test a single URL property, and the And/Not combinators compose them.
// Filters can also be built declaratively from "<property>__[i]<operator>"
// keys (see New), the syntax used by the CLI's --filter flag.
package filter

import (
	"regexp"
	"strings"

	"github.com/skitterio/skitter"
)

// Filter is a pure predicate over a URL. Applying a filter never mutates
// the URL.
type Filter interface {
	Apply(u skitter.URL) bool
}

// In passes when the property value is a member of a fixed set.
type In struct {
	property string
	members  map[string]struct{}
}

// NewIn creates an In filter over the named URL property.
func NewIn(property string, members ...string) (*In, error) {
	if err := validateProperty(property); err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return &In{property: property, members: set}, nil
}

// Apply implements Filter.
func (f *In) Apply(u skitter.URL) bool {
	v, _ := u.Property(f.property)
	_, ok := f.members[v]
	return ok
}

// Matches passes when the property value matches a regular expression
// anchored at the start of the value (a partial match from position 0,
// not a full match).
type Matches struct {
	property string
	re       *regexp.Regexp
}

// NewMatches creates a Matches filter over the named URL property.
func NewMatches(property, pattern string) (*Matches, error) {
	if err := validateProperty(property); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, skitter.Errorf(skitter.ECONFIG, "invalid filter pattern %q: %v", pattern, err)
	}
	return &Matches{property: property, re: re}, nil
}

// Apply implements Filter.
func (f *Matches) Apply(u skitter.URL) bool {
	v, _ := u.Property(f.property)
	return f.re.MatchString(v)
}

// text holds the shared state of the substring filters. When the filter is
// case-insensitive both the stored text and the property value are lowered
// before comparison.
type text struct {
	property      string
	text          string
	caseSensitive bool
}

func newText(property, s string, caseSensitive bool) (text, error) {
	if err := validateProperty(property); err != nil {
		return text{}, err
	}
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return text{property: property, text: s, caseSensitive: caseSensitive}, nil
}

func (t text) value(u skitter.URL) string {
	v, _ := u.Property(t.property)
	if !t.caseSensitive {
		v = strings.ToLower(v)
	}
	return v
}

// StartsWith passes when the property value starts with a fixed prefix.
type StartsWith struct{ text }

// NewStartsWith creates a StartsWith filter over the named URL property.
func NewStartsWith(property, prefix string, caseSensitive bool) (*StartsWith, error) {
	t, err := newText(property, prefix, caseSensitive)
	if err != nil {
		return nil, err
	}
	return &StartsWith{t}, nil
}

// Apply implements Filter.
func (f *StartsWith) Apply(u skitter.URL) bool {
	return strings.HasPrefix(f.value(u), f.text.text)
}

// EndsWith passes when the property value ends with a fixed suffix.
type EndsWith struct{ text }

// NewEndsWith creates an EndsWith filter over the named URL property.
func NewEndsWith(property, suffix string, caseSensitive bool) (*EndsWith, error) {
	t, err := newText(property, suffix, caseSensitive)
	if err != nil {
		return nil, err
	}
	return &EndsWith{t}, nil
}

// Apply implements Filter.
func (f *EndsWith) Apply(u skitter.URL) bool {
	return strings.HasSuffix(f.value(u), f.text.text)
}

// Contains passes when the property value contains a fixed substring.
type Contains struct{ text }

// NewContains creates a Contains filter over the named URL property.
func NewContains(property, substring string, caseSensitive bool) (*Contains, error) {
	t, err := newText(property, substring, caseSensitive)
	if err != nil {
		return nil, err
	}
	return &Contains{t}, nil
}

// Apply implements Filter.
func (f *Contains) Apply(u skitter.URL) bool {
	return strings.Contains(f.value(u), f.text.text)
}

// And conjoins filters. The conjunction flattens, so composition is
// associative: And(f, And(g, h)) and And(And(f, g), h) are the same filter.
func And(filters ...Filter) Filter {
	flat := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if a, ok := f.(and); ok {
			flat = append(flat, a.filters...)
			continue
		}
		flat = append(flat, f)
	}
	return and{filters: flat}
}

type and struct{ filters []Filter }

func (f and) Apply(u skitter.URL) bool {
	for _, g := range f.filters {
		if !g.Apply(u) {
			return false
		}
	}
	return true
}

// Not inverts a filter. Double negation unwraps to the original filter.
func Not(f Filter) Filter {
	if n, ok := f.(not); ok {
		return n.inner
	}
	return not{inner: f}
}

type not struct{ inner Filter }

func (f not) Apply(u skitter.URL) bool {
	return !f.inner.Apply(u)
}

func validateProperty(name string) error {
	for _, p := range skitter.ValidProperties {
		if name == p {
			return nil
		}
	}
	return skitter.Errorf(skitter.ECONFIG, "%q is not a valid URL property", name)
}
