package filter

import (
	"regexp"
	"strings"

	"github.com/skitterio/skitter"
)

// New builds a filter from a declarative key and value.
//
// The key grammar is "<property>__[i]<operator>" where <property> is one of
// skitter.ValidProperties and <operator> is one of in, matches, startswith,
// endswith or contains. The optional "i" prefix makes the substring
// operators case-insensitive. Value types depend on the operator: a string
// slice (or a single string) for in, a pattern string or *regexp.Regexp for
// matches, and a string for the substring operators.
//
// Invalid properties, operators or value types are ECONFIG errors, raised
// here so misconfiguration surfaces at construction time rather than
// mid-crawl.
func New(key string, value any) (Filter, error) {
	property, op, ok := strings.Cut(key, "__")
	if !ok {
		return nil, skitter.Errorf(skitter.ECONFIG, "%q is not a valid filter key", key)
	}

	switch op {
	case "in":
		members, err := stringSlice(key, value)
		if err != nil {
			return nil, err
		}
		return NewIn(property, members...)
	case "matches":
		switch v := value.(type) {
		case string:
			return NewMatches(property, v)
		case *regexp.Regexp:
			return NewMatches(property, v.String())
		}
		return nil, skitter.Errorf(skitter.ECONFIG, "filter %q requires a pattern value", key)
	case "startswith", "istartswith", "endswith", "iendswith", "contains", "icontains":
		s, ok := value.(string)
		if !ok {
			return nil, skitter.Errorf(skitter.ECONFIG, "filter %q requires a string value", key)
		}
		caseSensitive := !strings.HasPrefix(op, "i")
		switch strings.TrimPrefix(op, "i") {
		case "startswith":
			return NewStartsWith(property, s, caseSensitive)
		case "endswith":
			return NewEndsWith(property, s, caseSensitive)
		default:
			return NewContains(property, s, caseSensitive)
		}
	}
	return nil, skitter.Errorf(skitter.ECONFIG, "%q is not a valid filter operator", op)
}

func stringSlice(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	}
	return nil, skitter.Errorf(skitter.ECONFIG, "filter %q requires string values", key)
}
