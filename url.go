package skitter

import (
	"net/url"
	"path"
	"strings"
)

// URL is the parsed, canonical identity of a URL. It is an immutable value
// type: two URLs are equal when all component fields are equal, and a URL is
// usable as a map key.
type URL struct {
	Scheme   string
	Domain   string
	Path     string
	Params   string
	Query    string
	Fragment string
}

// ValidProperties lists the URL property names recognized by declarative
// filter rules.
var ValidProperties = []string{
	"scheme", "domain", "path", "params", "query", "fragment", "filetype", "raw",
}

// ParseURL splits a raw URL string into its components.
//
// Parsing is lenient: input that cannot be parsed at all yields a URL with
// every component empty rather than an error. Callers that need a usable
// domain must check for one explicitly.
func ParseURL(raw string) URL {
	u, err := url.Parse(raw)
	if err != nil {
		return URL{}
	}

	p, params := splitParams(u.Path)

	return URL{
		Scheme:   u.Scheme,
		Domain:   u.Host,
		Path:     p,
		Params:   params,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
	}
}

// Resolve resolves a possibly-relative URL reference against a base URL,
// following RFC 3986 section 5. The fragment of the result is stripped so
// that URLs differing only by fragment share one identity.
func Resolve(base URL, ref string) URL {
	b, err := url.Parse(base.Raw())
	if err != nil {
		return ParseURL(ref)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return URL{}
	}

	resolved := b.ResolveReference(r)
	resolved.Fragment = ""
	return ParseURL(resolved.String())
}

// Raw reassembles the canonical string form of the URL. The result is
// deterministic given the components, and re-parsing it yields an equal URL.
func (u URL) Raw() string {
	s := u.Path
	if u.Params != "" {
		s += ";" + u.Params
	}
	if u.Domain != "" || strings.HasPrefix(s, "//") {
		if s != "" && !strings.HasPrefix(s, "/") {
			s = "/" + s
		}
		s = "//" + u.Domain + s
	}
	if u.Scheme != "" {
		s = u.Scheme + ":" + s
	}
	if u.Query != "" {
		s += "?" + u.Query
	}
	if u.Fragment != "" {
		s += "#" + u.Fragment
	}
	return s
}

// Filetype returns the suffix of the path without the leading dot, e.g.
// "html" for "/index.html". Empty when the path has no suffix.
func (u URL) Filetype() string {
	return strings.TrimPrefix(path.Ext(u.Path), ".")
}

// Property returns the named URL property value. The second result is false
// when the name is not one of ValidProperties.
func (u URL) Property(name string) (string, bool) {
	switch name {
	case "scheme":
		return u.Scheme, true
	case "domain":
		return u.Domain, true
	case "path":
		return u.Path, true
	case "params":
		return u.Params, true
	case "query":
		return u.Query, true
	case "fragment":
		return u.Fragment, true
	case "filetype":
		return u.Filetype(), true
	case "raw":
		return u.Raw(), true
	}
	return "", false
}

// Compare orders URLs lexicographically by their canonical string form,
// for deterministic output.
func (u URL) Compare(v URL) int {
	return strings.Compare(u.Raw(), v.Raw())
}

// splitParams separates path parameters (the part after ";" in the last path
// segment) from the path itself.
func splitParams(p string) (string, string) {
	start := 0
	if i := strings.LastIndex(p, "/"); i >= 0 {
		start = i
	}
	j := strings.Index(p[start:], ";")
	if j < 0 {
		return p, ""
	}
	j += start
	return p[:j], p[j+1:]
}
