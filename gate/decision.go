package gate

import (
	"net/url"
	"strings"
)

// Decision is the single routing outcome of a request: pass through or redirect.
// The zero value passes through.
type Decision struct {
	redirect      bool
	target        string
	preserveQuery bool
	params        []param
}

type param struct {
	name  string
	value string
}

// Passthrough lets the request reach the renderer unchanged.
func Passthrough() Decision {
	return Decision{}
}

// RedirectTo redirects to target. With preserveQuery the incoming query string is
// carried over.
func RedirectTo(target string, preserveQuery bool) Decision {
	return Decision{redirect: true, target: target, preserveQuery: preserveQuery}
}

// WithParam sets a query parameter on the redirect target, replacing any value
// carried over from the request. It has no effect on Passthrough.
func (d Decision) WithParam(name, value string) Decision {
	if !d.redirect {
		return d
	}
	params := make([]param, 0, len(d.params)+1)
	for _, p := range d.params {
		if p.name != name {
			params = append(params, p)
		}
	}
	d.params = append(params, param{name: name, value: value})
	return d
}

// IsRedirect reports whether the decision redirects.
func (d Decision) IsRedirect() bool {
	return d.redirect
}

// Target returns the redirect path.
func (d Decision) Target() string {
	return d.target
}

// PreserveQuery reports whether the incoming query is carried over.
func (d Decision) PreserveQuery() bool {
	return d.preserveQuery
}

// Param returns the value set by WithParam.
func (d Decision) Param(name string) (string, bool) {
	for _, p := range d.params {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

func (d Decision) String() string {
	if d.redirect {
		return "redirect"
	}
	return "passthrough"
}

// Location renders the redirect URL for req. Carried-over query pairs keep their
// original encoding and order; only parameters set through WithParam change.
// When base is set the result is absolute against it.
func (d Decision) Location(req Request, base *url.URL) string {
	if !d.redirect {
		return ""
	}
	u := &url.URL{Path: d.target, RawQuery: d.rawQuery(req)}
	if base != nil {
		return base.ResolveReference(u).String()
	}
	return u.String()
}

func (d Decision) rawQuery(req Request) string {
	var pairs []string
	if d.preserveQuery && req.RawQuery != "" {
		for _, pair := range strings.Split(req.RawQuery, "&") {
			if pair == "" || d.overrides(queryKey(pair)) {
				continue
			}
			pairs = append(pairs, pair)
		}
	}
	for _, p := range d.params {
		pairs = append(pairs, url.QueryEscape(p.name)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(pairs, "&")
}

func (d Decision) overrides(key string) bool {
	for _, p := range d.params {
		if p.name == key {
			return true
		}
	}
	return false
}

func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	if unescaped, err := url.QueryUnescape(key); err == nil {
		return unescaped
	}
	return key
}

// leadsTo reports whether following d from req lands on the same path and query.
func (d Decision) leadsTo(req Request) bool {
	if !d.redirect {
		return false
	}
	return d.target == req.Path && d.rawQuery(req) == req.RawQuery
}
