package gate

import (
	"net/http"
	"net/url"

	"github.com/dmitrymomot/notegate/core/cookie"
)

// Request is an immutable snapshot of the parts of a request the gate reads.
type Request struct {
	Path     string
	RawQuery string
	Query    url.Values
	Cookies  map[string]string
}

// NewRequest snapshots r. Malformed cookies and query pairs are dropped.
func NewRequest(r *http.Request) Request {
	path := r.URL.Path
	if path == "" {
		path = "/"
	}
	query, _ := url.ParseQuery(r.URL.RawQuery)
	return Request{
		Path:     path,
		RawQuery: r.URL.RawQuery,
		Query:    query,
		Cookies:  cookie.FromRequest(r),
	}
}

// HasParam reports whether the first value of name is non-empty.
func (r Request) HasParam(name string) bool {
	return r.Query.Get(name) != ""
}
