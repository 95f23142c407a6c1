package cookie

import (
	"net/http"
	"strings"
)

// Parse reads a Cookie header value into a name/value map. Malformed pairs are
// dropped and the first occurrence of a repeated name wins.
func Parse(header string) map[string]string {
	if strings.TrimSpace(header) == "" {
		return map[string]string{}
	}
	r := &http.Request{Header: http.Header{"Cookie": {header}}}
	return collect(r.Cookies())
}

// FromRequest returns the request cookies as a name/value map.
func FromRequest(r *http.Request) map[string]string {
	return collect(r.Cookies())
}

func collect(cookies []*http.Cookie) map[string]string {
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		if _, seen := out[c.Name]; !seen {
			out[c.Name] = c.Value
		}
	}
	return out
}

// ApplyToRequest rewrites the request's Cookie header so downstream handlers see
// the state the browser will have after muts are applied. Cookies that are not
// touched keep their original order.
func ApplyToRequest(r *http.Request, muts []Mutation) {
	if len(muts) == 0 {
		return
	}

	current := r.Cookies()
	values := make(map[string]string, len(current)+len(muts))
	order := make([]string, 0, len(current)+len(muts))
	for _, c := range current {
		if _, seen := values[c.Name]; seen {
			continue
		}
		values[c.Name] = c.Value
		order = append(order, c.Name)
	}

	for _, m := range Dedupe(muts) {
		if m.IsDeletion() {
			delete(values, m.Name)
			continue
		}
		if _, seen := values[m.Name]; !seen {
			order = append(order, m.Name)
		}
		values[m.Name] = m.Value
	}

	pairs := make([]string, 0, len(values))
	for _, name := range order {
		v, ok := values[name]
		if !ok {
			continue
		}
		pairs = append(pairs, (&http.Cookie{Name: name, Value: v}).String())
		delete(values, name)
	}

	r.Header.Del("Cookie")
	if len(pairs) > 0 {
		r.Header.Set("Cookie", strings.Join(pairs, "; "))
	}
}
