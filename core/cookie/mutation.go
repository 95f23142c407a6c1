package cookie

import (
	"net/http"
	"strings"
)

// Mutation is a pending cookie write.
type Mutation struct {
	Name    string
	Value   string
	Options Options
}

// IsDeletion reports whether the mutation removes the cookie.
func (m Mutation) IsDeletion() bool {
	return m.Options.MaxAge < 0
}

// HTTPCookie converts the mutation into a Set-Cookie value.
func (m Mutation) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.Name,
		Value:    m.Value,
		Path:     m.Options.Path,
		Domain:   m.Options.Domain,
		MaxAge:   m.Options.MaxAge,
		Expires:  expiresFor(m.Options),
		Secure:   m.Options.Secure,
		HttpOnly: m.Options.HttpOnly,
		SameSite: m.Options.SameSite,
	}
}

// key identifies a cookie the way browsers do: name, path and domain.
func (m Mutation) key() string {
	return m.Name + "\x00" + m.Options.Path + "\x00" + strings.ToLower(m.Options.Domain)
}

// Dedupe keeps the last mutation for each cookie, in order of first appearance.
func Dedupe(muts []Mutation) []Mutation {
	if len(muts) < 2 {
		return muts
	}
	index := make(map[string]int, len(muts))
	out := make([]Mutation, 0, len(muts))
	for _, m := range muts {
		k := m.key()
		if i, ok := index[k]; ok {
			out[i] = m
			continue
		}
		index[k] = len(out)
		out = append(out, m)
	}
	return out
}
