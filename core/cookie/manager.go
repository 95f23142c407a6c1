package cookie

import (
	"errors"
	"net/http"
	"time"
)

// MaxCookieSize is the maximum size for a cookie (4KB).
const MaxCookieSize = 4096

// Manager stamps mutations with default attributes and writes them to responses.
type Manager struct {
	defaults Options
	maxSize  int
}

// New creates a manager. Defaults are Path "/", HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}
}

// Defaults returns the attributes applied to every mutation.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Set returns a mutation storing value under name.
func (m *Manager) Set(name, value string, opts ...Option) Mutation {
	return Mutation{Name: name, Value: value, Options: applyOptions(m.defaults, opts)}
}

// Delete returns a mutation that expires name in the browser.
func (m *Manager) Delete(name string, opts ...Option) Mutation {
	o := applyOptions(m.defaults, opts)
	o.MaxAge = -1
	return Mutation{Name: name, Options: o}
}

// Get retrieves a cookie value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Validate checks every mutation against the size limit and cookie syntax.
func (m *Manager) Validate(muts ...Mutation) error {
	for _, mut := range muts {
		c := mut.HTTPCookie()
		if err := c.Valid(); err != nil {
			return errors.Join(ErrInvalidCookie, err)
		}
		if size := len(c.String()); size > m.maxSize {
			return ErrCookieTooLarge{Name: mut.Name, Size: size, Max: m.maxSize}
		}
	}
	return nil
}

// Write dedupes muts and emits one Set-Cookie header per cookie.
// Nothing is written when any mutation is invalid.
func (m *Manager) Write(w http.ResponseWriter, muts ...Mutation) error {
	muts = Dedupe(muts)
	if err := m.Validate(muts...); err != nil {
		return err
	}
	for _, mut := range muts {
		http.SetCookie(w, mut.HTTPCookie())
	}
	return nil
}

func expiresFor(o Options) time.Time {
	if o.MaxAge < 0 {
		return time.Unix(0, 0)
	}
	return time.Time{}
}
