package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notegate/core/cookie"
)

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("set applies defaults and overrides", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecure(true), cookie.WithDomain("example.com"))
		mut := m.Set("token", "abc", cookie.WithMaxAge(60))

		assert.Equal(t, "token", mut.Name)
		assert.Equal(t, "abc", mut.Value)
		assert.Equal(t, "/", mut.Options.Path)
		assert.Equal(t, "example.com", mut.Options.Domain)
		assert.Equal(t, 60, mut.Options.MaxAge)
		assert.True(t, mut.Options.Secure)
		assert.True(t, mut.Options.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, mut.Options.SameSite)
		assert.False(t, mut.IsDeletion())
	})

	t.Run("delete expires cookie", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		mut := m.Delete("token")
		assert.True(t, mut.IsDeletion())

		w := httptest.NewRecorder()
		require.NoError(t, m.Write(w, mut))

		header := w.Header().Get("Set-Cookie")
		assert.Contains(t, header, "token=")
		assert.Contains(t, header, "Max-Age=0")
	})

	t.Run("write dedupes by name", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()
		require.NoError(t, m.Write(w, m.Set("a", "1"), m.Set("b", "2"), m.Set("a", "3")))

		headers := w.Header().Values("Set-Cookie")
		require.Len(t, headers, 2)
		assert.True(t, strings.HasPrefix(headers[0], "a=3"))
		assert.True(t, strings.HasPrefix(headers[1], "b=2"))
	})

	t.Run("oversized cookie writes nothing", func(t *testing.T) {
		t.Parallel()

		m := cookie.NewFromConfig(cookie.Config{Path: "/", HttpOnly: true, MaxSize: 64})
		w := httptest.NewRecorder()

		err := m.Write(w, m.Set("ok", "1"), m.Set("big", strings.Repeat("x", 100)))
		var tooLarge cookie.ErrCookieTooLarge
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, "big", tooLarge.Name)
		assert.Empty(t, w.Header().Values("Set-Cookie"))
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		err := m.Write(httptest.NewRecorder(), m.Set("bad name", "v"))
		assert.ErrorIs(t, err, cookie.ErrInvalidCookie)
	})

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "a", Value: "1"})

		v, err := m.Get(r, "a")
		require.NoError(t, err)
		assert.Equal(t, "1", v)

		_, err = m.Get(r, "missing")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	muts := []cookie.Mutation{
		{Name: "a", Value: "1", Options: cookie.Options{Path: "/"}},
		{Name: "a", Value: "2", Options: cookie.Options{Path: "/app"}},
		{Name: "a", Value: "3", Options: cookie.Options{Path: "/"}},
	}

	out := cookie.Dedupe(muts)
	require.Len(t, out, 2)
	assert.Equal(t, "3", out[0].Value)
	assert.Equal(t, "2", out[1].Value)
}

func TestParse(t *testing.T) {
	t.Parallel()

	got := cookie.Parse(`a=1; bad name=2; b="quoted"; =empty; a=dup; c=3`)
	assert.Equal(t, map[string]string{"a": "1", "b": "quoted", "c": "3"}, got)
	assert.Empty(t, cookie.Parse("   "))
}

func TestApplyToRequest(t *testing.T) {
	t.Parallel()

	t.Run("replaces, adds and removes", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", "keep=1; access=old; refresh=old")

		m := cookie.New()
		cookie.ApplyToRequest(r, []cookie.Mutation{
			m.Set("access", "new"),
			m.Delete("refresh"),
			m.Set("extra", "x"),
		})

		assert.Equal(t, "keep=1; access=new; extra=x", r.Header.Get("Cookie"))
		assert.Equal(t, map[string]string{"keep": "1", "access": "new", "extra": "x"}, cookie.FromRequest(r))
	})

	t.Run("no mutations leaves header untouched", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", "a=1;b=2")
		cookie.ApplyToRequest(r, nil)
		assert.Equal(t, "a=1;b=2", r.Header.Get("Cookie"))
	})

	t.Run("deleting the last cookie drops the header", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", "a=1")
		cookie.ApplyToRequest(r, []cookie.Mutation{cookie.New().Delete("a")})
		assert.Empty(t, r.Header.Values("Cookie"))
	})
}
