package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notegate/core/cookie"
	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/router"
	"github.com/dmitrymomot/notegate/gate"
	"github.com/dmitrymomot/notegate/identity"
	"github.com/dmitrymomot/notegate/middleware"
	"github.com/dmitrymomot/notegate/notes"
)

type stubRefresher struct {
	session   identity.Session
	mutations []cookie.Mutation
	calls     atomic.Int32
}

func (s *stubRefresher) Refresh(context.Context, map[string]string) (identity.Session, []cookie.Mutation) {
	s.calls.Add(1)
	return s.session, s.mutations
}

func newGateRouter(t *testing.T, refresher *stubRefresher, rendered *atomic.Int32, seen *http.Request) router.Router[*router.Context] {
	t.Helper()

	resolver, err := notes.NewResolver(notes.NewMemoryStore())
	require.NoError(t, err)
	g, err := gate.New(gate.DefaultConfig(), refresher, resolver)
	require.NoError(t, err)

	r := router.New[*router.Context]()
	r.Use(middleware.Gate[*router.Context](g))
	r.Handle("/", func(ctx *router.Context) handler.Response {
		rendered.Add(1)
		*seen = *ctx.Request()
		return func(w http.ResponseWriter, r *http.Request) error {
			_, err := w.Write([]byte("page"))
			return err
		}
	})
	return r
}

func TestGateMiddleware(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	authed := identity.Session{UserID: userID, CredentialsValid: true}
	cookies := cookie.New()
	rotated := []cookie.Mutation{
		cookies.Set("nb-access-token", "fresh-access"),
		cookies.Set("nb-refresh-token", "fresh-refresh"),
	}

	t.Run("redirect skips handler and keeps cookies", func(t *testing.T) {
		t.Parallel()

		var rendered atomic.Int32
		var seen http.Request
		r := newGateRouter(t, &stubRefresher{session: authed, mutations: rotated}, &rendered, &seen)

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: "nb-refresh-token", Value: "old"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Zero(t, rendered.Load())
		assert.Len(t, w.Result().Cookies(), 2)
	})

	t.Run("passthrough forwards refreshed cookies", func(t *testing.T) {
		t.Parallel()

		var rendered atomic.Int32
		var seen http.Request
		r := newGateRouter(t, &stubRefresher{session: authed, mutations: rotated}, &rendered, &seen)

		req := httptest.NewRequest(http.MethodGet, "/settings", nil)
		req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
		req.AddCookie(&http.Cookie{Name: "nb-refresh-token", Value: "old"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, rendered.Load())

		forwarded := cookie.Parse(seen.Header.Get("Cookie"))
		assert.Equal(t, "dark", forwarded["theme"])
		assert.Equal(t, "fresh-access", forwarded["nb-access-token"])
		assert.Equal(t, "fresh-refresh", forwarded["nb-refresh-token"])

		sess, ok := middleware.GetSession(seen.Context())
		require.True(t, ok)
		assert.Equal(t, userID, sess.UserID)

		got := map[string]string{}
		for _, c := range w.Result().Cookies() {
			got[c.Name] = c.Value
		}
		assert.Equal(t, map[string]string{
			"nb-access-token":  "fresh-access",
			"nb-refresh-token": "fresh-refresh",
		}, got)
	})

	t.Run("cleared cookies hidden from handler", func(t *testing.T) {
		t.Parallel()

		var rendered atomic.Int32
		var seen http.Request
		cleared := []cookie.Mutation{cookies.Delete("nb-access-token"), cookies.Delete("nb-refresh-token")}
		r := newGateRouter(t, &stubRefresher{mutations: cleared}, &rendered, &seen)

		req := httptest.NewRequest(http.MethodGet, "/?foo=bar", nil)
		req.AddCookie(&http.Cookie{Name: "nb-refresh-token", Value: "revoked"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, seen.Header.Get("Cookie"))
		assert.Equal(t, "foo=bar", seen.URL.RawQuery)
		for _, c := range w.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge)
		}
	})

	t.Run("root resolves note", func(t *testing.T) {
		t.Parallel()

		var rendered atomic.Int32
		var seen http.Request
		r := newGateRouter(t, &stubRefresher{session: authed}, &rendered, &seen)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?tab=2", nil))

		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Regexp(t, `^/\?tab=2&noteId=[0-9a-f-]{36}$`, w.Header().Get("Location"))
		assert.Zero(t, rendered.Load())
	})

	t.Run("static assets bypass", func(t *testing.T) {
		t.Parallel()

		var rendered atomic.Int32
		var seen http.Request
		refresher := &stubRefresher{session: authed, mutations: rotated}
		r := newGateRouter(t, refresher, &rendered, &seen)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/_next/static/chunk.js", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, refresher.calls.Load())
		assert.Empty(t, w.Result().Cookies())
		_, ok := middleware.GetSession(seen.Context())
		assert.False(t, ok)
	})
}
