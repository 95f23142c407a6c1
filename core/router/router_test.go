package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/router"
)

func text(s string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte(s))
		return err
	}
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return http.StatusText(e.code) }
func (e statusErr) StatusCode() int { return e.code }

func TestRouterImplementsHTTPHandler(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	var _ http.Handler = r

	assert.NotNil(t, r)
}

func TestNewRouter(t *testing.T) {
	t.Parallel()

	t.Run("creates router with default context", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		require.NotNil(t, r)

		var _ router.Routes = r
		assert.Empty(t, r.Routes())
	})

	t.Run("unmatched path goes through error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New[*router.Context](router.WithErrorHandler(func(ctx *router.Context, err error) {
			got = err
		}))

		req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.ErrorIs(t, got, router.ErrNotFound)
	})

	t.Run("custom context without factory panics", func(t *testing.T) {
		t.Parallel()

		type custom struct{ *router.Context }
		r := router.New[*custom]()
		r.Get("/", func(ctx *custom) handler.Response { return text("x") })

		assert.Panics(t, func() {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRouterHTTPMethods(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/res", func(ctx *router.Context) handler.Response { return text("get") })
	r.Post("/res", func(ctx *router.Context) handler.Response { return text("post") })
	r.Put("/res", func(ctx *router.Context) handler.Response { return text("put") })
	r.Delete("/res", func(ctx *router.Context) handler.Response { return text("delete") })
	r.Patch("/res", func(ctx *router.Context) handler.Response { return text("patch") })

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(method, "/res", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, strings.ToLower(method), w.Body.String())
		})
	}

	t.Run("method not allowed sets Allow header", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/only-get", func(ctx *router.Context) handler.Response { return text("ok") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/only-get", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Contains(t, w.Header().Get("Allow"), http.MethodGet)
	})

	t.Run("Method registers several verbs", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Method("/multi", func(ctx *router.Context) handler.Response { return text(ctx.Request().Method) }, "get", "post")

		for _, m := range []string{http.MethodGet, http.MethodPost} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(m, "/multi", nil))
			assert.Equal(t, m, w.Body.String())
		}
		assert.Panics(t, func() {
			r.Method("/bad", func(ctx *router.Context) handler.Response { return text("") }, "BREW")
		})
	})
}

func TestRouterParams(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/notes/{id}", func(ctx *router.Context) handler.Response {
		return text(ctx.Param("id"))
	})
	r.Get("/files/{path...}", func(ctx *router.Context) handler.Response {
		return text(ctx.Param("path"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/abc", nil))
	assert.Equal(t, "abc", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/a/b/c.txt", nil))
	assert.Equal(t, "a/b/c.txt", w.Body.String())

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.Route{Method: http.MethodGet, Pattern: "/notes/{id}"}, routes[0])
}

func TestRouterCatchAll(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/live", func(ctx *router.Context) handler.Response { return text("live") })
	r.Handle("/", func(ctx *router.Context) handler.Response { return text("proxy " + ctx.Request().URL.Path) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, "live", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/some/deep/path", nil))
	assert.Equal(t, "proxy /some/deep/path", w.Body.String())
}

func TestRouterMiddleware(t *testing.T) {
	t.Parallel()

	trace := func(name string, order *[]string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				*order = append(*order, name)
				return next(ctx)
			}
		}
	}

	t.Run("global then inline in registration order", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.Use(trace("global", &order))
		r.With(trace("inline", &order)).Get("/a", func(ctx *router.Context) handler.Response {
			order = append(order, "handler")
			return text("a")
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/a", nil))
		assert.Equal(t, []string{"global", "inline", "handler"}, order)
	})

	t.Run("group middleware does not leak", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.Group(func(g router.Router[*router.Context]) {
			g.Use(trace("group", &order))
			g.Get("/in", func(ctx *router.Context) handler.Response { return text("in") })
		})
		r.Get("/out", func(ctx *router.Context) handler.Response { return text("out") })

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/out", nil))
		assert.Empty(t, order)

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/in", nil))
		assert.Equal(t, []string{"group"}, order)
	})

	t.Run("Use after routes panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response { return text("") })
		assert.PanicsWithValue(t, router.ErrLateMiddleware, func() {
			r.Use(trace("late", new([]string)))
		})
	})

	t.Run("SetValue is visible to the response", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		r := router.New[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				ctx.SetValue(key{}, "v")
				return next(ctx)
			}
		})
		r.Get("/", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				_, err := w.Write([]byte(req.Context().Value(key{}).(string)))
				return err
			}
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "v", w.Body.String())
	})
}

func TestRouterErrors(t *testing.T) {
	t.Parallel()

	t.Run("status code errors", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/teapot", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				return statusErr{code: http.StatusTeapot}
			}
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("internal errors hide details", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				return errors.New("db password leaked")
			}
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New[*router.Context](router.WithErrorHandler(func(ctx *router.Context, err error) {
			got = err
		}))
		r.Get("/nil", func(ctx *router.Context) handler.Response { return nil })

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nil", nil))
		assert.ErrorIs(t, got, router.ErrNilResponse)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New[*router.Context](router.WithErrorHandler(func(ctx *router.Context, err error) {
			got = err
		}))
		r.Get("/panic", func(ctx *router.Context) handler.Response { panic("kaboom") })

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panic", nil))

		var pe router.PanicError
		require.ErrorAs(t, got, &pe)
		assert.Equal(t, "kaboom", pe.Value())
		assert.NotEmpty(t, pe.Stack())
	})
}
