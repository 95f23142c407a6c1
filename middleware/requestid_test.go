package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/core/router"
	"github.com/dmitrymomot/notegate/middleware"
)

func ok() handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func TestRequestIDDefaultConfiguration(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.RequestID[*router.Context]())

	var capturedID string
	r.Get("/test", func(ctx *router.Context) handler.Response {
		id, found := middleware.GetRequestID(ctx)
		assert.True(t, found, "Request ID should be present in context")
		capturedID = id
		return ok()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, capturedID, 36, "Default ID should be UUID v4 format")
	assert.Equal(t, capturedID, w.Header().Get("X-Request-ID"))
}

func TestRequestIDWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("custom generator and header", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			Generator:  func() string { return "custom-123" },
			HeaderName: "X-Trace-ID",
		}))
		r.Get("/test", func(ctx *router.Context) handler.Response { return ok() })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, "custom-123", w.Header().Get("X-Trace-ID"))
		assert.Empty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("existing id reused and forwarded", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			UseExisting: true,
			Forward:     true,
		}))

		var forwarded string
		r.Get("/test", func(ctx *router.Context) handler.Response {
			forwarded = ctx.Request().Header.Get("X-Request-ID")
			return ok()
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "from-proxy")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "from-proxy", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "from-proxy", forwarded)
	})

	t.Run("existing id ignored by default", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestID[*router.Context]())
		r.Get("/test", func(ctx *router.Context) handler.Response { return ok() })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "from-client")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "from-client", w.Header().Get("X-Request-ID"))
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			Skip: func(ctx handler.Context) bool { return ctx.Request().URL.Path == "/live" },
		}))
		r.Get("/live", func(ctx *router.Context) handler.Response {
			_, found := middleware.GetRequestID(ctx)
			assert.False(t, found)
			return ok()
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
		assert.Empty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(middleware.RequestIDExtractor()),
	)

	r := router.New[*router.Context]()
	r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		Generator: func() string { return "req-1" },
	}))
	r.Get("/test", func(ctx *router.Context) handler.Response {
		log.InfoContext(ctx, "inside handler")
		return ok()
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Contains(t, buf.String(), "request_id=req-1")
}
