package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/core/response"
	"github.com/dmitrymomot/notegate/core/router"
	"github.com/dmitrymomot/notegate/middleware"
)

func logRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogging(t *testing.T) {
	t.Parallel()

	newRouter := func(buf *bytes.Buffer, cfg middleware.LoggingConfig) router.Router[*router.Context] {
		cfg.Logger = logger.New(logger.WithOutput(buf), logger.WithJSONFormatter(), logger.WithLevel(slog.LevelDebug))
		r := router.New[*router.Context]()
		r.Use(
			middleware.ClientIP[*router.Context](),
			middleware.LoggingWithConfig[*router.Context](cfg),
		)
		r.Get("/ok", func(ctx *router.Context) handler.Response {
			return response.String("hello")
		})
		r.Get("/redirect", func(ctx *router.Context) handler.Response {
			return response.RedirectTemporary("/?noteId=n1")
		})
		r.Get("/fail", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				return errors.New("boom")
			}
		})
		r.Get("/slow", func(ctx *router.Context) handler.Response {
			time.Sleep(20 * time.Millisecond)
			return response.NoContent()
		})
		return r
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newRouter(&buf, middleware.LoggingConfig{})
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.RemoteAddr = "192.0.2.4:1000"
		r.ServeHTTP(httptest.NewRecorder(), req)

		rec := logRecord(t, &buf)
		assert.Equal(t, "INFO", rec["level"])
		assert.Equal(t, "HTTP request completed", rec["msg"])
		assert.Equal(t, "/ok", rec["path"])
		assert.EqualValues(t, http.StatusOK, rec["status_code"])
		assert.EqualValues(t, 5, rec["bytes_out"])
		assert.Equal(t, "192.0.2.4", rec["client_ip"])
	})

	t.Run("redirect location", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newRouter(&buf, middleware.LoggingConfig{})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/redirect", nil))

		rec := logRecord(t, &buf)
		assert.EqualValues(t, http.StatusTemporaryRedirect, rec["status_code"])
		assert.Equal(t, "/?noteId=n1", rec["location"])
	})

	t.Run("render error logs at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newRouter(&buf, middleware.LoggingConfig{})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

		rec := logRecord(t, &buf)
		assert.Equal(t, "ERROR", rec["level"])
		assert.Equal(t, "boom", rec["error"])
	})

	t.Run("slow request", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newRouter(&buf, middleware.LoggingConfig{SlowRequestThreshold: time.Millisecond})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

		rec := logRecord(t, &buf)
		assert.Equal(t, "WARN", rec["level"])
		assert.Equal(t, true, rec["slow_request"])
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newRouter(&buf, middleware.LoggingConfig{
			Skip: func(ctx handler.Context) bool { return ctx.Request().URL.Path == "/ok" },
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Zero(t, buf.Len())
	})
}
