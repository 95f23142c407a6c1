package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/router"
	"github.com/dmitrymomot/notegate/middleware"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		trust   bool
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", true, "192.0.2.1:5555", nil, "192.0.2.1"},
		{"forwarded for first hop", true, "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"real ip", true, "10.0.0.1:80", map[string]string{"X-Real-IP": "2001:db8::1"}, "2001:db8::1"},
		{"invalid forwarded falls back", true, "10.0.0.1:80", map[string]string{"X-Forwarded-For": "garbage"}, "10.0.0.1"},
		{"headers ignored when untrusted", false, "192.0.2.9:1", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := router.New[*router.Context]()
			r.Use(middleware.ClientIPWithConfig[*router.Context](middleware.ClientIPConfig{TrustProxyHeaders: tt.trust}))

			var got string
			r.Get("/", func(ctx *router.Context) handler.Response {
				got, _ = middleware.GetClientIP(ctx)
				return ok()
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
