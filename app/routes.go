package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/health"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/core/router"
	"github.com/dmitrymomot/notegate/integration/database/redis"
	"github.com/dmitrymomot/notegate/middleware"
	"github.com/dmitrymomot/notegate/upstream"
)

func (app *App) routes() {
	r := app.router

	r.Use(
		middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{Forward: true}),
		middleware.ClientIP[*router.Context](),
		middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
			Logger: app.logger,
			Skip:   isProbe,
		}),
	)

	r.Get("/live", health.Liveness[*router.Context])
	r.Get("/ready", health.Readiness[*router.Context](app.logger,
		health.Check{Name: "redis", Fn: redis.Healthcheck(app.redis)},
		app.storeCheck,
	))
	r.Get("/metrics", wrap(promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{Registry: app.registry})))

	r.With(middleware.Gate[*router.Context](app.gate)).
		Handle("/", upstream.Handler[*router.Context](app.proxy))
}

func isProbe(ctx handler.Context) bool {
	switch ctx.Request().URL.Path {
	case "/live", "/ready", "/metrics":
		return true
	}
	return false
}

func wrap(h http.Handler) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h.ServeHTTP(w, r)
			return nil
		}
	}
}

func requestExtractors() []logger.ContextExtractor {
	return []logger.ContextExtractor{
		middleware.RequestIDExtractor(),
		middleware.SessionExtractor(),
	}
}
