package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/core/response"
)

const checkTimeout = 2 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Report is the readiness response body.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Readiness verifies all service dependencies are functioning.
// Returns 200 with status "ready" if all checks pass, 503 otherwise.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		results := make([]error, len(checks))

		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()

		var g errgroup.Group
		for i, c := range checks {
			g.Go(func() error {
				results[i] = c.Fn(cctx)
				return nil
			})
		}
		_ = g.Wait()

		report := Report{Status: "ready", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for i, c := range checks {
			if err := results[i]; err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Component(c.Name), logger.Error(err))
				report.Checks[c.Name] = "unavailable"
				report.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			report.Checks[c.Name] = "ok"
		}

		return response.JSONWithStatus(report, status)
	}
}
