package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/logger"
)

type statusCode interface {
	StatusCode() int
}

// convertToHTTPError converts any error to an HTTPError
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = ErrInternalServerError
	}
	return baseErr.WithError(err)
}

// ErrorHandler is the default error handler that returns plain text errors.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := convertToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// LoggingErrorHandler wraps next and logs server-side failures before rendering.
func LoggingErrorHandler[C handler.Context](log *slog.Logger, next handler.ErrorHandler[C]) handler.ErrorHandler[C] {
	return func(ctx C, err error) {
		if httpErr := convertToHTTPError(err); httpErr.Status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "request failed",
				logger.Error(err),
				logger.Path(ctx.Request().URL.Path),
				logger.Method(ctx.Request().Method),
				logger.StatusCode(httpErr.Status),
			)
		}
		next(ctx, err)
	}
}
