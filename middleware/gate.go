package middleware

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notegate/core/cookie"
	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/gate"
	"github.com/dmitrymomot/notegate/identity"
)

// sessionContextKey is used as a key for storing the refreshed session in request context.
type sessionContextKey struct{}

// Gate runs credential refresh and the redirect policy in front of next.
//
// Static asset requests go straight to next. Otherwise the refreshed session is
// stored in the context (see GetSession), the cookie mutations are applied to the
// request before next runs, and the response carries the same mutations as
// Set-Cookie headers. A redirect decision answers without calling next.
func Gate[C handler.Context](g *gate.Gate) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			r := ctx.Request()
			if g.Skip(r) {
				return next(ctx)
			}

			res := g.Evaluate(ctx, gate.NewRequest(r))
			ctx.SetValue(sessionContextKey{}, res.Session)

			if res.Decision.IsRedirect() {
				return g.Compose(res, nil)
			}

			cookie.ApplyToRequest(ctx.Request(), res.Mutations)
			return g.Compose(res, next(ctx))
		}
	}
}

// GetSession returns the session resolved by the Gate middleware.
func GetSession(ctx context.Context) (identity.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(identity.Session)
	return sess, ok
}

// SessionExtractor adds the signed-in user to every log record made with the
// request context.
func SessionExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		sess, ok := GetSession(ctx)
		if !ok || !sess.IsAuthenticated() {
			return slog.Attr{}, false
		}
		return logger.UserID(sess.UserID), true
	}
}
