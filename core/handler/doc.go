// Package handler defines the request-processing contract shared by the router,
// the middleware and the gate.
//
// A handler receives a typed Context and returns a Response. Responses are plain
// functions that render onto an http.ResponseWriter, which keeps decision-making
// (inside the handler or middleware) apart from rendering (the returned Response):
//
//	type Response func(w http.ResponseWriter, r *http.Request) error
//	type HandlerFunc[C Context] func(ctx C) Response
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// Middleware may decide not to call next at all. The gate uses that to answer with
// a redirect without ever touching the upstream renderer:
//
//	func Deny[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				if ctx.Request().URL.Path == "/private" {
//					return response.RedirectTemporary("/")
//				}
//				return next(ctx)
//			}
//		}
//	}
package handler
