// Package router provides a generic HTTP router with middleware support and
// custom request contexts, built on the pattern matching of net/http.ServeMux.
//
// Routes use ServeMux patterns, so path wildcards are available through
// Context.Param:
//
//	r := router.New[*router.Context]()
//	r.Get("/live", health.Liveness[*router.Context])
//	r.Get("/notes/{id}", func(ctx *router.Context) handler.Response {
//		return response.String(ctx.Param("id"))
//	})
//	r.Handle("/", proxyHandler) // catch-all, any method
//
// # Middleware
//
// Middleware registered with Use runs for every matched route, in registration
// order. It must be registered before any route on the same router:
//
//	r.Use(middleware.RequestID[*router.Context](), middleware.Logging[*router.Context]())
//
// With and Group create inline routers that share the routing table but add their
// own middleware to the routes registered through them:
//
//	r.Group(func(app router.Router[*router.Context]) {
//		app.Use(middleware.Gate[*router.Context](g))
//		app.Handle("/", upstream.Handler[*router.Context](proxy))
//	})
//
// # Custom Contexts
//
// Any type implementing handler.Context can be used. Routers for types other than
// *router.Context need a factory:
//
//	r := router.New[*AppContext](router.WithContextFactory(newAppContext))
//
// # Errors
//
// Errors returned by a Response, unmatched paths and recovered panics are passed to
// the error handler. The default handler honours errors exposing StatusCode() int,
// such as response.HTTPError.
package router
