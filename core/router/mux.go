package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/dmitrymomot/notegate/core/handler"
)

var methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

var wildcardRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(\.\.\.)?\}`)

// table is the routing state shared by a router and its inline groups.
type table struct {
	mu     sync.RWMutex
	mux    *http.ServeMux
	routes []Route
}

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	table        *table
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	parent       *mux[C] // for inline groups
	registered   bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		table:        &table{mux: http.NewServeMux()},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context type works without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	if _, pattern := m.table.mux.Handler(r); pattern != "" {
		m.table.mux.ServeHTTP(ww, r)
		return
	}

	ctx := m.newContext(ww, r, nil)
	if allowed := m.allowedMethods(r); len(allowed) > 0 {
		ww.Header().Set("Allow", strings.Join(allowed, ", "))
		m.errorHandler(ctx, ErrMethodNotAllowed)
		return
	}
	m.errorHandler(ctx, ErrNotFound)
}

// allowedMethods lists the methods that would match the request's path.
func (m *mux[C]) allowedMethods(r *http.Request) []string {
	var allowed []string
	for _, method := range methods {
		if method == r.Method {
			continue
		}
		probe := *r
		probe.Method = method
		if _, pattern := m.table.mux.Handler(&probe); pattern != "" {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// Get registers a GET handler.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

// Post registers a POST handler.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

// Put registers a PUT handler.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

// Delete registers a DELETE handler.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Patch registers a PATCH handler.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Method registers a handler for the given HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	for _, method := range methods {
		method = strings.ToUpper(method)
		if !validMethod(method) {
			panic(fmt.Errorf("%w: %q", ErrInvalidMethod, method))
		}
		m.handle(method, pattern, h)
	}
}

// Use appends middlewares to the router's stack.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.registered {
		panic(ErrLateMiddleware)
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With returns an inline router sharing the routing table with extra middlewares.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	im := m.inline()
	im.middlewares = append(im.middlewares, middlewares...)
	return im
}

// Group creates an inline router and passes it to fn.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.inline()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns the registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	m.table.mu.RLock()
	defer m.table.mu.RUnlock()
	routes := make([]Route, len(m.table.routes))
	copy(routes, m.table.routes)
	return routes
}

func (m *mux[C]) inline() *mux[C] {
	mws := make([]handler.Middleware[C], len(m.middlewares))
	copy(mws, m.middlewares)
	return &mux[C]{
		table:        m.table,
		middlewares:  mws,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
		parent:       m,
	}
}

func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	if !strings.HasPrefix(pattern, "/") {
		panic(fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, pattern))
	}
	if h == nil {
		panic(fmt.Errorf("router: nil handler for %q", pattern))
	}

	full := pattern
	if method != "" {
		full = method + " " + pattern
	}

	var params []string
	for _, match := range wildcardRe.FindAllStringSubmatch(pattern, -1) {
		params = append(params, match[1])
	}

	chained := handler.Chain(h, m.middlewares...)
	m.table.mux.Handle(full, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, params, chained)
	}))

	m.table.mu.Lock()
	m.table.routes = append(m.table.routes, Route{Method: method, Pattern: pattern})
	m.table.mu.Unlock()

	for p := m; p != nil; p = p.parent {
		p.registered = true
	}
}

func (m *mux[C]) serve(w http.ResponseWriter, r *http.Request, names []string, h handler.HandlerFunc[C]) {
	var params map[string]string
	if len(names) > 0 {
		params = make(map[string]string, len(names))
		for _, name := range names {
			params[name] = r.PathValue(name)
		}
	}

	ctx := m.newContext(w, r, params)

	// Recover from panics to prevent server crashes
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			if ww, ok := w.(*responseWriter); ok && ww.Written() {
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			m.errorHandler(ctx, panicErr)
		}
	}()

	resp := h(ctx)
	if resp == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		m.errorHandler(ctx, err)
	}
}

func validMethod(method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
