package gate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/notegate/core/cookie"
	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/core/response"
	"github.com/dmitrymomot/notegate/identity"
)

// Refresher derives the session of a request from its cookies.
type Refresher interface {
	Refresh(ctx context.Context, cookies map[string]string) (identity.Session, []cookie.Mutation)
}

// Result is everything the gate decided about one request.
type Result struct {
	Request   Request
	Session   identity.Session
	Route     Route
	Decision  Decision
	Mutations []cookie.Mutation
}

// Gate runs credential refresh and the redirect policy for a request.
type Gate struct {
	refresher  Refresher
	classifier *Classifier
	static     *StaticMatcher
	policy     *Policy
	cookies    *cookie.Manager
	baseURL    *url.URL
	metrics    *Metrics
	logger     *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.logger = log
		}
	}
}

// WithMetrics enables metric collection.
func WithMetrics(m *Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// WithCookieManager sets the manager used to write Set-Cookie headers.
func WithCookieManager(m *cookie.Manager) Option {
	return func(g *Gate) {
		if m != nil {
			g.cookies = m
		}
	}
}

// New builds a gate from cfg.
func New(cfg Config, refresher Refresher, resolver Resolver, opts ...Option) (*Gate, error) {
	if refresher == nil {
		return nil, ErrNilRefresher
	}
	cfg = cfg.withDefaults()
	if !strings.HasPrefix(cfg.AppRoot, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAppRoot, cfg.AppRoot)
	}

	g := &Gate{
		refresher:  refresher,
		classifier: NewClassifier(cfg),
		static:     NewStaticMatcher(cfg),
		cookies:    cookie.New(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.classifier.Classify(cfg.AppRoot) != RouteAppRoot {
		return nil, fmt.Errorf("%w: %q", ErrAppRootIsAuthPage, cfg.AppRoot)
	}

	if cfg.PublicBaseURL != "" {
		base, err := url.Parse(cfg.PublicBaseURL)
		if err != nil || !base.IsAbs() || base.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.PublicBaseURL)
		}
		g.baseURL = base
	}

	policy, err := NewPolicy(cfg, resolver, g.logger)
	if err != nil {
		return nil, err
	}
	g.policy = policy

	return g, nil
}

// Skip reports whether r is a static asset request the gate does not handle.
func (g *Gate) Skip(r *http.Request) bool {
	return g.static.Match(r.URL.Path)
}

// Evaluate refreshes credentials, classifies the path and decides the outcome, in
// that order.
func (g *Gate) Evaluate(ctx context.Context, req Request) Result {
	sess, muts := g.refresher.Refresh(ctx, req.Cookies)
	g.metrics.ObserveRefresh(refreshOutcome(sess, muts))

	route := g.classifier.Classify(req.Path)
	decision := g.policy.Decide(ctx, req, route, sess)
	g.metrics.ObserveDecision(route, decision)

	if decision.IsRedirect() {
		g.logger.DebugContext(ctx, "redirecting",
			logger.Path(req.Path),
			logger.Route(route.String()),
			logger.Location(decision.Location(req, g.baseURL)),
		)
	}

	return Result{
		Request:   req,
		Session:   sess,
		Route:     route,
		Decision:  decision,
		Mutations: muts,
	}
}

// Compose builds the response for res. Cookie mutations are written exactly once
// on both paths. A redirect answers 307 without calling next; a passthrough
// renders next, or returns ErrNilResponse to the error handler when next is nil.
func (g *Gate) Compose(res Result, next handler.Response) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if err := g.cookies.Write(w, res.Mutations...); err != nil {
			g.logger.ErrorContext(r.Context(), "failed to write credential cookies", logger.Error(err))
		}

		if res.Decision.IsRedirect() {
			return response.WithNoCache(response.RedirectTemporary(res.Decision.Location(res.Request, g.baseURL)))(w, r)
		}
		if next == nil {
			return ErrNilResponse
		}
		return next(w, r)
	}
}

func refreshOutcome(sess identity.Session, muts []cookie.Mutation) string {
	switch {
	case sess.IsAuthenticated() && len(muts) > 0:
		return RefreshRotated
	case sess.IsAuthenticated():
		return RefreshValid
	case len(muts) > 0:
		return RefreshCleared
	default:
		return RefreshNone
	}
}
