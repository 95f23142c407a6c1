package gate

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/identity"
)

// Resolver returns the note a signed-in user should land on.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Policy decides where a classified request goes.
type Policy struct {
	resolver  Resolver
	appRoot   string
	noteParam string
	logger    *slog.Logger
}

// NewPolicy builds a policy over resolver using the app root and note parameter
// from cfg.
func NewPolicy(cfg Config, resolver Resolver, log *slog.Logger) (*Policy, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg = cfg.withDefaults()
	return &Policy{
		resolver:  resolver,
		appRoot:   cfg.AppRoot,
		noteParam: cfg.NoteParam,
		logger:    log,
	}, nil
}

// Decide returns exactly one decision. The resolver is consulted only for an
// authenticated request to the app root without a selected note; when it fails the
// request passes through. A redirect back to the incoming path and query is never
// returned.
func (p *Policy) Decide(ctx context.Context, req Request, route Route, sess identity.Session) Decision {
	d := p.decide(ctx, req, route, sess)
	if d.leadsTo(req) {
		p.logger.WarnContext(ctx, "self redirect suppressed",
			logger.Path(req.Path),
			logger.Route(route.String()),
		)
		return Passthrough()
	}
	return d
}

func (p *Policy) decide(ctx context.Context, req Request, route Route, sess identity.Session) Decision {
	if !sess.IsAuthenticated() {
		return Passthrough()
	}

	switch route {
	case RouteAuthPage:
		return RedirectTo(p.appRoot, false)
	case RouteAppRoot:
		if req.HasParam(p.noteParam) {
			return Passthrough()
		}
		id, err := p.resolver.Resolve(ctx, sess.UserID)
		if err != nil {
			return Passthrough()
		}
		return RedirectTo(p.appRoot, true).WithParam(p.noteParam, id.String())
	default:
		return Passthrough()
	}
}
