package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notegate/core/config"
	"github.com/dmitrymomot/notegate/core/cookie"
	"github.com/dmitrymomot/notegate/core/health"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/core/response"
	"github.com/dmitrymomot/notegate/core/router"
	"github.com/dmitrymomot/notegate/core/server"
	"github.com/dmitrymomot/notegate/gate"
	"github.com/dmitrymomot/notegate/identity"
	"github.com/dmitrymomot/notegate/integration/database/redis"
	"github.com/dmitrymomot/notegate/notes"
	"github.com/dmitrymomot/notegate/upstream"
)

// App wires the gate, the note store and the upstream proxy into one HTTP service.
type App struct {
	config     Config
	configured bool
	router     router.Router[*router.Context]
	server     *server.Server
	cookie     *cookie.Manager
	redis      goredis.UniversalClient
	store      notes.Store
	storeCheck health.Check
	tokens     *identity.TokenProvider
	proxy      *upstream.Proxy
	gate       *gate.Gate
	registry   *prometheus.Registry
	logger     *slog.Logger
	closers    []func() error
}

type AppOption func(*App) error

// NewApp builds the service. Configuration is read from the environment unless
// WithConfig is given.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if !app.configured {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(app.config)
	}
	if app.router == nil {
		app.router = router.New[*router.Context](
			router.WithLogger[*router.Context](app.logger),
			router.WithErrorHandler(response.LoggingErrorHandler(app.logger, response.ErrorHandler[*router.Context])),
		)
	}
	if app.cookie == nil {
		app.cookie = cookie.NewFromConfig(app.config.Cookie)
	}
	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if err := app.init(ctx); err != nil {
		return nil, errors.Join(err, app.Close())
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	if app.redis == nil {
		client, err := redis.Connect(ctx, app.config.Redis)
		if err != nil {
			return err
		}
		app.redis = client
		app.closers = append(app.closers, client.Close)
	}

	if app.store == nil {
		store, check, err := app.openNoteStore(ctx)
		if err != nil {
			return err
		}
		app.store, app.storeCheck = store, check
	} else if app.storeCheck.Fn == nil {
		app.storeCheck = pingCheck(app.store)
	}

	adapter, tokens, err := identity.NewFromConfig(app.config.Identity, app.redis, app.cookie,
		app.logger.With(logger.Component("identity")))
	if err != nil {
		return err
	}
	app.tokens = tokens

	metrics := gate.NewMetrics(app.registry)
	resolver, err := notes.NewResolver(app.store,
		notes.WithTimeout(app.config.Notes.ResolveTimeout),
		notes.WithLogger(app.logger.With(logger.Component("notes"))),
		notes.WithObserver(metrics.ObserveResolution),
	)
	if err != nil {
		return err
	}

	app.gate, err = gate.New(app.config.Gate, adapter, resolver,
		gate.WithLogger(app.logger.With(logger.Component("gate"))),
		gate.WithMetrics(metrics),
		gate.WithCookieManager(app.cookie),
	)
	if err != nil {
		return err
	}

	if app.proxy == nil {
		app.proxy, err = upstream.New(app.config.Upstream,
			upstream.WithLogger(app.logger.With(logger.Component("upstream"))))
		if err != nil {
			return err
		}
	}

	if app.server == nil {
		app.server, err = server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			return err
		}
	}

	app.routes()
	return nil
}

// Run serves until ctx is canceled, then shuts down and releases resources.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.server.Run(ctx, app.router))

	app.logger.InfoContext(ctx, "notegate started",
		slog.String("upstream", app.proxy.Target().String()),
		slog.String("note_store", app.config.Notes.Driver),
	)

	err := g.Wait()
	return errors.Join(err, app.Close())
}

// Handler returns the root HTTP handler.
func (app *App) Handler() router.Router[*router.Context] {
	return app.router
}

// Tokens returns the credential issuer used by sign-in tooling.
func (app *App) Tokens() *identity.TokenProvider {
	return app.tokens
}

// Close releases connections opened by NewApp, in reverse order.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("app: close: %w", errors.Join(errs...))
	}
	return nil
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{}
	if cfg.Env == "development" {
		opts = append(opts, logger.WithDevelopment(cfg.AppName))
	} else {
		opts = append(opts, logger.WithProduction(cfg.AppName))
	}
	opts = append(opts,
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithContextExtractors(requestExtractors()...),
	)
	return logger.New(opts...)
}

func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		app.configured = true
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return fmt.Errorf("%w: logger", ErrNilOption)
		}
		app.logger = logger
		return nil
	}
}

func WithRouter(router router.Router[*router.Context]) AppOption {
	return func(app *App) error {
		if router == nil {
			return fmt.Errorf("%w: router", ErrNilOption)
		}
		app.router = router
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return fmt.Errorf("%w: server", ErrNilOption)
		}
		app.server = server
		return nil
	}
}

func WithCookieManager(cookie *cookie.Manager) AppOption {
	return func(app *App) error {
		if cookie == nil {
			return fmt.Errorf("%w: cookie manager", ErrNilOption)
		}
		app.cookie = cookie
		return nil
	}
}

// WithRedis uses an existing client instead of connecting with the Redis config.
// The caller keeps ownership of the client.
func WithRedis(client goredis.UniversalClient) AppOption {
	return func(app *App) error {
		if client == nil {
			return fmt.Errorf("%w: redis client", ErrNilOption)
		}
		app.redis = client
		return nil
	}
}

// WithNoteStore uses store instead of the driver selected by NOTES_STORE.
func WithNoteStore(store notes.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return fmt.Errorf("%w: note store", ErrNilOption)
		}
		app.store = store
		return nil
	}
}

func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(app *App) error {
		if reg == nil {
			return fmt.Errorf("%w: registry", ErrNilOption)
		}
		app.registry = reg
		return nil
	}
}
