package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/dmitrymomot/notegate/core/handler"
	"github.com/dmitrymomot/notegate/core/logger"
	"github.com/dmitrymomot/notegate/core/response"
)

// Proxy forwards requests to the page renderer.
type Proxy struct {
	target *url.URL
	rp     *httputil.ReverseProxy
	logger *slog.Logger
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithLogger sets the proxy logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Proxy) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithTransport replaces the transport used to reach the upstream.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Proxy) {
		if rt != nil {
			p.rp.Transport = rt
		}
	}
}

// New creates a proxy for cfg.URL.
func New(cfg Config, opts ...Option) (*Proxy, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	target, err := url.Parse(cfg.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.DialTimeout > 0 {
		transport.DialContext = (&net.Dialer{Timeout: cfg.DialTimeout}).DialContext
	}
	if cfg.ResponseHeaderTimeout > 0 {
		transport.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
	}

	p := &Proxy{
		target: target,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	p.rp = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if cfg.PreserveHost {
				pr.Out.Host = pr.In.Host
			}
		},
		Transport:     transport,
		FlushInterval: cfg.FlushInterval,
		ErrorHandler:  p.handleError,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Target returns the upstream base URL.
func (p *Proxy) Target() *url.URL {
	return p.target
}

// ServeHTTP forwards r to the upstream.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.rp.ServeHTTP(w, r)
}

// Forward returns a response that proxies the request.
func (p *Proxy) Forward() handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		p.rp.ServeHTTP(w, r)
		return nil
	}
}

// Handler mounts the proxy as a router handler.
func Handler[C handler.Context](p *Proxy) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return p.Forward()
	}
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		p.logger.DebugContext(r.Context(), "client went away", logger.Path(r.URL.Path))
		return
	}

	httpErr := response.ErrBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		httpErr = response.ErrGatewayTimeout
	} else {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			httpErr = response.ErrGatewayTimeout
		}
	}

	p.logger.ErrorContext(r.Context(), "upstream request failed",
		logger.Path(r.URL.Path),
		logger.StatusCode(httpErr.Status),
		logger.Error(err),
	)
	_ = response.StringWithStatus(httpErr.Message, httpErr.Status)(w, r)
}
