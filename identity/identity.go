package identity

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notegate/core/cookie"
)

// NewFromConfig wires the Redis-backed TokenProvider and an Adapter using it.
func NewFromConfig(cfg Config, client redis.UniversalClient, cookies *cookie.Manager, log *slog.Logger) (*Adapter, *TokenProvider, error) {
	provider, err := NewTokenProvider(cfg, NewRedisRefreshStore(client, cfg.RedisPrefix))
	if err != nil {
		return nil, nil, err
	}
	adapter := NewAdapter(provider, cookies,
		WithCookieNames(cfg.AccessCookie, cfg.RefreshCookie),
		WithRefreshTimeout(cfg.RefreshTimeout),
		WithLogger(log),
	)
	return adapter, provider, nil
}
