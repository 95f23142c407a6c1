package identity

import "time"

// Config holds credential cookie names and token settings.
type Config struct {
	AccessCookie   string        `env:"IDENTITY_ACCESS_COOKIE" envDefault:"nb-access-token"`
	RefreshCookie  string        `env:"IDENTITY_REFRESH_COOKIE" envDefault:"nb-refresh-token"`
	SigningKey     string        `env:"IDENTITY_SIGNING_KEY"`
	Issuer         string        `env:"IDENTITY_ISSUER" envDefault:"notegate"`
	AccessTTL      time.Duration `env:"IDENTITY_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL     time.Duration `env:"IDENTITY_REFRESH_TTL" envDefault:"720h"`
	RefreshTimeout time.Duration `env:"IDENTITY_REFRESH_TIMEOUT" envDefault:"2s"`
	RedisPrefix    string        `env:"IDENTITY_REDIS_PREFIX" envDefault:"notegate"`

	// RefreshReuseGrace is how long a replaced refresh token is still accepted
	// without revoking the session.
	RefreshReuseGrace time.Duration `env:"IDENTITY_REFRESH_REUSE_GRACE" envDefault:"10s"`
}

// DefaultConfig returns the defaults used when no environment is present.
func DefaultConfig() Config {
	return Config{
		AccessCookie:   "nb-access-token",
		RefreshCookie:  "nb-refresh-token",
		Issuer:         "notegate",
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     720 * time.Hour,
		RefreshTimeout: 2 * time.Second,
		RedisPrefix:    "notegate",

		RefreshReuseGrace: 10 * time.Second,
	}
}
