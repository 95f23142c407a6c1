package upstream

import "time"

// Config holds the upstream renderer settings.
type Config struct {
	URL                   string        `env:"UPSTREAM_URL,required"`
	PreserveHost          bool          `env:"UPSTREAM_PRESERVE_HOST" envDefault:"true"`
	DialTimeout           time.Duration `env:"UPSTREAM_DIAL_TIMEOUT" envDefault:"5s"`
	ResponseHeaderTimeout time.Duration `env:"UPSTREAM_RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	FlushInterval         time.Duration `env:"UPSTREAM_FLUSH_INTERVAL" envDefault:"-1ns"`
}
