package app

import (
	"github.com/dmitrymomot/notegate/core/cookie"
	"github.com/dmitrymomot/notegate/core/server"
	"github.com/dmitrymomot/notegate/gate"
	"github.com/dmitrymomot/notegate/identity"
	"github.com/dmitrymomot/notegate/integration/database/pg"
	"github.com/dmitrymomot/notegate/integration/database/redis"
	"github.com/dmitrymomot/notegate/notes"
	"github.com/dmitrymomot/notegate/upstream"
)

type Config struct {
	DB       pg.Config
	Redis    redis.Config
	Cookie   cookie.Config
	Server   server.Config
	Identity identity.Config
	Notes    notes.Config
	Gate     gate.Config
	Upstream upstream.Config

	AppName  string `env:"APP_NAME" envDefault:"notegate"`
	Env      string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}
