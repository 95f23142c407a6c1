package notes

import "time"

// Store drivers selectable through NOTES_STORE.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverHTTP     = "http"
)

// Config selects and tunes the note store.
type Config struct {
	Driver         string        `env:"NOTES_STORE" envDefault:"postgres"`
	ResolveTimeout time.Duration `env:"NOTES_RESOLVE_TIMEOUT" envDefault:"3s"`
	SQLitePath     string        `env:"NOTES_SQLITE_PATH" envDefault:"notes.db"`
	ServiceURL     string        `env:"NOTES_SERVICE_URL"`
}
