package gate

// Config holds routing settings of the gate.
type Config struct {
	AuthPaths        []string `env:"GATE_AUTH_PATHS" envDefault:"/login,/sign-up" envSeparator:","`
	AppRoot          string   `env:"GATE_APP_ROOT" envDefault:"/"`
	NoteParam        string   `env:"GATE_NOTE_PARAM" envDefault:"noteId"`
	PublicBaseURL    string   `env:"GATE_PUBLIC_BASE_URL"`
	StaticPrefixes   []string `env:"GATE_STATIC_PREFIXES" envDefault:"/_next/static,/_next/image,/favicon.ico" envSeparator:","`
	StaticExtensions []string `env:"GATE_STATIC_EXTENSIONS" envDefault:"svg,png,jpg,jpeg,gif,webp" envSeparator:","`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		AuthPaths:        []string{"/login", "/sign-up"},
		AppRoot:          "/",
		NoteParam:        "noteId",
		StaticPrefixes:   []string{"/_next/static", "/_next/image", "/favicon.ico"},
		StaticExtensions: []string{"svg", "png", "jpg", "jpeg", "gif", "webp"},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.AuthPaths) == 0 {
		c.AuthPaths = d.AuthPaths
	}
	if c.AppRoot == "" {
		c.AppRoot = d.AppRoot
	}
	if c.NoteParam == "" {
		c.NoteParam = d.NoteParam
	}
	return c
}
