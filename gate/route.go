package gate

import "strings"

// Route is the class of a request path.
type Route uint8

const (
	RouteOther Route = iota
	RouteAuthPage
	RouteAppRoot
)

func (r Route) String() string {
	switch r {
	case RouteAuthPage:
		return "auth_page"
	case RouteAppRoot:
		return "app_root"
	default:
		return "other"
	}
}

// Classifier maps paths to routes. It is safe for concurrent use.
type Classifier struct {
	authPaths map[string]struct{}
	appRoot   string
}

// NewClassifier builds a classifier from cfg.
func NewClassifier(cfg Config) *Classifier {
	cfg = cfg.withDefaults()
	c := &Classifier{
		authPaths: make(map[string]struct{}, len(cfg.AuthPaths)),
		appRoot:   cfg.AppRoot,
	}
	for _, p := range cfg.AuthPaths {
		if p = strings.TrimSpace(p); p != "" {
			c.authPaths[p] = struct{}{}
		}
	}
	return c
}

// Classify matches path exactly against the auth pages and the app root.
func (c *Classifier) Classify(path string) Route {
	if _, ok := c.authPaths[path]; ok {
		return RouteAuthPage
	}
	if path == c.appRoot {
		return RouteAppRoot
	}
	return RouteOther
}
