package gate

import (
	"path"
	"strings"
)

// StaticMatcher recognizes asset requests that bypass the gate.
type StaticMatcher struct {
	prefixes   []string
	extensions map[string]struct{}
}

// NewStaticMatcher builds a matcher from cfg. Extensions are compared without the
// leading dot and case-insensitively.
func NewStaticMatcher(cfg Config) *StaticMatcher {
	m := &StaticMatcher{extensions: make(map[string]struct{}, len(cfg.StaticExtensions))}
	for _, p := range cfg.StaticPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			m.prefixes = append(m.prefixes, p)
		}
	}
	for _, ext := range cfg.StaticExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			m.extensions[ext] = struct{}{}
		}
	}
	return m
}

// Match reports whether p is a static asset path.
func (m *StaticMatcher) Match(p string) bool {
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ext == "" {
		return false
	}
	_, ok := m.extensions[ext]
	return ok
}
