package gate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Credential refresh outcomes.
const (
	RefreshNone    = "none"
	RefreshValid   = "valid"
	RefreshRotated = "rotated"
	RefreshCleared = "cleared"
)

// Metrics records gate activity. A nil *Metrics records nothing.
type Metrics struct {
	decisions          *prometheus.CounterVec
	refreshes          *prometheus.CounterVec
	resolutions        *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
}

// NewMetrics registers the gate collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notegate",
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Routing decisions by route class and outcome",
		}, []string{"route", "decision"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notegate",
			Subsystem: "gate",
			Name:      "credential_refreshes_total",
			Help:      "Credential refresh outcomes",
		}, []string{"outcome"}),
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notegate",
			Subsystem: "note",
			Name:      "resolutions_total",
			Help:      "Default note resolutions by result",
		}, []string{"result"}),
		resolutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "notegate",
			Subsystem: "note",
			Name:      "resolution_duration_seconds",
			Help:      "Latency of default note resolution",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveDecision counts a routing decision.
func (m *Metrics) ObserveDecision(route Route, d Decision) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(route.String(), d.String()).Inc()
}

// ObserveRefresh counts a credential refresh outcome.
func (m *Metrics) ObserveRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// ObserveResolution records a note resolution. Its signature matches
// notes.Observer.
func (m *Metrics) ObserveResolution(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(result).Inc()
	m.resolutionDuration.Observe(elapsed.Seconds())
}
