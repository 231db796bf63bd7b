// Package telemetry holds the prometheus collectors exported by paradoxdash.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
)

// Reconcile results.
const (
	ReconcileApplied  = "applied"
	ReconcileSkipped  = "skipped"
	ReconcileRejected = "rejected"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	loads             *prometheus.CounterVec
	loadDuration      prometheus.Histogram
	reconciles        *prometheus.CounterVec
	refreshSuppressed prometheus.Counter
	liveClients       prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paradoxdash",
			Name:      "load_total",
			Help:      "Metrics loads by outcome.",
		}, []string{"outcome"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "paradoxdash",
			Name:      "load_duration_seconds",
			Help:      "Time spent fetching and validating a metrics snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		reconciles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paradoxdash",
			Name:      "reconcile_total",
			Help:      "Reconcile attempts by result.",
		}, []string{"result"}),
		refreshSuppressed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "paradoxdash",
			Name:      "refresh_suppressed_total",
			Help:      "Refresh triggers dropped because a cycle was in flight.",
		}),
		liveClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "paradoxdash",
			Name:      "live_clients",
			Help:      "Connected live-update websocket clients.",
		}),
	}
}

func (m *Metrics) ObserveLoad(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(outcome).Inc()
	m.loadDuration.Observe(seconds)
}

func (m *Metrics) ObserveReconcile(result string) {
	if m == nil {
		return
	}
	m.reconciles.WithLabelValues(result).Inc()
}

func (m *Metrics) RefreshSuppressed() {
	if m == nil {
		return
	}
	m.refreshSuppressed.Inc()
}

func (m *Metrics) SetLiveClients(n int) {
	if m == nil {
		return
	}
	m.liveClients.Set(float64(n))
}
