// Package metrics exposes Prometheus counters for the repository layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the counters the repository and handlers record.
type Metrics struct {
	registry      *prometheus.Registry
	ReadFallbacks *prometheus.CounterVec
	AuthFallbacks prometheus.Counter
	Logins        *prometheus.CounterVec
}

// New registers the counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ReadFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "conselho",
			Subsystem: "repository",
			Name:      "fallbacks_total",
			Help:      "Remote reads answered from the local dataset.",
		}, []string{"entity"}),
		AuthFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "conselho",
			Subsystem: "auth",
			Name:      "fallbacks_total",
			Help:      "Remote sign-ins retried against the local credential table.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "conselho",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.ReadFallbacks, m.AuthFallbacks, m.Logins)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ReadFallback records a list answered locally. Safe on a nil receiver.
func (m *Metrics) ReadFallback(entity string) {
	if m == nil {
		return
	}
	m.ReadFallbacks.WithLabelValues(entity).Inc()
}

// AuthFallback records a sign-in retried locally. Safe on a nil receiver.
func (m *Metrics) AuthFallback() {
	if m == nil {
		return
	}
	m.AuthFallbacks.Inc()
}

// Login records a sign-in outcome ("success" or "failure"). Safe on a nil receiver.
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}
