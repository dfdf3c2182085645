// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors handlers record into. Constructed once
// at the composition root and injected where needed.
type Metrics struct {
	GateDecisions     *prometheus.CounterVec
	CrossHubConflicts prometheus.Counter
	HostResolutions   *prometheus.CounterVec
}

// New registers hubgate collectors on the given registerer. Pass
// prometheus.DefaultRegisterer in main; tests can use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hubgate",
			Name:      "gate_decisions_total",
			Help:      "Access gate decisions by outcome.",
		}, []string{"outcome"}),
		CrossHubConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hubgate",
			Name:      "cross_hub_conflicts_total",
			Help:      "Signups refused because the identity belongs to another hub.",
		}),
		HostResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hubgate",
			Name:      "host_resolutions_total",
			Help:      "Hostname-to-hub resolutions by resolved hub.",
		}, []string{"hub"}),
	}
}
