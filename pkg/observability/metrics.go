// Package observability wires braid lifecycle events into Prometheus
// collectors. Attach the hooks to a model with braid.WithLifecycleHooks
// and expose the registry via promhttp (the HTTP adapter does both).
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"braid/pkg/domain"
)

// Metrics holds the executor collectors.
type Metrics struct {
	calls        *prometheus.CounterVec
	nodeRuns     *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	evictions    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "braid_calls_total",
				Help: "Total number of model calls",
			},
			[]string{"model", "status"},
		),
		nodeRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "braid_node_runs_total",
				Help: "Total number of node executions",
			},
			[]string{"model", "node_id", "status"},
		),
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "braid_node_duration_seconds",
				Help: "Duration of node executions",
			},
			[]string{"model", "node_id"},
		),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "braid_evictions_total",
				Help: "Values evicted by the counted strategy",
			},
			[]string{"model"},
		),
	}
	reg.MustRegister(m.calls, m.nodeRuns, m.nodeDuration, m.evictions)
	return m
}

// Hooks returns lifecycle hooks recording calls and node executions
// for the given model.
func (m *Metrics) Hooks(model string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCallEnd: func(ctx context.Context, e *domain.CallEvent) {
			m.calls.WithLabelValues(model, status(e.Err)).Inc()
		},
		OnNodeEnd: func(ctx context.Context, e *domain.NodeEvent) {
			m.nodeRuns.WithLabelValues(model, e.NodeID, status(e.Err)).Inc()
			m.nodeDuration.WithLabelValues(model, e.NodeID).Observe(e.Duration.Seconds())
		},
	}
}

// EvictionObserver returns a callback for handler.Counted.OnEvict.
func (m *Metrics) EvictionObserver(model string) func(name string) {
	return func(string) {
		m.evictions.WithLabelValues(model).Inc()
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
