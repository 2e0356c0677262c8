package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service's Prometheus registry.
type Collector struct {
	registry             *prometheus.Registry
	verifications        *prometheus.CounterVec
	verificationDuration *prometheus.HistogramVec
	approvals            *prometheus.CounterVec
	transitions          *prometheus.CounterVec
	workflowsActive      prometheus.Gauge
}

// NewCollector creates a collector on a private registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deposit_verifications_total",
			Help: "Verification dispatches by provider and result",
		}, []string{"provider", "result"}),
		verificationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deposit_verification_duration_seconds",
			Help:    "Time spent waiting on verification providers",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		approvals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deposit_approvals_total",
			Help: "Approval commits by result",
		}, []string{"result"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deposit_transitions_total",
			Help: "Committed claim status transitions by target status",
		}, []string{"to"}),
		workflowsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "deposit_workflows_active",
			Help: "Operator workflows currently held in memory",
		}),
	}
}

// RecordVerification counts one dispatch and its provider latency.
func (m *Collector) RecordVerification(provider, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(provider, result).Inc()
	m.verificationDuration.WithLabelValues(provider).Observe(took.Seconds())
}

// RecordApproval counts one approval attempt.
func (m *Collector) RecordApproval(result string) {
	if m == nil {
		return
	}
	m.approvals.WithLabelValues(result).Inc()
}

// RecordTransition counts one committed status change.
func (m *Collector) RecordTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

// SetActiveWorkflows reports the number of live workflows.
func (m *Collector) SetActiveWorkflows(n int) {
	if m == nil {
		return
	}
	m.workflowsActive.Set(float64(n))
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
