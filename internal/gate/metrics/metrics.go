package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the access gate.
type Metrics struct {
	// Decisions by outcome and reason code
	Decisions *prometheus.CounterVec

	// Full authorize latency including evidence reads and audit append
	AuthorizeLatency prometheus.Histogram

	// Aborted authorizations whose audit append failed
	AuditFailures prometheus.Counter
}

// New creates a Metrics instance with all gate metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medgate_gate_decisions_total",
			Help: "Total authorization decisions by outcome and reason code",
		}, []string{"outcome", "reason"}),

		AuthorizeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medgate_gate_authorize_duration_seconds",
			Help:    "Duration of full authorization including the audit append",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		AuditFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_gate_audit_failures_total",
			Help: "Total authorizations aborted because the audit append failed",
		}),
	}
}

// IncrementDecision records a completed authorization decision.
func (m *Metrics) IncrementDecision(outcome, reason string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome, reason).Inc()
	}
}

// ObserveAuthorizeLatency records the duration of one authorization.
func (m *Metrics) ObserveAuthorizeLatency(d time.Duration) {
	if m != nil {
		m.AuthorizeLatency.Observe(d.Seconds())
	}
}

// IncrementAuditFailure records an authorization aborted on audit append.
func (m *Metrics) IncrementAuditFailure() {
	if m != nil {
		m.AuditFailures.Inc()
	}
}
