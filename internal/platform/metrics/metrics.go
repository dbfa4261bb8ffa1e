package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry and ledger counters that are not specific to the
// access gate. Gate metrics live in the gate module.
type Metrics struct {
	SubjectsRegistered *prometheus.CounterVec
	StatusChanges      prometheus.Counter
	GrantsCreated      prometheus.Counter
	GrantsRevoked      prometheus.Counter
	RecordsIndexed     prometheus.Counter
}

// New creates and registers all application metrics.
func New() *Metrics {
	return &Metrics{
		SubjectsRegistered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medgate_subjects_registered_total",
			Help: "Total subjects registered, by role",
		}, []string{"role"}),

		StatusChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_subject_status_changes_total",
			Help: "Total subject status transitions applied",
		}),

		GrantsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_consent_grants_total",
			Help: "Total consent grants created",
		}),

		GrantsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_consent_revocations_total",
			Help: "Total consent grants revoked",
		}),

		RecordsIndexed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_records_indexed_total",
			Help: "Total record versions indexed",
		}),
	}
}

// IncrementSubjectsRegistered records a successful registration.
func (m *Metrics) IncrementSubjectsRegistered(role string) {
	if m != nil {
		m.SubjectsRegistered.WithLabelValues(role).Inc()
	}
}

// IncrementStatusChanges records an applied status transition.
func (m *Metrics) IncrementStatusChanges() {
	if m != nil {
		m.StatusChanges.Inc()
	}
}

// IncrementGrantsCreated records a new consent grant.
func (m *Metrics) IncrementGrantsCreated() {
	if m != nil {
		m.GrantsCreated.Inc()
	}
}

// IncrementGrantsRevoked records a revocation.
func (m *Metrics) IncrementGrantsRevoked() {
	if m != nil {
		m.GrantsRevoked.Inc()
	}
}

// IncrementRecordsIndexed records a newly indexed record version.
func (m *Metrics) IncrementRecordsIndexed() {
	if m != nil {
		m.RecordsIndexed.Inc()
	}
}
