package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the validation service.
type Metrics struct {
	ValidationRuns prometheus.Counter
	Discrepancies  *prometheus.CounterVec
	Decisions      *prometheus.CounterVec
}

// New registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ValidationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "validator_validation_runs_total",
			Help: "Total number of completed validation runs",
		}),
		Discrepancies: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "validator_discrepancies_total",
			Help: "Total discrepancies detected, by severity",
		}, []string{"severity"}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "validator_decisions_total",
			Help: "Total decisions recorded, by action",
		}, []string{"action"}),
	}
}

// ObserveRun records one validation run and its discrepancy severities.
func (m *Metrics) ObserveRun(bySeverity map[string]int) {
	if m == nil {
		return
	}
	m.ValidationRuns.Inc()
	for sev, n := range bySeverity {
		m.Discrepancies.WithLabelValues(sev).Add(float64(n))
	}
}

// ObserveDecision records one submitted decision.
func (m *Metrics) ObserveDecision(action string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(action).Inc()
}
