package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reconciliation outcome labels.
const (
	OutcomeReconciled = "reconciled"
	OutcomeReview     = "review"
	OutcomeError      = "error"
	OutcomeConflict   = "conflict"
	OutcomeUnchanged  = "unchanged"
)

// ReconciliationMetrics counts per-transaction outcomes and times account batches.
type ReconciliationMetrics struct {
	outcomes      *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

func NewReconciliationMetrics(reg prometheus.Registerer) *ReconciliationMetrics {
	if reg == nil {
		return &ReconciliationMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciliation_outcomes_total",
		Help: "Transactions processed by the reconciliation engine, by outcome.",
	}, []string{"outcome"})
	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconciliation_batch_duration_seconds",
		Help:    "Time spent reconciling one marketplace account.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(outcomes, batchDuration)
	return &ReconciliationMetrics{outcomes: outcomes, batchDuration: batchDuration}
}

func (m *ReconciliationMetrics) IncOutcome(outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *ReconciliationMetrics) ObserveBatch(d time.Duration) {
	if m == nil || m.batchDuration == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
}

// SyncMetrics counts generated transactions and sync results per marketplace.
type SyncMetrics struct {
	created *prometheus.CounterVec
	results *prometheus.CounterVec
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_transactions_created_total",
		Help: "Transactions persisted by account syncs.",
	}, []string{"marketplace"})
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_results_total",
		Help: "Account sync attempts by result code.",
	}, []string{"result"})
	reg.MustRegister(created, results)
	return &SyncMetrics{created: created, results: results}
}

func (m *SyncMetrics) AddCreated(marketplace string, n int) {
	if m == nil || m.created == nil || n <= 0 {
		return
	}
	m.created.WithLabelValues(normalizeLabel(marketplace)).Add(float64(n))
}

// IncResult records a sync attempt. An empty result means success.
func (m *SyncMetrics) IncResult(result string) {
	if m == nil || m.results == nil {
		return
	}
	if result == "" {
		result = "ok"
	}
	m.results.WithLabelValues(result).Inc()
}
