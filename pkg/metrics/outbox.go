package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outbox dispatch results.
const (
	DispatchPublished = "published"
	DispatchRetry     = "retry"
	DispatchDLQ       = "dlq"
)

// OutboxMetrics counts dispatch results per event type.
type OutboxMetrics struct {
	dispatched *prometheus.CounterVec
}

func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	dispatched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketrecon_outbox_dispatch_total",
		Help: "Outbox rows handled by the publisher, by event type and result.",
	}, []string{"event_type", "result"})
	reg.MustRegister(dispatched)
	return &OutboxMetrics{dispatched: dispatched}
}

func (m *OutboxMetrics) IncDispatch(eventType, result string) {
	if m == nil || m.dispatched == nil {
		return
	}
	m.dispatched.WithLabelValues(normalizeLabel(eventType), result).Inc()
}
