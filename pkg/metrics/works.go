package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "balarco"

// Work mutation operations.
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDeactivate = "deactivate"
)

// Outcome labels shared by the work and notification metrics.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// WorkMetrics counts work mutations and status transitions.
type WorkMetrics struct {
	mutations   *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewWorkMetrics registers the work metrics on reg. A nil registerer yields a no-op recorder.
func NewWorkMetrics(reg prometheus.Registerer) *WorkMetrics {
	if reg == nil {
		return &WorkMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "work_mutations_total",
		Help:      "Work create, update and deactivate calls by outcome.",
	}, []string{"op", "result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "work_status_transitions_total",
		Help:      "Committed work status changes by target status.",
	}, []string{"status"})
	reg.MustRegister(mutations, transitions)
	return &WorkMetrics{mutations: mutations, transitions: transitions}
}

// ObserveMutation records the outcome of one mutation.
func (m *WorkMetrics) ObserveMutation(op, result string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// ObserveTransition records a committed move into status.
func (m *WorkMetrics) ObserveTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// NotificationMetrics counts realtime pushes.
type NotificationMetrics struct {
	pushes *prometheus.CounterVec
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	pushes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_push_total",
		Help:      "Realtime notification pushes by outcome.",
	}, []string{"result"})
	reg.MustRegister(pushes)
	return &NotificationMetrics{pushes: pushes}
}

func (m *NotificationMetrics) ObservePush(result string) {
	if m == nil || m.pushes == nil {
		return
	}
	m.pushes.WithLabelValues(result).Inc()
}
