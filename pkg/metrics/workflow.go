package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
)

// WorkflowMetrics counts approval state machine events by outcome.
type WorkflowMetrics struct {
	events *prometheus.CounterVec
}

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_workflow_events_total",
		Help: "Approval workflow events by event and outcome.",
	}, []string{"event", "outcome"})
	reg.MustRegister(events)
	return &WorkflowMetrics{events: events}
}

// Inc records one event outcome.
func (w *WorkflowMetrics) Inc(event, outcome string) {
	if w == nil || w.events == nil {
		return
	}
	w.events.WithLabelValues(normalizeLabel(event), normalizeLabel(outcome)).Inc()
}
