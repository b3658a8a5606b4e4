package metrics

import "github.com/prometheus/client_golang/prometheus"

// EmailMetrics counts outbound notification deliveries.
type EmailMetrics struct {
	deliveries *prometheus.CounterVec
}

func NewEmailMetrics(reg prometheus.Registerer) *EmailMetrics {
	if reg == nil {
		return &EmailMetrics{}
	}
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_deliveries_total",
		Help: "Outbound emails by kind and status.",
	}, []string{"kind", "status"})
	reg.MustRegister(deliveries)
	return &EmailMetrics{deliveries: deliveries}
}

func (e *EmailMetrics) Inc(kind, status string) {
	if e == nil || e.deliveries == nil {
		return
	}
	e.deliveries.WithLabelValues(normalizeLabel(kind), normalizeLabel(status)).Inc()
}
