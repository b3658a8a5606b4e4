package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service collectors behind one Prometheus registry.
type Registry struct {
	reg      *prometheus.Registry
	HTTP     *HTTPMetrics
	Workflow *WorkflowMetrics
	Email    *EmailMetrics
}

// NewRegistry builds a registry with Go runtime, process and service collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		reg:      reg,
		HTTP:     NewHTTPMetrics(reg),
		Workflow: NewWorkflowMetrics(reg),
		Email:    NewEmailMetrics(reg),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
