package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/wedsite-backend/pkg/metrics"
)

// Metrics records request counts and latency labelled by the chi route pattern,
// which is only known once routing has completed.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			// unmatched routes have no pattern and are grouped under "unknown"
			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}
			m.Observe(r.Method, route, rec.statusCode(), time.Since(start))
		})
	}
}
