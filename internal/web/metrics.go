package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// requestMetrics records a counter and latency summary per HTTP method.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		metrics.GetOrCreateCounter(fmt.Sprintf(`http_requests_total{method=%q}`, r.Method)).Inc()
		metrics.GetOrCreateSummary(fmt.Sprintf(`http_request_duration_seconds{method=%q}`, r.Method)).
			Update(time.Since(start).Seconds())
	})
}

// handleMetrics exposes all registered metrics in Prometheus text format.
func handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics.WritePrometheus(w, true)
}
