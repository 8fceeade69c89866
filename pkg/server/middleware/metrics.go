package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mercator-hq/vendorgate/pkg/telemetry/metrics"
)

// MetricsMiddleware records request counts and latency by chi route pattern,
// so that path parameters such as supplier ids do not become label values.
// Requests that match no route are recorded as "unmatched".
func MetricsMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			collector.RecordHTTPRequest(route, rw.statusCode, time.Since(start))
		})
	}
}
