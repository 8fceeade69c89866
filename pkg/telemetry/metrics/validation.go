package metrics

import (
	"strconv"
	"time"

	"mercator-hq/vendorgate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks validation runs and individual check outcomes.
//
// Metrics:
//   - vendorgate_validation_runs_total: Validations by summary status
//   - vendorgate_validation_rule_results_total: Check results by rule id and status
//   - vendorgate_validation_duration_seconds: Time spent evaluating checks
type ValidationMetrics struct {
	runsTotal   *prometheus.CounterVec
	rulesTotal  *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// NewValidationMetrics creates and registers validation metrics with the provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of validations by summary status",
			},
			[]string{"summary_status"},
		),

		rulesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_results_total",
				Help:      "Total number of check results by rule and status",
			},
			[]string{"rule_id", "status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of validations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
	}

	registry.MustRegister(
		vm.runsTotal,
		vm.rulesTotal,
		vm.runDuration,
	)

	return vm
}

// RecordValidation records a completed validation.
func (vm *ValidationMetrics) RecordValidation(summary string, duration time.Duration) {
	vm.runsTotal.WithLabelValues(summary).Inc()
	vm.runDuration.Observe(duration.Seconds())
}

// RecordRuleResult records one check outcome.
func (vm *ValidationMetrics) RecordRuleResult(ruleID, status string) {
	vm.rulesTotal.WithLabelValues(ruleID, status).Inc()
}

// HTTPMetrics tracks served HTTP requests.
//
// Metrics:
//   - vendorgate_http_requests_total: Requests by route and status code
//   - vendorgate_http_request_duration_seconds: Request latency by route
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"route", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(hm.requestsTotal, hm.requestDuration)

	return hm
}

// RecordRequest records one served request.
func (hm *HTTPMetrics) RecordRequest(route string, code int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	hm.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
