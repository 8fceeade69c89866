// Package metrics provides Prometheus metrics collection for vendorgate.
//
// # Metrics Categories
//
//   - Validation Metrics: validation count by summary status, rule outcomes, and duration
//   - HTTP Metrics: request count and latency by route
//   - Sink Metrics: result writes and rows by backend and outcome
//   - Registry Metrics: commercial registry lookups by outcome
//   - Document Metrics: document source loads by source and outcome
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordValidation("FAIL", 3*time.Millisecond)
//	collector.RecordRuleResult("PORTAL_FIELD_REQUIRED_tax_id", "FAIL")
//
//	mux.Handle("/metrics", collector.Handler())
//
// Every Record method is safe to call on a nil *Collector, so components
// accept an optional collector without guarding each call.
//
// # Cardinality
//
// Rule ids come from configuration and are bounded in practice. A
// CardinalityLimiter still caps the number of distinct rule label sets; any
// overflow is recorded under rule_id "other".
package metrics
