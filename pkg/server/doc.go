// Package server exposes supplier validation over HTTP.
//
// # Routes
//
//	POST /validate-portal-fields            portal fields only, per-field view
//	POST /v1/suppliers/{supplierID}/validate portal plus documents, full report
//	GET  /health                            liveness
//	GET  /ready                             readiness (sink, registry cache)
//	GET  /version                           build information
//	GET  /metrics                           Prometheus exposition
//
// Health and metrics paths follow the telemetry configuration.
//
// # Errors
//
// Failures use the envelope written by middleware.WriteError:
//
//	400 invalid_request  malformed JSON or missing supplier_id
//	413 invalid_request  body larger than server.max_body_bytes
//	401 unauthorized     missing or unknown API key (server.auth)
//	429 rate_limited     client exceeded server.rate_limit
//	500 storage_error    results could not be persisted
//	504 timeout          server.request_timeout exceeded
//
// # Lifecycle
//
// Start blocks until the context is cancelled, SIGINT or SIGTERM is
// received, or the listener fails, then drains in-flight requests for up to
// server.shutdown_timeout.
package server
