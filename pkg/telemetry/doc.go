// Package telemetry groups the observability packages used by vendorgate:
//
//   - logging: slog logger construction, attribute redaction, context ids
//   - metrics: Prometheus collector and /metrics handler
//   - tracing: OpenTelemetry tracer with OTLP gRPC export
//   - health: liveness and readiness probes
package telemetry
