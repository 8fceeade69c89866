// Package tracing provides OpenTelemetry tracing for vendorgate.
//
// When tracing is enabled, spans are exported over OTLP gRPC to the
// configured collector. When it is disabled, New returns a tracer backed by
// the noop provider so callers never need to check.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "supplier.validate_portal")
//	defer span.End()
//	tracing.SetSupplierAttributes(span, supplierID)
//
// Incoming W3C traceparent headers are honoured by HTTPMiddleware, and
// outgoing registry calls carry the current context via Inject.
package tracing
