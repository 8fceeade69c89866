package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys use the "vendorgate.*" namespace.
const (
	AttrSupplierID    = "vendorgate.supplier_id"
	AttrSummaryStatus = "vendorgate.summary_status"
	AttrResultCount   = "vendorgate.results"
	AttrFailCount     = "vendorgate.results.fail"
	AttrDocumentCount = "vendorgate.documents"
	AttrSource        = "vendorgate.documents.source"
	AttrSinkBackend   = "vendorgate.sink.backend"
)

// SetSupplierAttributes tags span with the supplier being validated.
func SetSupplierAttributes(span trace.Span, supplierID string) {
	span.SetAttributes(attribute.String(AttrSupplierID, supplierID))
}

// SetReportAttributes records the outcome of a validation.
func SetReportAttributes(span trace.Span, summaryStatus string, results, failures, documents int) {
	span.SetAttributes(
		attribute.String(AttrSummaryStatus, summaryStatus),
		attribute.Int(AttrResultCount, results),
		attribute.Int(AttrFailCount, failures),
		attribute.Int(AttrDocumentCount, documents),
	)
}

// SetError records err on span and marks it failed. A nil err marks it OK.
func SetError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
