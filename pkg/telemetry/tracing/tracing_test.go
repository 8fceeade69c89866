package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/vendorgate/pkg/config"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return newWithProvider(provider), recorder
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("Enabled() = true, want false")
	}

	_, span := tracer.Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("noop span has a valid span context")
	}
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil, "test"); err == nil {
		t.Error("New(nil) error = nil, want error")
	}
}

func TestNew_BadSampler(t *testing.T) {
	cfg := &config.TracingConfig{Enabled: true, Sampler: "sometimes", Endpoint: "localhost:4317"}
	if _, err := New(cfg, "test"); err == nil {
		t.Error("New() error = nil, want sampler error")
	}
}

func TestNilTracer(t *testing.T) {
	var tracer *Tracer
	_, span := tracer.Start(context.Background(), "x")
	span.End()
	if tracer.Enabled() {
		t.Error("nil Enabled() = true")
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{"other", 0, true},
	}
	for _, tt := range tests {
		_, err := createSampler(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
		}
	}
}

func TestAttributesAndErrors(t *testing.T) {
	tracer, recorder := recordingTracer(t)

	_, span := tracer.Start(context.Background(), "supplier.validate")
	SetSupplierAttributes(span, "SUP-1")
	SetReportAttributes(span, "FAIL", 4, 1, 2)
	SetError(span, errors.New("sink down"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	got := spans[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status().Code)
	}
	attrs := map[string]string{}
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[AttrSupplierID] != "SUP-1" {
		t.Errorf("%s = %q, want SUP-1", AttrSupplierID, attrs[AttrSupplierID])
	}
	if attrs[AttrSummaryStatus] != "FAIL" {
		t.Errorf("%s = %q, want FAIL", AttrSummaryStatus, attrs[AttrSummaryStatus])
	}
}

func TestHTTPMiddleware_ContinuesIncomingTrace(t *testing.T) {
	tracer, recorder := recordingTracer(t)
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	handler := HTTPMiddleware(tracer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/validate-portal-fields", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-ID"); got != traceID {
		t.Errorf("X-Trace-ID = %q, want %q", got, traceID)
	}
	if spans := recorder.Ended(); len(spans) != 1 || spans[0].Name() != "POST /validate-portal-fields" {
		t.Errorf("ended spans = %v, want one POST /validate-portal-fields", spans)
	}
}

func TestInjectExtract(t *testing.T) {
	tracer, _ := recordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "outbound")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)
	if headers.Get("traceparent") == "" {
		t.Fatal("Inject() wrote no traceparent")
	}

	extracted := Extract(context.Background(), headers)
	if TraceID(extracted) != TraceID(ctx) {
		t.Errorf("TraceID(extracted) = %q, want %q", TraceID(extracted), TraceID(ctx))
	}
}
