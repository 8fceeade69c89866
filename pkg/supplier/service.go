// Package supplier runs validations for supplier submissions: it gathers
// documents, evaluates the rules, persists the per-field outcome and
// records telemetry.
package supplier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"mercator-hq/vendorgate/pkg/documents"
	"mercator-hq/vendorgate/pkg/portal"
	"mercator-hq/vendorgate/pkg/sink"
	"mercator-hq/vendorgate/pkg/telemetry/logging"
	"mercator-hq/vendorgate/pkg/telemetry/metrics"
	"mercator-hq/vendorgate/pkg/telemetry/tracing"
	"mercator-hq/vendorgate/pkg/validation"
)

// FullResult is the outcome of a validation with documents.
type FullResult struct {
	SupplierID    string                  `json:"supplier_id"`
	SummaryStatus validation.Status       `json:"summary_status"`
	Results       []validation.RuleResult `json:"results"`
	Fields        []portal.FieldResult    `json:"fields"`
}

// Service validates supplier submissions.
type Service struct {
	engine   *validation.Engine
	gatherer *documents.Gatherer
	sink     sink.Sink
	backend  string
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records validation and sink metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

// WithTracer wraps each call in a span.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSinkBackend names the sink backend in metrics and spans.
func WithSinkBackend(name string) Option {
	return func(s *Service) { s.backend = name }
}

// WithClock sets the clock used to stamp persisted rows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. gatherer and resultSink may be nil: without
// a gatherer only caller-supplied documents are used, and without a sink
// nothing is persisted.
func NewService(engine *validation.Engine, gatherer *documents.Gatherer, resultSink sink.Sink, opts ...Option) *Service {
	s := &Service{
		engine:   engine,
		gatherer: gatherer,
		sink:     resultSink,
		backend:  "unknown",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "supplier")
	if s.tracer == nil {
		s.tracer = tracing.Noop()
	}
	return s
}

// Engine returns the validation engine.
func (s *Service) Engine() *validation.Engine {
	return s.engine
}

// ValidatePortal validates the portal fields of payload without documents
// and persists one row per field. The response is not returned when
// persistence fails.
func (s *Service) ValidatePortal(ctx context.Context, payload portal.SupplierPayload) (resp *portal.SupplierValidationResponse, err error) {
	supplierID := strings.TrimSpace(payload.SupplierID)
	if supplierID == "" {
		return nil, ErrMissingSupplierID
	}

	ctx = logging.WithSupplierID(ctx, supplierID)
	ctx, span := s.tracer.Start(ctx, "supplier.validate_portal")
	defer func() {
		tracing.SetError(span, err)
		span.End()
	}()
	tracing.SetSupplierAttributes(span, supplierID)

	report := s.run(ctx, payload.Fields, nil)
	fields := portal.FieldResults(report, payload.Fields)
	tracing.SetReportAttributes(span, string(report.SummaryStatus), len(report.Results), report.Count(validation.StatusFail), 0)

	if err := s.persist(ctx, supplierID, fields); err != nil {
		return nil, err
	}

	return &portal.SupplierValidationResponse{
		SupplierID: supplierID,
		Results:    fields,
	}, nil
}

// ValidateFull gathers documents for supplierID, merges docs over them
// (caller-supplied documents win), runs every check and persists the
// per-field outcome.
func (s *Service) ValidateFull(ctx context.Context, supplierID string, portalDoc map[string]any, docs validation.Documents) (result *FullResult, err error) {
	supplierID = strings.TrimSpace(supplierID)
	if supplierID == "" {
		return nil, ErrMissingSupplierID
	}

	ctx = logging.WithSupplierID(ctx, supplierID)
	ctx, span := s.tracer.Start(ctx, "supplier.validate_full")
	defer func() {
		tracing.SetError(span, err)
		span.End()
	}()
	tracing.SetSupplierAttributes(span, supplierID)

	merged := s.gatherer.Gather(ctx, supplierID, portalDoc)
	for docType, doc := range docs {
		merged[docType] = doc
	}

	report := s.run(ctx, portalDoc, merged)
	fields := portal.FieldResults(report, portalDoc)
	tracing.SetReportAttributes(span, string(report.SummaryStatus), len(report.Results), report.Count(validation.StatusFail), len(merged))

	if err := s.persist(ctx, supplierID, fields); err != nil {
		return nil, err
	}

	return &FullResult{
		SupplierID:    supplierID,
		SummaryStatus: report.SummaryStatus,
		Results:       report.Results,
		Fields:        fields,
	}, nil
}

func (s *Service) run(ctx context.Context, portalDoc map[string]any, docs validation.Documents) *validation.Report {
	start := time.Now()
	report := s.engine.Validate(portalDoc, docs)
	elapsed := time.Since(start)

	s.metrics.RecordValidation(string(report.SummaryStatus), elapsed)
	for _, res := range report.Results {
		s.metrics.RecordRuleResult(res.RuleID, string(res.Status))
	}

	s.logger.DebugContext(ctx, "validation complete",
		"summary_status", report.SummaryStatus,
		"results", len(report.Results),
		"failures", report.Count(validation.StatusFail),
		"documents", len(docs),
		"duration", elapsed,
	)
	return report
}

func (s *Service) persist(ctx context.Context, supplierID string, fields []portal.FieldResult) error {
	if s.sink == nil || len(fields) == 0 {
		return nil
	}

	rows := sink.RowsFromResults(supplierID, fields, s.now())
	if err := s.sink.Write(ctx, rows); err != nil {
		s.metrics.RecordSinkWrite(s.backend, "error", len(rows))
		s.logger.ErrorContext(ctx, "failed to persist field results", "backend", s.backend, "rows", len(rows), "error", err)
		return &SinkError{SupplierID: supplierID, Err: err}
	}
	s.metrics.RecordSinkWrite(s.backend, "success", len(rows))
	return nil
}
