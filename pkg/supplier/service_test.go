package supplier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/documents"
	"mercator-hq/vendorgate/pkg/portal"
	"mercator-hq/vendorgate/pkg/rules"
	"mercator-hq/vendorgate/pkg/sink"
	"mercator-hq/vendorgate/pkg/telemetry/metrics"
	"mercator-hq/vendorgate/pkg/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testRules() *rules.Config {
	return &rules.Config{
		PortalFields: []rules.PortalField{
			{Name: "email", Validation: rules.PortalFieldValidation{Required: true, Pattern: strPtr(`^\S+@\S+$`)}},
			{Name: "cr_number", Validation: rules.PortalFieldValidation{Required: true}},
		},
		CrossSourceRules: []rules.Rule{
			rules.EqualityRule{
				RuleMeta: rules.RuleMeta{ID: "CR_MATCH", Description: "CR matches certificate", Severity: rules.SeverityError},
				Left:     &rules.FieldRef{Source: rules.SourcePortal, Field: "cr_number"},
				Right:    &rules.FieldRef{Source: rules.SourceDoc, DocType: "moc_certificate", Field: "cr_number"},
			},
		},
	}
}

func testEngine() *validation.Engine {
	return validation.New(testRules(), validation.DefaultEngineConfig().WithNow(fixedNow))
}

type staticSource struct {
	name string
	docs validation.Documents
	err  error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(ctx context.Context, vendorID string, portal map[string]any) (validation.Documents, error) {
	return s.docs, s.err
}

func TestValidatePortal(t *testing.T) {
	mem := sink.NewMemorySink()
	svc := NewService(testEngine(), nil, mem, WithClock(func() time.Time { return fixedNow }))

	resp, err := svc.ValidatePortal(context.Background(), portal.SupplierPayload{
		SupplierID: " S-1 ",
		Fields:     map[string]any{"email": "bad", "cr_number": "1010"},
	})
	if err != nil {
		t.Fatalf("ValidatePortal() error = %v", err)
	}
	if resp.SupplierID != "S-1" {
		t.Errorf("SupplierID = %q, want %q", resp.SupplierID, "S-1")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}

	byName := map[string]portal.FieldResult{}
	for _, r := range resp.Results {
		byName[r.FieldName] = r
	}
	email := byName["email"]
	if email.IsValid {
		t.Error("email IsValid = true, want false")
	}
	if email.FailureReason == nil || *email.FailureReason != portal.ReasonPatternMismatch {
		t.Errorf("email FailureReason = %v, want %q", email.FailureReason, portal.ReasonPatternMismatch)
	}
	if !byName["cr_number"].IsValid {
		t.Error("cr_number IsValid = false, want true")
	}

	rows := mem.Rows()
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.SupplierID != "S-1" {
			t.Errorf("row SupplierID = %q, want %q", row.SupplierID, "S-1")
		}
		if !row.CreatedAt.Equal(fixedNow) {
			t.Errorf("row CreatedAt = %v, want %v", row.CreatedAt, fixedNow)
		}
	}
}

func TestValidatePortal_MissingSupplierID(t *testing.T) {
	mem := sink.NewMemorySink()
	svc := NewService(testEngine(), nil, mem)

	for _, id := range []string{"", "   "} {
		_, err := svc.ValidatePortal(context.Background(), portal.SupplierPayload{SupplierID: id})
		if !errors.Is(err, ErrMissingSupplierID) {
			t.Errorf("ValidatePortal(%q) error = %v, want ErrMissingSupplierID", id, err)
		}
	}
	if len(mem.Rows()) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(mem.Rows()))
	}
}

func TestValidatePortal_SinkFailure(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test"}, registry)

	cause := errors.New("disk full")
	mem := sink.NewMemorySink()
	mem.FailWith(cause)
	svc := NewService(testEngine(), nil, mem, WithMetrics(collector), WithSinkBackend("memory"))

	resp, err := svc.ValidatePortal(context.Background(), portal.SupplierPayload{
		SupplierID: "S-1",
		Fields:     map[string]any{"email": "a@b.com", "cr_number": "1"},
	})
	if resp != nil {
		t.Errorf("ValidatePortal() resp = %+v, want nil", resp)
	}

	var sinkErr *SinkError
	if !errors.As(err, &sinkErr) {
		t.Fatalf("ValidatePortal() error = %v, want *SinkError", err)
	}
	if sinkErr.SupplierID != "S-1" {
		t.Errorf("SinkError.SupplierID = %q, want %q", sinkErr.SupplierID, "S-1")
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}

	expected := `
# HELP test_sink_writes_total Total number of result writes
# TYPE test_sink_writes_total counter
test_sink_writes_total{backend="memory",outcome="error"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_sink_writes_total"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestValidatePortal_NilSink(t *testing.T) {
	svc := NewService(testEngine(), nil, nil)

	resp, err := svc.ValidatePortal(context.Background(), portal.SupplierPayload{
		SupplierID: "S-1",
		Fields:     map[string]any{"email": "a@b.com", "cr_number": "1"},
	})
	if err != nil {
		t.Fatalf("ValidatePortal() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(resp.Results))
	}
}

func TestValidateFull(t *testing.T) {
	gathered := &staticSource{
		name: "static",
		docs: validation.Documents{"moc_certificate": {"cr_number": "1010"}},
	}

	tests := []struct {
		name        string
		docs        validation.Documents
		wantSummary validation.Status
	}{
		{"gathered documents", nil, validation.StatusPass},
		{"caller documents win", validation.Documents{"moc_certificate": {"cr_number": "9999"}}, validation.StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := sink.NewMemorySink()
			gatherer := documents.NewGatherer(documents.GathererConfig{}, gathered)
			svc := NewService(testEngine(), gatherer, mem)

			result, err := svc.ValidateFull(context.Background(), "S-1",
				map[string]any{"email": "a@b.com", "cr_number": "1010"}, tt.docs)
			if err != nil {
				t.Fatalf("ValidateFull() error = %v", err)
			}
			if result.SummaryStatus != tt.wantSummary {
				t.Errorf("SummaryStatus = %q, want %q", result.SummaryStatus, tt.wantSummary)
			}
			if len(result.Results) != 3 {
				t.Errorf("len(Results) = %d, want 3", len(result.Results))
			}
			if len(result.Fields) != 2 {
				t.Errorf("len(Fields) = %d, want 2", len(result.Fields))
			}
			if len(mem.Rows()) != 2 {
				t.Errorf("len(rows) = %d, want 2", len(mem.Rows()))
			}
		})
	}
}

func TestValidateFull_SourceFailureIsSkipped(t *testing.T) {
	failing := &staticSource{name: "broken", err: errors.New("unreachable")}
	gatherer := documents.NewGatherer(documents.GathererConfig{}, failing)
	svc := NewService(testEngine(), gatherer, nil)

	result, err := svc.ValidateFull(context.Background(), "S-1",
		map[string]any{"email": "a@b.com", "cr_number": "1010"}, nil)
	if err != nil {
		t.Fatalf("ValidateFull() error = %v", err)
	}

	var crMatch *validation.RuleResult
	for i := range result.Results {
		if result.Results[i].RuleID == "CR_MATCH" {
			crMatch = &result.Results[i]
		}
	}
	if crMatch == nil {
		t.Fatal("CR_MATCH result missing")
	}
	if crMatch.Status == validation.StatusPass {
		t.Errorf("CR_MATCH Status = %q, want non-PASS without the certificate", crMatch.Status)
	}
}
