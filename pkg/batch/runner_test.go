package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/vendorgate/pkg/documents"
	"mercator-hq/vendorgate/pkg/rules"
	"mercator-hq/vendorgate/pkg/validation"
)

func strPtr(s string) *string { return &s }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngine() *validation.Engine {
	cfg := &rules.Config{
		PortalFields: []rules.PortalField{
			{Name: "email", Validation: rules.PortalFieldValidation{Required: true, Pattern: strPtr(`^\S+@\S+$`)}},
		},
		CrossSourceRules: []rules.Rule{
			rules.PageCountRule{
				RuleMeta: rules.RuleMeta{ID: "VAT_PAGES", Description: "VAT certificate is one page", Severity: rules.SeverityWarning},
				Target:   &rules.FieldRef{Source: rules.SourceDoc, DocType: "VAT", Field: "page_count"},
				MinPages: 1,
				MaxPages: 1,
			},
		},
	}
	return validation.New(cfg, validation.DefaultEngineConfig())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readReport(t *testing.T, path string) validation.Report {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report validation.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return report
}

func TestRunner_Run(t *testing.T) {
	root := t.TempDir()
	portalRoot := filepath.Join(root, "portal")
	reportDir := filepath.Join(root, "reports")

	writeFile(t, filepath.Join(portalRoot, "vendor_b.json"), `{"email": "bad"}`)
	writeFile(t, filepath.Join(portalRoot, "vendor_a.json"), `{"email": "a@b.com"}`)
	writeFile(t, filepath.Join(portalRoot, "broken.json"), `{not json`)
	writeFile(t, filepath.Join(portalRoot, "notes.txt"), `ignored`)

	var out bytes.Buffer
	progress := &recordingProgress{}
	runner := NewRunner(testEngine(), Config{
		PortalRoot: portalRoot,
		ReportDir:  reportDir,
		Out:        &out,
		Progress:   progress,
		Logger:     discardLogger(),
	})

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(summary.Vendors) != 3 {
		t.Fatalf("len(Vendors) = %d, want 3", len(summary.Vendors))
	}
	gotOrder := []string{summary.Vendors[0].VendorID, summary.Vendors[1].VendorID, summary.Vendors[2].VendorID}
	wantOrder := []string{"broken", "vendor_a", "vendor_b"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Errorf("Vendors[%d] = %q, want %q", i, gotOrder[i], wantOrder[i])
		}
	}
	if summary.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", summary.Errors())
	}
	if progress.total != 3 {
		t.Errorf("progress total = %d, want 3", progress.total)
	}
	if got := strings.Join(progress.vendors, ","); got != "1:broken,2:vendor_a,3:vendor_b" {
		t.Errorf("progress vendors = %s, want 1:broken,2:vendor_a,3:vendor_b", got)
	}
	if progress.finished != summary {
		t.Error("Finish was not called with the run summary")
	}

	// Without documents the page-count check has nothing to read, so even
	// vendor_a does not pass overall.
	reportA := readReport(t, filepath.Join(reportDir, "vendor_a"+ReportSuffix))
	if len(reportA.Results) != 2 {
		t.Errorf("vendor_a results = %d, want 2", len(reportA.Results))
	}
	reportB := readReport(t, filepath.Join(reportDir, "vendor_b"+ReportSuffix))
	if reportB.SummaryStatus != validation.StatusFail {
		t.Errorf("vendor_b summary = %q, want FAIL", reportB.SummaryStatus)
	}

	wantLine := "[PORTAL] vendor_b: FAIL -> " + filepath.Join(reportDir, "vendor_b"+ReportSuffix)
	if !strings.Contains(out.String(), wantLine) {
		t.Errorf("output %q missing line %q", out.String(), wantLine)
	}
	if strings.Contains(out.String(), "broken") {
		t.Errorf("output %q should not report the broken file", out.String())
	}

	if _, err := os.Stat(filepath.Join(reportDir, "broken"+ReportSuffix)); !os.IsNotExist(err) {
		t.Errorf("report for broken file exists, want none (err %v)", err)
	}
}

func TestRunner_VendorFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "vendor_a.json"), `{"email": "a@b.com"}`)
	writeFile(t, filepath.Join(root, "vendor_b.json"), `{"email": "a@b.com"}`)

	tests := []struct {
		name     string
		vendorID string
		want     int
		wantErr  bool
	}{
		{"single vendor", "vendor_b", 1, false},
		{"unknown vendor", "vendor_z", 0, true},
		{"path traversal", "../vendor_a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(testEngine(), Config{
				PortalRoot: root,
				ReportDir:  t.TempDir(),
				VendorID:   tt.vendorID,
				Logger:     discardLogger(),
			})

			summary, err := runner.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(summary.Vendors) != tt.want {
				t.Errorf("len(Vendors) = %d, want %d", len(summary.Vendors), tt.want)
			}
		})
	}
}

func TestRunner_WithDocuments(t *testing.T) {
	root := t.TempDir()
	portalRoot := filepath.Join(root, "portal")
	structured := filepath.Join(root, "structured")
	reportDir := filepath.Join(root, "reports")

	writeFile(t, filepath.Join(portalRoot, "vendor_a.json"), `{"email": "a@b.com"}`)
	writeFile(t, filepath.Join(structured, "vendor_a", "VAT.json"), `{"doc_type": "VAT", "page_count": 1}`)

	gatherer := documents.NewGatherer(documents.GathererConfig{Logger: discardLogger()},
		documents.NewFolderSource(documents.FolderConfig{StructuredRoot: structured}))

	runner := NewRunner(testEngine(), Config{
		PortalRoot:    portalRoot,
		ReportDir:     reportDir,
		WithDocuments: true,
		Gatherer:      gatherer,
		Logger:        discardLogger(),
	})

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := summary.Count(validation.StatusPass); got != 1 {
		t.Errorf("Count(PASS) = %d, want 1 (vendors %+v)", got, summary.Vendors)
	}
}

func TestRunner_MissingPortalRoot(t *testing.T) {
	runner := NewRunner(testEngine(), Config{
		PortalRoot: filepath.Join(t.TempDir(), "missing"),
		ReportDir:  t.TempDir(),
		Logger:     discardLogger(),
	})
	if _, err := runner.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want error for missing portal root")
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "vendor_a.json"), `{"email": "a@b.com"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(testEngine(), Config{PortalRoot: root, ReportDir: t.TempDir(), Logger: discardLogger()})
	if _, err := runner.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
