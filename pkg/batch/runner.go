package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mercator-hq/vendorgate/pkg/documents"
	"mercator-hq/vendorgate/pkg/telemetry/metrics"
	"mercator-hq/vendorgate/pkg/validation"
)

// ReportSuffix is appended to the vendor id to name its report file.
const ReportSuffix = "_portal_report.json"

// Config configures a Runner.
type Config struct {
	// PortalRoot holds one <vendor>.json per vendor.
	PortalRoot string

	// ReportDir receives <vendor>_portal_report.json files. It is created
	// when missing.
	ReportDir string

	// VendorID restricts the run to one vendor when set.
	VendorID string

	// WithDocuments gathers documents for each vendor before validating.
	WithDocuments bool

	// Out receives one "[PORTAL] vendor: STATUS -> path" line per vendor.
	Out io.Writer

	// Progress, when set, observes the run vendor by vendor.
	Progress Progress

	Gatherer *documents.Gatherer
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

// VendorResult is the outcome for one vendor file.
type VendorResult struct {
	VendorID      string
	SummaryStatus validation.Status
	ReportPath    string
	Err           error
}

// Summary is the outcome of one run.
type Summary struct {
	Vendors  []VendorResult
	Duration time.Duration
}

// Count returns the number of vendors with the given summary status.
func (s *Summary) Count(status validation.Status) int {
	n := 0
	for _, v := range s.Vendors {
		if v.Err == nil && v.SummaryStatus == status {
			n++
		}
	}
	return n
}

// Errors returns the number of vendors that could not be processed.
func (s *Summary) Errors() int {
	n := 0
	for _, v := range s.Vendors {
		if v.Err != nil {
			n++
		}
	}
	return n
}

// Runner validates every portal file under a folder.
type Runner struct {
	engine *validation.Engine
	cfg    Config
	logger *slog.Logger
}

// NewRunner creates a runner.
func NewRunner(engine *validation.Engine, cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine: engine,
		cfg:    cfg,
		logger: logger.With("component", "batch"),
	}
}

// Run processes every vendor file in sorted order. A vendor that fails to
// load or write is recorded in the summary and does not stop the run. Run
// returns an error only when the portal folder cannot be listed or the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	files, err := r.portalFiles()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.cfg.ReportDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", r.cfg.ReportDir, err)
	}

	summary := &Summary{Vendors: make([]VendorResult, 0, len(files))}
	if p := r.cfg.Progress; p != nil {
		p.Start(len(files))
		defer func() { p.Finish(summary) }()
	}
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		res := r.runVendor(ctx, file)
		summary.Vendors = append(summary.Vendors, res)
		if r.cfg.Progress != nil {
			r.cfg.Progress.Vendor(i+1, res)
		}
		if res.Err != nil {
			r.logger.ErrorContext(ctx, "vendor validation failed",
				"vendor_id", res.VendorID,
				"file", file,
				"error", res.Err,
			)
			continue
		}

		line := fmt.Sprintf("[PORTAL] %s: %s -> %s", res.VendorID, res.SummaryStatus, res.ReportPath)
		if r.cfg.Out != nil {
			fmt.Fprintln(r.cfg.Out, line)
		}
		r.logger.InfoContext(ctx, line,
			"vendor_id", res.VendorID,
			"summary_status", res.SummaryStatus,
			"report", res.ReportPath,
		)
	}

	summary.Duration = time.Since(start)
	r.logger.InfoContext(ctx, "batch run complete",
		"vendors", len(summary.Vendors),
		"pass", summary.Count(validation.StatusPass),
		"fail", summary.Count(validation.StatusFail),
		"errors", summary.Errors(),
		"duration", summary.Duration,
	)
	return summary, nil
}

func (r *Runner) portalFiles() ([]string, error) {
	if _, err := os.Stat(r.cfg.PortalRoot); err != nil {
		return nil, fmt.Errorf("portal root %s: %w", r.cfg.PortalRoot, err)
	}

	if r.cfg.VendorID != "" {
		if strings.ContainsAny(r.cfg.VendorID, `/\`) {
			return nil, fmt.Errorf("invalid vendor id %q", r.cfg.VendorID)
		}
		path := filepath.Join(r.cfg.PortalRoot, r.cfg.VendorID+".json")
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("portal file for vendor %q: %w", r.cfg.VendorID, err)
		}
		return []string{path}, nil
	}

	files, err := filepath.Glob(filepath.Join(r.cfg.PortalRoot, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list portal files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) runVendor(ctx context.Context, file string) VendorResult {
	vendorID := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	res := VendorResult{VendorID: vendorID}

	portalDoc, err := readPortal(file)
	if err != nil {
		res.Err = err
		return res
	}

	docs := validation.Documents{}
	if r.cfg.WithDocuments {
		docs = r.cfg.Gatherer.Gather(ctx, vendorID, portalDoc)
	}

	started := time.Now()
	report := r.engine.Validate(portalDoc, docs)
	r.cfg.Metrics.RecordValidation(string(report.SummaryStatus), time.Since(started))
	for _, rr := range report.Results {
		r.cfg.Metrics.RecordRuleResult(rr.RuleID, string(rr.Status))
	}

	res.SummaryStatus = report.SummaryStatus
	res.ReportPath = filepath.Join(r.cfg.ReportDir, vendorID+ReportSuffix)
	if err := writeReport(res.ReportPath, report); err != nil {
		res.Err = err
	}
	return res
}

func readPortal(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portal file: %w", err)
	}

	var doc map[string]any
	if err := validation.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse portal file %s: %w", path, err)
	}
	if doc == nil {
		return nil, errors.New("portal file must contain a JSON object")
	}
	return doc, nil
}

// writeReport writes the report through a temp file so readers never see a
// partial report.
func writeReport(path string, report *validation.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
