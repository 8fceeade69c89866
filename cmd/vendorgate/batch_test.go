package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/vendorgate/pkg/batch"
	"mercator-hq/vendorgate/pkg/cli"
)

func setBatchFlags(portalRoot, reportDir, vendorID string) {
	batchFlags.vendorID = vendorID
	batchFlags.portalRoot = portalRoot
	batchFlags.reportDir = reportDir
	batchFlags.withDocuments = false
	batchFlags.schedule = ""
	batchFlags.progress = false
}

func writePortalDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		data, err := os.ReadFile(src)
		if err != nil {
			t.Fatalf("read %s: %v", src, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestRunBatch(t *testing.T) {
	useRules(t, "testdata/portal-rules.json")
	portalRoot := writePortalDir(t, map[string]string{
		"ACME.json":   "testdata/portal-valid.json",
		"GLOBEX.json": "testdata/portal-invalid.json",
	})
	reportDir := filepath.Join(t.TempDir(), "reports")
	setBatchFlags(portalRoot, reportDir, "")
	cmd, buf := newTestCommand()

	if err := runBatch(cmd, nil); err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[PORTAL] ACME: PASS -> " + filepath.Join(reportDir, "ACME"+batch.ReportSuffix),
		"[PORTAL] GLOBEX: FAIL -> ",
		"PASS: 1  WARNING: 0  FAIL: 1  errors: 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, vendor := range []string{"ACME", "GLOBEX"} {
		if _, err := os.Stat(filepath.Join(reportDir, vendor+batch.ReportSuffix)); err != nil {
			t.Errorf("report for %s: %v", vendor, err)
		}
	}
}

func TestRunBatchSingleVendor(t *testing.T) {
	useRules(t, "testdata/portal-rules.json")
	portalRoot := writePortalDir(t, map[string]string{
		"ACME.json":   "testdata/portal-valid.json",
		"GLOBEX.json": "testdata/portal-invalid.json",
	})
	reportDir := t.TempDir()
	setBatchFlags(portalRoot, reportDir, "GLOBEX")
	cmd, buf := newTestCommand()

	if err := runBatch(cmd, nil); err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}
	if strings.Contains(buf.String(), "ACME") {
		t.Errorf("output mentions ACME for a GLOBEX-only run:\n%s", buf.String())
	}
	if _, err := os.Stat(filepath.Join(reportDir, "ACME"+batch.ReportSuffix)); !os.IsNotExist(err) {
		t.Errorf("ACME report exists, want none (err = %v)", err)
	}
}

func TestRunBatchVendorErrors(t *testing.T) {
	useRules(t, "testdata/portal-rules.json")
	portalRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(portalRoot, "BROKEN.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	setBatchFlags(portalRoot, t.TempDir(), "")
	cmd, buf := newTestCommand()

	err := runBatch(cmd, nil)
	if got := cli.ExitCode(err); got != cli.ExitError {
		t.Errorf("ExitCode(runBatch()) = %d, want %d (err = %v)", got, cli.ExitError, err)
	}
	if !strings.Contains(buf.String(), "✗ BROKEN:") {
		t.Errorf("output does not report the broken vendor:\n%s", buf.String())
	}
}

func TestRunBatchMissingPortalRoot(t *testing.T) {
	useRules(t, "testdata/portal-rules.json")
	setBatchFlags(filepath.Join(t.TempDir(), "missing"), t.TempDir(), "")

	if err := runBatch(nil, nil); err == nil {
		t.Error("runBatch() with a missing portal root should return error")
	}
}

func TestRunBatchProgress(t *testing.T) {
	useRules(t, "testdata/portal-rules.json")
	portalRoot := writePortalDir(t, map[string]string{
		"ACME.json":   "testdata/portal-valid.json",
		"GLOBEX.json": "testdata/portal-invalid.json",
	})
	setBatchFlags(portalRoot, t.TempDir(), "")
	batchFlags.progress = true
	cmd, _ := newTestCommand()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	if err := runBatch(cmd, nil); err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}

	got := stderr.String()
	for _, want := range []string{
		"Validating 2 vendor(s)\n",
		"[1/2] ACME: PASS  (PASS 1  WARNING 0  FAIL 0  errors 0)",
		"[2/2] GLOBEX: FAIL  (PASS 1  WARNING 0  FAIL 1  errors 0)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("progress output missing %q:\n%q", want, got)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("progress output %q does not end the status line", got)
	}
}
