package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/vendorgate/pkg/cli"
	"mercator-hq/vendorgate/pkg/portal"
	"mercator-hq/vendorgate/pkg/supplier"
	"mercator-hq/vendorgate/pkg/validation"
)

var validateFlags struct {
	supplierID string
	portalFile string
	docsFile   string
	full       bool
	persist    bool
	format     string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one supplier submission",
	Long: `Validate one supplier submission read from a JSON file.

By default only the portal fields are checked, exactly as the
/validate-portal-fields endpoint does. With --full, documents are gathered
from the configured sources, merged under any --documents file, and every
cross-source rule is evaluated.

The command exits with status 3 when any check fails.

Examples:
  # Portal fields only
  vendorgate validate --supplier-id S-1 --portal portal.json

  # Full validation with extra documents, JSON output
  vendorgate validate --supplier-id S-1 --portal portal.json \
      --documents docs.json --full --format json

  # Persist the per-field outcome to the configured sink
  vendorgate validate --supplier-id S-1 --portal portal.json --persist`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.supplierID, "supplier-id", "s", "", "supplier id (required)")
	validateCmd.Flags().StringVarP(&validateFlags.portalFile, "portal", "p", "", "portal fields JSON file (required)")
	validateCmd.Flags().StringVarP(&validateFlags.docsFile, "documents", "d", "", "JSON file mapping doc_type to document")
	validateCmd.Flags().BoolVar(&validateFlags.full, "full", false, "gather documents and evaluate cross-source rules")
	validateCmd.Flags().BoolVar(&validateFlags.persist, "persist", false, "write per-field results to the configured sink")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, csv")

	_ = validateCmd.MarkFlagRequired("supplier-id")
	_ = validateCmd.MarkFlagRequired("portal")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(validateFlags.format)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	if validateFlags.docsFile != "" && !validateFlags.full {
		return cli.NewCommandError("validate", fmt.Errorf("--documents requires --full"))
	}

	portalDoc, err := readJSONObject[map[string]any](validateFlags.portalFile)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	var docs validation.Documents
	if validateFlags.docsFile != "" {
		docs, err = readJSONObject[validation.Documents](validateFlags.docsFile)
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, cfg, logger, appOptions{withSink: validateFlags.persist})
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	out := commandOutput(cmd)
	formatter := cli.NewFormatter(format)

	if !validateFlags.full {
		resp, err := a.service.ValidatePortal(ctx, portal.SupplierPayload{
			SupplierID: validateFlags.supplierID,
			Fields:     portalDoc,
		})
		if err != nil {
			return cli.NewCommandError("validate", err)
		}

		view := fieldView{SupplierID: resp.SupplierID, Fields: resp.Results}
		var data any = view
		if format == cli.FormatJSON {
			data = resp
		}
		if err := formatter.FormatTo(out, data); err != nil {
			return cli.NewCommandError("validate", err)
		}
		if n := view.invalid(); n > 0 {
			return cli.NewValidationFailure("validate", fmt.Errorf("%d field(s) invalid", n))
		}
		return nil
	}

	result, err := a.service.ValidateFull(ctx, validateFlags.supplierID, portalDoc, docs)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	var data any = reportView{result}
	if format == cli.FormatJSON {
		data = result
	}
	if err := formatter.FormatTo(out, data); err != nil {
		return cli.NewCommandError("validate", err)
	}
	if result.SummaryStatus == validation.StatusFail {
		failed := 0
		for _, r := range result.Results {
			if r.Status == validation.StatusFail {
				failed++
			}
		}
		return cli.NewValidationFailure("validate", fmt.Errorf("%d check(s) failed", failed))
	}
	return nil
}

// readJSONObject decodes the JSON object in path into T.
func readJSONObject[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read %s: %w", path, err)
	}
	if err := validation.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

// fieldView renders per-field results as text or CSV.
type fieldView struct {
	SupplierID string
	Fields     []portal.FieldResult
}

func (v fieldView) invalid() int {
	n := 0
	for _, f := range v.Fields {
		if !f.IsValid {
			n++
		}
	}
	return n
}

func (v fieldView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Supplier %s\n", v.SupplierID)
	for _, f := range v.Fields {
		writeField(&b, f)
	}
	fmt.Fprintf(&b, "\n%d field(s), %d invalid", len(v.Fields), v.invalid())
	return b.String()
}

func (v fieldView) Header() []string {
	return []string{"supplier_id", "field_name", "field_value", "is_valid", "failure_reason"}
}

func (v fieldView) Rows() [][]string {
	rows := make([][]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		rows = append(rows, []string{
			v.SupplierID, f.FieldName, deref(f.Value), strconv.FormatBool(f.IsValid), deref(f.FailureReason),
		})
	}
	return rows
}

func writeField(b *strings.Builder, f portal.FieldResult) {
	if f.IsValid {
		fmt.Fprintf(b, "  ✓ %s\n", f.FieldName)
		return
	}
	fmt.Fprintf(b, "  ✗ %s: %s\n", f.FieldName, deref(f.FailureReason))
}

// reportView renders a full validation as text or CSV.
type reportView struct {
	*supplier.FullResult
}

func (v reportView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Supplier %s: %s\n", v.SupplierID, v.SummaryStatus)
	if len(v.Fields) > 0 {
		b.WriteString("Portal fields:\n")
		for _, f := range v.Fields {
			writeField(&b, f)
		}
	}
	if cross := portal.CrossSourceResults(v.Results); len(cross) > 0 {
		b.WriteString("Cross-source rules:\n")
		for _, r := range cross {
			fmt.Fprintf(&b, "  %-7s %s [%s] %s\n", r.Status, r.RuleID, r.Severity, r.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v reportView) Header() []string {
	return []string{"supplier_id", "rule_id", "severity", "status", "message"}
}

func (v reportView) Rows() [][]string {
	rows := make([][]string, 0, len(v.Results))
	for _, r := range v.Results {
		rows = append(rows, []string{v.SupplierID, r.RuleID, string(r.Severity), string(r.Status), r.Message})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
