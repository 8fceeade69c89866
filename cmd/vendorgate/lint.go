package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/vendorgate/pkg/cli"
	"mercator-hq/vendorgate/pkg/rules"
)

var lintFlags struct {
	file   string
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate a rule configuration file",
	Long: `Validate a portal validation rule file without running it.

The lint command loads the file with the same loader the service uses and
then reports problems that loading accepts but that would fail at
evaluation time:
  - portal patterns that do not compile
  - cross-source rules missing a required operand
  - inverted length or page bounds
  - duplicate rule ids

Examples:
  # Lint the configured rule file
  vendorgate lint

  # Lint a specific file
  vendorgate lint --file configs/portal_validation_config.json

  # Strict mode (warnings as errors)
  vendorgate lint --file rules.yaml --strict

  # JSON output for CI/CD
  vendorgate lint --file rules.yaml --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate (default: rules.path from config)")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json, csv")
}

// LintResult is the lint outcome for one rule file.
type LintResult struct {
	File             string        `json:"file"`
	Valid            bool          `json:"valid"`
	PortalFields     int           `json:"portal_fields"`
	CrossSourceRules int           `json:"cross_source_rules"`
	Errors           []rules.Issue `json:"errors,omitempty"`
	Warnings         []rules.Issue `json:"warnings,omitempty"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	path := lintFlags.file
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Rules.Path
	}

	result := lintFile(path)

	out := commandOutput(cmd)
	if err := cli.NewFormatter(format).FormatTo(out, result); err != nil {
		return cli.NewCommandError("lint", err)
	}

	if !result.Valid {
		return cli.NewValidationFailure("lint", fmt.Errorf("%s: %d error(s)", path, len(result.Errors)))
	}
	if lintFlags.strict && len(result.Warnings) > 0 {
		if format == cli.FormatText {
			fmt.Fprintln(out, "  Strict mode enabled: treating warnings as errors")
		}
		return cli.NewValidationFailure("lint", fmt.Errorf("%s: %d warning(s)", path, len(result.Warnings)))
	}
	return nil
}

func lintFile(path string) LintResult {
	result := LintResult{File: path, Valid: true}

	cfg, err := rules.Load(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, rules.Issue{
			Subject: path,
			Level:   rules.LevelError,
			Message: err.Error(),
		})
		return result
	}
	result.PortalFields = len(cfg.PortalFields)
	result.CrossSourceRules = len(cfg.CrossSourceRules)

	for _, issue := range rules.Lint(cfg) {
		switch issue.Level {
		case rules.LevelError:
			result.Valid = false
			result.Errors = append(result.Errors, issue)
		default:
			result.Warnings = append(result.Warnings, issue)
		}
	}
	return result
}

// String renders the result in the text format.
func (r LintResult) String() string {
	s := fmt.Sprintf("Validating %s...\n", r.File)
	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		s += "✓ Syntax valid\n"
		s += fmt.Sprintf("✓ %d portal field(s), %d cross-source rule(s)\n", r.PortalFields, r.CrossSourceRules)
	}
	for _, e := range r.Errors {
		s += fmt.Sprintf("✗ Error: %s: %s\n", e.Subject, e.Message)
	}
	for _, w := range r.Warnings {
		s += fmt.Sprintf("⚠  Warning: %s: %s\n", w.Subject, w.Message)
	}
	s += "\nSummary:\n"
	s += fmt.Sprintf("  %d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
	return s
}

func (r LintResult) Header() []string {
	return []string{"file", "level", "subject", "message"}
}

func (r LintResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Errors)+len(r.Warnings))
	for _, list := range [][]rules.Issue{r.Errors, r.Warnings} {
		for _, i := range list {
			rows = append(rows, []string{r.File, string(i.Level), i.Subject, i.Message})
		}
	}
	return rows
}

// commandOutput returns the command's stdout, or os.Stdout when the run
// function is called without a command.
func commandOutput(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}
