package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/vendorgate/pkg/batch"
	"mercator-hq/vendorgate/pkg/cli"
	"mercator-hq/vendorgate/pkg/validation"
)

var batchFlags struct {
	vendorID      string
	portalRoot    string
	reportDir     string
	withDocuments bool
	schedule      string
	progress      bool
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Validate every portal file in a folder",
	Long: `Validate every <vendor>.json portal file in the portal folder and write
one <vendor>_portal_report.json per vendor to the report folder.

A vendor whose file cannot be read or whose report cannot be written is
reported and skipped; the run continues with the next vendor and the
command exits non-zero at the end.

Examples:
  # Validate every vendor in the configured folders
  vendorgate batch

  # One vendor, custom folders
  vendorgate batch --vendor-id ACME --portal-root data/portal --report-dir out/

  # Gather documents too, so cross-source rules are evaluated
  vendorgate batch --with-documents

  # Keep running on a cron schedule until interrupted
  vendorgate batch --schedule "0 2 * * *"`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchFlags.vendorID, "vendor-id", "", "validate only this vendor")
	batchCmd.Flags().StringVar(&batchFlags.portalRoot, "portal-root", "", "override batch.portal_root")
	batchCmd.Flags().StringVar(&batchFlags.reportDir, "report-dir", "", "override batch.report_dir")
	batchCmd.Flags().BoolVar(&batchFlags.withDocuments, "with-documents", false, "gather documents for each vendor")
	batchCmd.Flags().StringVar(&batchFlags.schedule, "schedule", "", "cron schedule; run until interrupted")
	batchCmd.Flags().BoolVar(&batchFlags.progress, "progress", false, "show progress on stderr")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchFlags.portalRoot != "" {
		cfg.Batch.PortalRoot = batchFlags.portalRoot
	}
	if batchFlags.reportDir != "" {
		cfg.Batch.ReportDir = batchFlags.reportDir
	}
	if batchFlags.withDocuments {
		cfg.Batch.WithDocuments = true
	}
	if batchFlags.schedule != "" {
		cfg.Batch.Schedule = batchFlags.schedule
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, cfg, logger, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	out := commandOutput(cmd)
	runnerCfg := batch.Config{
		PortalRoot:    cfg.Batch.PortalRoot,
		ReportDir:     cfg.Batch.ReportDir,
		VendorID:      batchFlags.vendorID,
		WithDocuments: cfg.Batch.WithDocuments,
		Out:           out,
		Logger:        logger,
	}
	if cfg.Batch.WithDocuments {
		runnerCfg.Gatherer = a.gatherer
	}
	if batchFlags.progress && cmd != nil {
		runnerCfg.Progress = batch.NewTextProgress(cmd.ErrOrStderr())
	}
	runner := batch.NewRunner(a.engine, runnerCfg)

	if cfg.Batch.Schedule != "" {
		scheduler := batch.NewScheduler(runner, cfg.Batch.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewConfigError("batch.schedule", err.Error())
		}
		if next := scheduler.NextRun(); next != nil {
			fmt.Fprintf(out, "Scheduled %q, next run at %s\n", cfg.Batch.Schedule, next.Format("2006-01-02 15:04:05"))
		}
		<-ctx.Done()
		scheduler.Stop()
		return nil
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return cli.NewCommandError("batch", err)
	}
	printBatchSummary(out, summary)

	if n := summary.Errors(); n > 0 {
		return cli.NewCommandError("batch", fmt.Errorf("%d vendor(s) could not be processed", n))
	}
	return nil
}

func printBatchSummary(w io.Writer, s *batch.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d vendor(s) in %s\n", len(s.Vendors), s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  PASS: %d  WARNING: %d  FAIL: %d  errors: %d\n",
		s.Count(validation.StatusPass),
		s.Count(validation.StatusWarning),
		s.Count(validation.StatusFail),
		s.Errors(),
	)
	for _, v := range s.Vendors {
		if v.Err != nil {
			fmt.Fprintf(w, "  ✗ %s: %v\n", v.VendorID, v.Err)
		}
	}
}
