package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/vendorgate/pkg/batch"
	"mercator-hq/vendorgate/pkg/cli"
	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/server"
	"mercator-hq/vendorgate/pkg/telemetry/health"
)

var serveFlags struct {
	listenAddress string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation HTTP server",
	Long: `Start the validation HTTP server with the specified configuration.

When batch.schedule is set, the folder batch runner is also run on that
schedule for as long as the server is up.

Examples:
  # Start with defaults (memory sink, rules from configs/)
  vendorgate serve

  # Start with a config file
  vendorgate serve --config /etc/vendorgate/vendorgate.yaml

  # Override listen address
  vendorgate serve --listen 0.0.0.0:8080

  # Validate config and rules without starting the server
  vendorgate serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and rules without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
		if err := config.Validate(cfg); err != nil {
			return cli.NewConfigError("server.listen_address", err.Error())
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, cfg, logger, appOptions{withSink: !serveFlags.dryRun, withTracing: !serveFlags.dryRun})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Error("failed to release resources", "error", err)
		}
	}()

	if serveFlags.dryRun {
		ruleCfg := a.engine.Rules()
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration valid: %d portal field(s), %d cross-source rule(s)\n",
			len(ruleCfg.PortalFields), len(ruleCfg.CrossSourceRules))
		return nil
	}

	if cfg.Batch.Schedule != "" {
		runner := batch.NewRunner(a.engine, batch.Config{
			PortalRoot:    cfg.Batch.PortalRoot,
			ReportDir:     cfg.Batch.ReportDir,
			WithDocuments: cfg.Batch.WithDocuments,
			Gatherer:      a.gatherer,
			Metrics:       a.metrics,
			Logger:        logger,
		})
		scheduler := batch.NewScheduler(runner, cfg.Batch.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewConfigError("batch.schedule", err.Error())
		}
		defer scheduler.Stop()
	}

	srv := server.NewServer(&cfg.Server, server.Options{
		Service:       a.service,
		Checker:       a.checker,
		Metrics:       a.metrics,
		Tracer:        a.tracer,
		Logger:        logger,
		Version:       health.VersionInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate},
		MetricsPath:   cfg.Telemetry.Metrics.Path,
		LivenessPath:  cfg.Telemetry.Health.LivenessPath,
		ReadinessPath: cfg.Telemetry.Health.ReadinessPath,
	})

	logger.Info("vendorgate starting",
		"version", Version,
		"pid", os.Getpid(),
		"rules", cfg.Rules.Path,
		"sink", cfg.Sink.Backend,
	)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}
