package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/vendorgate/pkg/cli"
	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/documents"
	"mercator-hq/vendorgate/pkg/registry"
	"mercator-hq/vendorgate/pkg/rules"
	"mercator-hq/vendorgate/pkg/sink"
	"mercator-hq/vendorgate/pkg/supplier"
	"mercator-hq/vendorgate/pkg/telemetry/health"
	"mercator-hq/vendorgate/pkg/telemetry/logging"
	"mercator-hq/vendorgate/pkg/telemetry/metrics"
	"mercator-hq/vendorgate/pkg/telemetry/tracing"
	"mercator-hq/vendorgate/pkg/validation"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	engine   *validation.Engine
	sink     sink.Sink
	registry registry.Lookuper
	gatherer *documents.Gatherer
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	checker  *health.Checker
	service  *supplier.Service
	closers  []func() error
}

// appOptions selects the optional parts of the wiring.
type appOptions struct {
	// withSink opens the configured sink. Without it results are not
	// persisted.
	withSink bool

	// withTracing starts the OTLP exporter when tracing is enabled.
	withTracing bool
}

// loadConfig loads the config file with environment overrides and applies
// the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) && len(verr.Errors) > 0 {
			first := verr.Errors[0]
			return nil, cli.NewConfigError(first.Field, err.Error())
		}
		return nil, cli.NewConfigError("", err.Error())
	}
	if logLevel != "" {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return nil, cli.NewConfigError("log-level", err.Error())
		}
		cfg.Telemetry.Logging.Level = logLevel
	}
	return cfg, nil
}

// newLogger builds the root logger and installs it as the slog default.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return logger, nil
}

// newApp wires every component from cfg. Call Close when done.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts appOptions) (_ *app, err error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		tracer:  tracing.Noop(),
		checker: health.New(cfg.Telemetry.Health.CheckTimeout),
	}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	ruleCfg, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, cli.NewConfigError("rules.path", err.Error())
	}
	a.engine = validation.New(ruleCfg, validation.DefaultEngineConfig())

	if cfg.Telemetry.Metrics.Enabled {
		a.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	}

	if opts.withTracing && cfg.Telemetry.Tracing.Enabled {
		a.tracer, err = tracing.New(&cfg.Telemetry.Tracing, Version)
		if err != nil {
			return nil, cli.NewConfigError("telemetry.tracing", err.Error())
		}
		a.closers = append(a.closers, func() error { return a.tracer.Shutdown(context.Background()) })
	}

	if opts.withSink {
		a.sink, err = sink.New(ctx, sinkConfig(cfg.Sink))
		if err != nil {
			return nil, fmt.Errorf("open %s sink: %w", cfg.Sink.Backend, err)
		}
		a.closers = append(a.closers, a.sink.Close)
		a.checker.RegisterCheck("sink", health.PingCheck(a.sink))
	}

	if cfg.Registry.Enabled {
		if err := a.buildRegistry(ctx); err != nil {
			return nil, err
		}
	}

	sources, err := a.buildSources(ctx)
	if err != nil {
		return nil, err
	}
	a.gatherer = documents.NewGatherer(documents.GathererConfig{
		Timeout: cfg.Documents.GatherTimeout,
		Metrics: a.metrics,
		Logger:  logger,
	}, sources...)

	a.service = supplier.NewService(a.engine, a.gatherer, a.sink,
		supplier.WithLogger(logger),
		supplier.WithMetrics(a.metrics),
		supplier.WithTracer(a.tracer),
		supplier.WithSinkBackend(cfg.Sink.Backend),
	)

	logger.Debug("components wired",
		"rules_path", cfg.Rules.Path,
		"portal_fields", len(ruleCfg.PortalFields),
		"cross_source_rules", len(ruleCfg.CrossSourceRules),
		"sink", cfg.Sink.Backend,
		"sources", a.gatherer.Sources(),
	)
	return a, nil
}

func (a *app) buildRegistry(ctx context.Context) error {
	cfg := a.cfg.Registry
	client := registry.NewClient(registry.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}, nil, a.logger)

	var cache registry.Cache
	switch cfg.Cache.Backend {
	case "none":
		a.registry = client
		return nil
	case "redis":
		rdb, err := registry.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("registry cache: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		redisCache := registry.NewRedisCache(rdb, "")
		a.checker.RegisterCheck("registry_cache", health.PingCheck(redisCache))
		cache = redisCache
	default:
		cache = registry.NewMemoryCache()
	}

	a.registry = registry.NewCachedClient(client, cache, cfg.Cache.TTL, a.metrics, a.logger)
	return nil
}

func (a *app) buildSources(ctx context.Context) ([]documents.Source, error) {
	cfg := a.cfg.Documents
	var sources []documents.Source

	if cfg.StructuredRoot != "" || cfg.OCRRoot != "" || cfg.MasterRoot != "" {
		sources = append(sources, documents.NewFolderSource(documents.FolderConfig{
			StructuredRoot: cfg.StructuredRoot,
			OCRRoot:        cfg.OCRRoot,
			MasterRoot:     cfg.MasterRoot,
		}))
	}

	if cfg.S3.Enabled {
		s3Source, err := documents.NewS3Source(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 document source: %w", err)
		}
		sources = append(sources, s3Source)
	}

	if a.registry != nil {
		sources = append(sources, documents.NewRegistrySource(a.registry, a.logger))
	}
	return sources, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func sinkConfig(cfg config.SinkConfig) sink.Config {
	return sink.Config{
		Backend: cfg.Backend,
		SQLite: &sink.SQLiteConfig{
			Path:        cfg.SQLite.Path,
			Driver:      cfg.SQLite.Driver,
			WALMode:     cfg.SQLite.WALMode,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		},
		Postgres: &sink.PostgresConfig{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			ConnectTimeout: cfg.Postgres.ConnectTimeout,
			CreateSchema:   cfg.Postgres.CreateSchema,
		},
	}
}
