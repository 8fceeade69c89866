package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 20 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultCORSMaxAge      = 3600
	DefaultTLSMinVersion   = "1.2"
	DefaultAuthHeader      = "X-API-Key"
	DefaultRateLimitRPS    = 10.0

	// Rules defaults
	DefaultRulesPath = "configs/portal_validation_config.json"

	// Sink defaults
	DefaultSinkBackend            = "memory"
	DefaultSQLitePath             = "data/validations.db"
	DefaultSQLiteDriver           = "sqlite"
	DefaultSQLiteBusyTimeout      = 5 * time.Second
	DefaultPostgresMaxConns       = int32(10)
	DefaultPostgresConnectTimeout = 10 * time.Second

	// Documents defaults
	DefaultGatherTimeout = 10 * time.Second
	DefaultS3Region      = "us-east-1"

	// Registry defaults
	DefaultRegistryBaseURL  = "https://api.wathq.sa"
	DefaultRegistryTimeout  = 15 * time.Second
	DefaultRegistryCache    = "memory"
	DefaultRegistryCacheTTL = 24 * time.Hour

	// Batch defaults
	DefaultBatchPortalRoot = "data/portal"
	DefaultBatchReportDir  = "reports"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "vendorgate"
	DefaultMetricsSubsystem   = "validation"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingService     = "vendorgate"
	DefaultOTLPTimeout        = 10 * time.Second
	DefaultLivenessPath       = "/health"
	DefaultReadinessPath      = "/ready"
	DefaultHealthCheckTimeout = 5 * time.Second
)

// DefaultDurationBuckets are the validation latency histogram buckets in seconds.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)

	if cfg.Rules.Path == "" {
		cfg.Rules.Path = DefaultRulesPath
	}

	applySinkDefaults(&cfg.Sink)

	if cfg.Documents.GatherTimeout == 0 {
		cfg.Documents.GatherTimeout = DefaultGatherTimeout
	}
	if cfg.Documents.S3.Region == "" {
		cfg.Documents.S3.Region = DefaultS3Region
	}

	if cfg.Registry.BaseURL == "" {
		cfg.Registry.BaseURL = DefaultRegistryBaseURL
	}
	if cfg.Registry.Timeout == 0 {
		cfg.Registry.Timeout = DefaultRegistryTimeout
	}
	if cfg.Registry.Cache.Backend == "" {
		cfg.Registry.Cache.Backend = DefaultRegistryCache
	}
	if cfg.Registry.Cache.TTL == 0 {
		cfg.Registry.Cache.TTL = DefaultRegistryCacheTTL
	}

	if cfg.Batch.PortalRoot == "" {
		cfg.Batch.PortalRoot = DefaultBatchPortalRoot
	}
	if cfg.Batch.ReportDir == "" {
		cfg.Batch.ReportDir = DefaultBatchReportDir
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if len(cfg.CORS.ExposedHeaders) == 0 {
		cfg.CORS.ExposedHeaders = []string{"X-Request-ID", "X-Trace-ID"}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = DefaultCORSMaxAge
	}
	if cfg.TLS.MinVersion == "" {
		cfg.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Auth.Header == "" {
		cfg.Auth.Header = DefaultAuthHeader
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = int(2 * cfg.RateLimit.RequestsPerSecond)
		if cfg.RateLimit.Burst < 1 {
			cfg.RateLimit.Burst = 1
		}
	}
}

func applySinkDefaults(cfg *SinkConfig) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultSinkBackend
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DefaultSQLitePath
	}
	if cfg.SQLite.Driver == "" {
		cfg.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.SQLite.BusyTimeout == 0 {
		cfg.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = DefaultPostgresMaxConns
	}
	if cfg.Postgres.ConnectTimeout == 0 {
		cfg.Postgres.ConnectTimeout = DefaultPostgresConnectTimeout
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}

	if cfg.Health.LivenessPath == "" {
		cfg.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Health.ReadinessPath == "" {
		cfg.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
