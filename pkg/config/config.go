package config

import "time"

// Config is the root configuration structure for vendorgate.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Rules locates the validation rule configuration.
	Rules RulesConfig `yaml:"rules"`

	// Sink selects where per-field results are persisted.
	Sink SinkConfig `yaml:"sink"`

	// Documents configures the sources that supply extracted documents for
	// cross-source rules.
	Documents DocumentsConfig `yaml:"documents"`

	// Registry configures commercial registry lookups.
	Registry RegistryConfig `yaml:"registry"`

	// Batch configures folder batch validation.
	Batch BatchConfig `yaml:"batch"`

	// Telemetry contains logging, metrics, tracing and health configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds each request, including document gathering and
	// the sink write.
	// Default: 20s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes limits request bodies.
	// Default: 1MB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS configures cross-origin access for browser clients.
	CORS CORSConfig `yaml:"cors"`

	// TLS configures HTTPS. Disabled serves plain HTTP.
	TLS TLSConfig `yaml:"tls"`

	// Auth configures API key authentication of the validation routes.
	Auth AuthConfig `yaml:"auth"`

	// RateLimit throttles the validation routes per client.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig contains per-client rate limits for the validation
// routes. Clients are identified by API key name when auth is enabled,
// otherwise by remote IP.
type RateLimitConfig struct {
	// Enabled turns rate limiting on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained rate per client.
	// Default: 10
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the bucket capacity per client.
	// Default: 2x RequestsPerSecond
	Burst int `yaml:"burst"`
}

// TLSConfig contains TLS settings for the HTTP server.
type TLSConfig struct {
	// Enabled turns on HTTPS.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate file.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key file.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version, "1.2" or "1.3".
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ClientCAFile enables client certificate verification against this CA
	// bundle when set.
	ClientCAFile string `yaml:"client_ca_file"`
}

// AuthConfig contains API key authentication settings.
type AuthConfig struct {
	// Enabled requires a valid API key on the validation routes. Health,
	// readiness, version and metrics stay open.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Header carries the key. A "Bearer " prefix is accepted.
	// Default: "X-API-Key"
	Header string `yaml:"header"`

	// Keys lists the accepted keys.
	Keys []APIKey `yaml:"keys"`
}

// APIKey is one accepted API key.
type APIKey struct {
	// Name identifies the caller in logs.
	Name string `yaml:"name"`

	// Key is the secret value.
	Key string `yaml:"key"`

	// Disabled rejects the key without removing it.
	Disabled bool `yaml:"disabled"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists allowed origins. Use ["*"] to allow all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists headers exposed to clients.
	// Default: ["X-Request-ID", "X-Trace-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls Access-Control-Allow-Credentials.
	AllowCredentials bool `yaml:"allow_credentials"`
}

// RulesConfig locates the rule configuration file.
type RulesConfig struct {
	// Path is the YAML or JSON rule file.
	// Default: "configs/portal_validation_config.json"
	Path string `yaml:"path"`
}

// SinkConfig selects the results store.
type SinkConfig struct {
	// Backend is "memory", "sqlite" or "postgres".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Postgres configures the postgres backend.
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite sink configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/validations.db"
	Path string `yaml:"path"`

	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// WALMode enables Write-Ahead Logging.
	// Default: false
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// PostgresConfig contains PostgreSQL sink configuration.
type PostgresConfig struct {
	// DSN is the connection string.
	DSN string `yaml:"dsn"`

	// MaxConns is the pool size.
	// Default: 10
	MaxConns int32 `yaml:"max_conns"`

	// ConnectTimeout bounds the initial connection.
	// Default: 10s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// CreateSchema creates the results table on startup.
	// Default: false
	CreateSchema bool `yaml:"create_schema"`
}

// DocumentsConfig configures document sources.
type DocumentsConfig struct {
	// StructuredRoot holds structured documents at <root>/<vendor>/<doc_type>.json.
	StructuredRoot string `yaml:"structured_root"`

	// OCRRoot holds raw OCR output at <root>/<vendor>/<name>.json.
	OCRRoot string `yaml:"ocr_root"`

	// MasterRoot holds vendor master records at <root>/<vendor>/vendor_master.json.
	MasterRoot string `yaml:"master_root"`

	// S3 configures the object storage source.
	S3 S3Config `yaml:"s3"`

	// GatherTimeout bounds document gathering for one request.
	// Default: 10s
	GatherTimeout time.Duration `yaml:"gather_timeout"`
}

// S3Config configures the S3 document source.
type S3Config struct {
	// Enabled turns the source on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Bucket is the bucket name.
	Bucket string `yaml:"bucket"`

	// Prefix is prepended to <vendor>/<doc_type>.json keys.
	Prefix string `yaml:"prefix"`

	// Region is the AWS region.
	// Default: "us-east-1"
	Region string `yaml:"region"`

	// Endpoint overrides the S3 endpoint for compatible stores.
	Endpoint string `yaml:"endpoint"`

	// AccessKeyID and SecretAccessKey set static credentials. When empty the
	// default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// UsePathStyle enables path-style addressing.
	// Default: false
	UsePathStyle bool `yaml:"use_path_style"`
}

// RegistryConfig configures commercial registry lookups.
type RegistryConfig struct {
	// Enabled turns registry lookups on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// BaseURL is the registry API root.
	// Default: "https://api.wathq.sa"
	BaseURL string `yaml:"base_url"`

	// APIKey is the registry API key.
	APIKey string `yaml:"api_key"`

	// Timeout bounds each lookup.
	// Default: 15s
	Timeout time.Duration `yaml:"timeout"`

	// Cache configures lookup caching.
	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig configures the registry cache.
type CacheConfig struct {
	// Backend is "none", "memory" or "redis".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// RedisURL is the Redis connection URL.
	RedisURL string `yaml:"redis_url"`

	// TTL is how long records are cached.
	// Default: 24h
	TTL time.Duration `yaml:"ttl"`
}

// BatchConfig configures folder batch validation.
type BatchConfig struct {
	// PortalRoot holds one <vendor>.json portal document per vendor.
	// Default: "data/portal"
	PortalRoot string `yaml:"portal_root"`

	// ReportDir receives <vendor>_portal_report.json files.
	// Default: "reports"
	ReportDir string `yaml:"report_dir"`

	// WithDocuments gathers documents for each vendor before validating.
	// Default: false
	WithDocuments bool `yaml:"with_documents"`

	// Schedule is a cron expression. Empty disables scheduled runs.
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactKeys lists additional attribute keys whose values are masked.
	RedactKeys []string `yaml:"redact_keys"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "vendorgate"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "validation"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for validation duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "vendorgate"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
