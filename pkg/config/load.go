package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VENDORGATE_"

// Legacy environment variable names.
const (
	EnvRulesPath      = "PORTAL_VALIDATION_CONFIG_PATH"
	EnvRegistryAPIKey = "WATHQ_API_KEY"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults. The configuration is not modified by
// environment variables; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Unmarshalling over the defaults keeps values for omitted keys.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format VENDORGATE_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	envDuration("SERVER_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)
	if val := os.Getenv(EnvPrefix + "SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}
	envBool("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	envString("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	envString("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)
	envString("SERVER_TLS_MIN_VERSION", &cfg.Server.TLS.MinVersion)
	envString("SERVER_TLS_CLIENT_CA_FILE", &cfg.Server.TLS.ClientCAFile)
	envBool("SERVER_RATE_LIMIT_ENABLED", &cfg.Server.RateLimit.Enabled)
	if val := os.Getenv(EnvPrefix + "SERVER_RATE_LIMIT_REQUESTS_PER_SECOND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Server.RateLimit.RequestsPerSecond = f
		}
	}
	if val := os.Getenv(EnvPrefix + "SERVER_RATE_LIMIT_BURST"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.RateLimit.Burst = i
		}
	}
	envBool("SERVER_AUTH_ENABLED", &cfg.Server.Auth.Enabled)
	envString("SERVER_AUTH_HEADER", &cfg.Server.Auth.Header)
	if val := os.Getenv(EnvPrefix + "SERVER_AUTH_KEYS"); val != "" {
		cfg.Server.Auth.Keys = parseAPIKeys(val)
	}

	// Rules overrides
	if val := os.Getenv(EnvRulesPath); val != "" {
		cfg.Rules.Path = val
	}
	envString("RULES_PATH", &cfg.Rules.Path)

	// Sink overrides
	envString("SINK_BACKEND", &cfg.Sink.Backend)
	envString("SINK_SQLITE_PATH", &cfg.Sink.SQLite.Path)
	envString("SINK_SQLITE_DRIVER", &cfg.Sink.SQLite.Driver)
	envBool("SINK_SQLITE_WAL_MODE", &cfg.Sink.SQLite.WALMode)
	envDuration("SINK_SQLITE_BUSY_TIMEOUT", &cfg.Sink.SQLite.BusyTimeout)
	envString("SINK_POSTGRES_DSN", &cfg.Sink.Postgres.DSN)
	if val := os.Getenv(EnvPrefix + "SINK_POSTGRES_MAX_CONNS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 32); err == nil {
			cfg.Sink.Postgres.MaxConns = int32(i)
		}
	}
	envDuration("SINK_POSTGRES_CONNECT_TIMEOUT", &cfg.Sink.Postgres.ConnectTimeout)
	envBool("SINK_POSTGRES_CREATE_SCHEMA", &cfg.Sink.Postgres.CreateSchema)

	// Documents overrides
	envString("DOCUMENTS_STRUCTURED_ROOT", &cfg.Documents.StructuredRoot)
	envString("DOCUMENTS_OCR_ROOT", &cfg.Documents.OCRRoot)
	envString("DOCUMENTS_MASTER_ROOT", &cfg.Documents.MasterRoot)
	envDuration("DOCUMENTS_GATHER_TIMEOUT", &cfg.Documents.GatherTimeout)
	envBool("DOCUMENTS_S3_ENABLED", &cfg.Documents.S3.Enabled)
	envString("DOCUMENTS_S3_BUCKET", &cfg.Documents.S3.Bucket)
	envString("DOCUMENTS_S3_PREFIX", &cfg.Documents.S3.Prefix)
	envString("DOCUMENTS_S3_REGION", &cfg.Documents.S3.Region)
	envString("DOCUMENTS_S3_ENDPOINT", &cfg.Documents.S3.Endpoint)
	envString("DOCUMENTS_S3_ACCESS_KEY_ID", &cfg.Documents.S3.AccessKeyID)
	envString("DOCUMENTS_S3_SECRET_ACCESS_KEY", &cfg.Documents.S3.SecretAccessKey)
	envBool("DOCUMENTS_S3_USE_PATH_STYLE", &cfg.Documents.S3.UsePathStyle)

	// Registry overrides
	envBool("REGISTRY_ENABLED", &cfg.Registry.Enabled)
	envString("REGISTRY_BASE_URL", &cfg.Registry.BaseURL)
	if val := os.Getenv(EnvRegistryAPIKey); val != "" {
		cfg.Registry.APIKey = val
	}
	envString("REGISTRY_API_KEY", &cfg.Registry.APIKey)
	envDuration("REGISTRY_TIMEOUT", &cfg.Registry.Timeout)
	envString("REGISTRY_CACHE_BACKEND", &cfg.Registry.Cache.Backend)
	envString("REGISTRY_CACHE_REDIS_URL", &cfg.Registry.Cache.RedisURL)
	envDuration("REGISTRY_CACHE_TTL", &cfg.Registry.Cache.TTL)

	// Batch overrides
	envString("BATCH_PORTAL_ROOT", &cfg.Batch.PortalRoot)
	envString("BATCH_REPORT_DIR", &cfg.Batch.ReportDir)
	envBool("BATCH_WITH_DOCUMENTS", &cfg.Batch.WithDocuments)
	envString("BATCH_SCHEDULE", &cfg.Batch.Schedule)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_REDACT_KEYS"); val != "" {
		cfg.Telemetry.Logging.RedactKeys = splitList(val)
	}
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envString("TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)
	envBool("TELEMETRY_TRACING_OTLP_INSECURE", &cfg.Telemetry.Tracing.OTLP.Insecure)
	envDuration("TELEMETRY_HEALTH_CHECK_TIMEOUT", &cfg.Telemetry.Health.CheckTimeout)
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

// envDuration ignores unparseable values.
func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// parseAPIKeys reads a comma-separated list of name=key pairs. An entry
// without '=' is a key named after its position.
func parseAPIKeys(val string) []APIKey {
	var keys []APIKey
	for i, part := range splitList(val) {
		name, key, ok := strings.Cut(part, "=")
		if !ok {
			name, key = fmt.Sprintf("key-%d", i+1), part
		}
		keys = append(keys, APIKey{Name: strings.TrimSpace(name), Key: strings.TrimSpace(key)})
	}
	return keys
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
