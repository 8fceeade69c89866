package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendorgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Rules.Path != DefaultRulesPath {
		t.Errorf("Rules.Path = %q, want %q", cfg.Rules.Path, DefaultRulesPath)
	}
	if cfg.Sink.Backend != "memory" {
		t.Errorf("Sink.Backend = %q, want memory", cfg.Sink.Backend)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Registry.Timeout != 15*time.Second {
		t.Errorf("Registry.Timeout = %v, want 15s", cfg.Registry.Timeout)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:9090"
  request_timeout: 5s
sink:
  backend: sqlite
  sqlite:
    path: /tmp/results.db
    wal_mode: true
registry:
  enabled: true
  api_key: secret
  cache:
    backend: none
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q, want 0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.Server.RequestTimeout)
	}
	// Omitted keys keep their defaults.
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if cfg.Sink.SQLite.Path != "/tmp/results.db" || !cfg.Sink.SQLite.WALMode {
		t.Errorf("SQLite = %+v, want path /tmp/results.db with WAL", cfg.Sink.SQLite)
	}
	if cfg.Sink.SQLite.Driver != DefaultSQLiteDriver {
		t.Errorf("SQLite.Driver = %q, want %q", cfg.Sink.SQLite.Driver, DefaultSQLiteDriver)
	}
	if cfg.Registry.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q, want none", cfg.Registry.Cache.Backend)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want text", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadConfig() error = nil, want error")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [unclosed")
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() error = nil, want error")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, "sink:\n  backend: bigquery\n")
		_, err := LoadConfig(path)
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("LoadConfig() error = %v, want ValidationError", err)
		}
		if verr.Errors[0].Field != "sink.backend" {
			t.Errorf("Field = %q, want sink.backend", verr.Errors[0].Field)
		}
	})
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8000"
rules:
  path: from-file.json
`)

	t.Setenv("VENDORGATE_SERVER_LISTEN_ADDRESS", "0.0.0.0:7000")
	t.Setenv("VENDORGATE_SERVER_READ_TIMEOUT", "7s")
	t.Setenv("VENDORGATE_SINK_SQLITE_WAL_MODE", "true")
	t.Setenv("VENDORGATE_TELEMETRY_LOGGING_REDACT_KEYS", "iban, national_id,")
	t.Setenv("VENDORGATE_DOCUMENTS_OCR_ROOT", "/data/ocr")
	t.Setenv("PORTAL_VALIDATION_CONFIG_PATH", "from-env.json")
	t.Setenv("WATHQ_API_KEY", "wathq-key")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7000" {
		t.Errorf("ListenAddress = %q, want 0.0.0.0:7000", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 7*time.Second {
		t.Errorf("ReadTimeout = %v, want 7s", cfg.Server.ReadTimeout)
	}
	if !cfg.Sink.SQLite.WALMode {
		t.Error("WALMode = false, want true")
	}
	if got := cfg.Telemetry.Logging.RedactKeys; len(got) != 2 || got[0] != "iban" || got[1] != "national_id" {
		t.Errorf("RedactKeys = %v, want [iban national_id]", got)
	}
	if cfg.Documents.OCRRoot != "/data/ocr" {
		t.Errorf("OCRRoot = %q, want /data/ocr", cfg.Documents.OCRRoot)
	}
	if cfg.Rules.Path != "from-env.json" {
		t.Errorf("Rules.Path = %q, want from-env.json", cfg.Rules.Path)
	}
	if cfg.Registry.APIKey != "wathq-key" {
		t.Errorf("Registry.APIKey = %q, want wathq-key", cfg.Registry.APIKey)
	}
}

func TestLoadConfigWithEnvOverrides_PrefixedNameWins(t *testing.T) {
	t.Setenv("PORTAL_VALIDATION_CONFIG_PATH", "legacy.json")
	t.Setenv("VENDORGATE_RULES_PATH", "prefixed.json")
	t.Setenv("WATHQ_API_KEY", "legacy-key")
	t.Setenv("VENDORGATE_REGISTRY_API_KEY", "prefixed-key")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Rules.Path != "prefixed.json" {
		t.Errorf("Rules.Path = %q, want prefixed.json", cfg.Rules.Path)
	}
	if cfg.Registry.APIKey != "prefixed-key" {
		t.Errorf("Registry.APIKey = %q, want prefixed-key", cfg.Registry.APIKey)
	}
}

func TestLoadConfigWithEnvOverrides_IgnoresUnparseable(t *testing.T) {
	t.Setenv("VENDORGATE_SERVER_READ_TIMEOUT", "soon")
	t.Setenv("VENDORGATE_TELEMETRY_METRICS_ENABLED", "maybe")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want default true")
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	cfg.Server.ListenAddress = "0.0.0.0:1"
	ApplyDefaults(cfg)
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:1" {
		t.Errorf("ListenAddress = %q, want 0.0.0.0:1", cfg.Server.ListenAddress)
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) != len(DefaultDurationBuckets) {
		t.Errorf("DurationBuckets = %v, want %v", cfg.Telemetry.Metrics.DurationBuckets, DefaultDurationBuckets)
	}
}

func TestLoadConfig_SampleFile(t *testing.T) {
	cfg, err := LoadConfig("../../configs/vendorgate.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Sink.Backend != "sqlite" {
		t.Errorf("Sink.Backend = %q, want sqlite", cfg.Sink.Backend)
	}
	if cfg.Sink.SQLite.BusyTimeout != 5*time.Second {
		t.Errorf("Sink.SQLite.BusyTimeout = %v, want 5s", cfg.Sink.SQLite.BusyTimeout)
	}
	if cfg.Registry.Cache.TTL != 24*time.Hour {
		t.Errorf("Registry.Cache.TTL = %v, want 24h", cfg.Registry.Cache.TTL)
	}
	if cfg.Documents.MasterRoot != "data/master" {
		t.Errorf("Documents.MasterRoot = %q, want data/master", cfg.Documents.MasterRoot)
	}
}

func TestLoadConfigWithEnvOverrides_AuthKeys(t *testing.T) {
	t.Setenv("VENDORGATE_SERVER_AUTH_ENABLED", "true")
	t.Setenv("VENDORGATE_SERVER_AUTH_KEYS", "portal=abc123, batch-only-key")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	want := []APIKey{{Name: "portal", Key: "abc123"}, {Name: "key-2", Key: "batch-only-key"}}
	if len(cfg.Server.Auth.Keys) != len(want) {
		t.Fatalf("Auth.Keys = %+v, want %+v", cfg.Server.Auth.Keys, want)
	}
	for i, k := range want {
		if cfg.Server.Auth.Keys[i] != k {
			t.Errorf("Auth.Keys[%d] = %+v, want %+v", i, cfg.Server.Auth.Keys[i], k)
		}
	}
	if cfg.Server.Auth.Header != DefaultAuthHeader {
		t.Errorf("Auth.Header = %q, want %q", cfg.Server.Auth.Header, DefaultAuthHeader)
	}
}
