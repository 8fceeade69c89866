// Package config provides service configuration for vendorgate.
//
// Configuration is loaded from a YAML file, completed with defaults,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("vendorgate.yaml")
//
// An empty path skips the file and starts from defaults.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention VENDORGATE_SECTION_FIELD:
//
//   - VENDORGATE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - VENDORGATE_SINK_BACKEND overrides sink.backend
//   - VENDORGATE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Two names are honoured for compatibility with existing deployments:
// PORTAL_VALIDATION_CONFIG_PATH sets rules.path and WATHQ_API_KEY sets
// registry.api_key. The VENDORGATE_ names win when both are set.
//
// # Validation
//
// All field errors are collected and reported together:
//
//	configuration validation failed with 2 errors:
//	  - sink.backend: invalid backend "bigquery": must be 'memory', 'sqlite', or 'postgres'
//	  - registry.api_key: api key is required when the registry is enabled
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//
//	rules:
//	  path: "configs/portal_validation_config.json"
//
//	sink:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/validations.db"
//
//	registry:
//	  enabled: true
//	  cache:
//	    backend: "redis"
//	    redis_url: "redis://localhost:6379/0"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
