package sink

import (
	"context"
	"fmt"
)

// Backend names accepted by New.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects and configures a sink backend.
type Config struct {
	Backend  string
	SQLite   *SQLiteConfig
	Postgres *PostgresConfig
}

// New creates the sink selected by cfg.Backend.
func New(ctx context.Context, cfg Config) (Sink, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemorySink(), nil
	case BackendSQLite:
		return NewSQLiteSink(cfg.SQLite)
	case BackendPostgres:
		return NewPostgresSink(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.Backend)
	}
}
