package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig contains configuration for the PostgreSQL sink.
type PostgresConfig struct {
	// DSN is the connection string.
	DSN string

	// MaxConns is the pool size.
	// Default: 10
	MaxConns int32

	// ConnectTimeout bounds pool creation and the initial ping.
	// Default: 10 seconds
	ConnectTimeout time.Duration

	// CreateSchema creates the table on startup when true.
	// Default: true
	CreateSchema bool
}

// DefaultPostgresConfig returns the default PostgreSQL configuration.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		MaxConns:       10,
		ConnectTimeout: 10 * time.Second,
		CreateSchema:   true,
	}
}

// pgxPool is the subset of *pgxpool.Pool used by the sink.
type pgxPool interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresSink writes rows to PostgreSQL using COPY.
type PostgresSink struct {
	pool   pgxPool
	logger *slog.Logger
}

// NewPostgresSink connects to PostgreSQL and optionally creates the schema.
func NewPostgresSink(ctx context.Context, config *PostgresConfig) (*PostgresSink, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}

	poolCfg, err := pgxpool.ParseConfig(config.DSN)
	if err != nil {
		return nil, NewStorageError("postgres", "parse_config", err)
	}
	if config.MaxConns > 0 {
		poolCfg.MaxConns = config.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, NewStorageError("postgres", "connect", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, NewStorageError("postgres", "ping", err)
	}

	s := newPostgresSink(pool)
	if config.CreateSchema {
		if _, err := pool.Exec(connectCtx, PostgresSchema); err != nil {
			pool.Close()
			return nil, NewStorageError("postgres", "create_schema", err)
		}
	}

	s.logger.Info("PostgreSQL sink initialized", "max_conns", poolCfg.MaxConns)
	return s, nil
}

func newPostgresSink(pool pgxPool) *PostgresSink {
	return &PostgresSink{
		pool:   pool,
		logger: slog.Default().With("component", "sink.postgres"),
	}
}

// Write copies rows into the table. COPY is atomic: either every row is
// stored or none is.
func (s *PostgresSink) Write(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{TableName}, columns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		r := rows[i]
		return []any{r.SupplierID, r.FieldName, r.FieldValue, r.IsValid, r.FailureReason, r.CreatedAt.UTC()}, nil
	}))
	if err != nil {
		return NewStorageError("postgres", "copy", err)
	}

	s.logger.Debug("rows written", "count", n, "supplier_id", rows[0].SupplierID)
	return nil
}

// Ping checks the pool.
func (s *PostgresSink) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return NewStorageError("postgres", "ping", err)
	}
	return nil
}

// Close closes the pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
