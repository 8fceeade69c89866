package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakePool struct {
	table   pgx.Identifier
	columns []string
	rows    [][]any
	copyErr error
	closed  bool
}

func (p *fakePool) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if p.copyErr != nil {
		return 0, p.copyErr
	}
	p.table, p.columns = table, columns
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}
		p.rows = append(p.rows, values)
	}
	return int64(len(p.rows)), src.Err()
}

func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Ping(ctx context.Context) error { return nil }

func (p *fakePool) Close() { p.closed = true }

func TestPostgresSink_Write(t *testing.T) {
	pool := &fakePool{}
	s := newPostgresSink(pool)

	if err := s.Write(context.Background(), sampleRows()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(pool.table) != 1 || pool.table[0] != TableName {
		t.Errorf("table = %v, want %s", pool.table, TableName)
	}
	if len(pool.columns) != 6 || pool.columns[0] != "supplier_id" || pool.columns[5] != "created_at" {
		t.Errorf("columns = %v", pool.columns)
	}
	if len(pool.rows) != 2 {
		t.Fatalf("copied %d rows, want 2", len(pool.rows))
	}
	if pool.rows[1][1] != "email" || pool.rows[1][3] != false {
		t.Errorf("row 1 = %v", pool.rows[1])
	}

	if err := s.Close(); err != nil || !pool.closed {
		t.Errorf("Close() error = %v, closed = %v", err, pool.closed)
	}
}

func TestPostgresSink_WriteError(t *testing.T) {
	s := newPostgresSink(&fakePool{copyErr: errors.New("connection reset")})

	err := s.Write(context.Background(), sampleRows())
	var se *StorageError
	if !errors.As(err, &se) || se.Operation != "copy" {
		t.Fatalf("Write() error = %v, want copy *StorageError", err)
	}
}
