package sink

import (
	"context"
	"sync"
)

// MemorySink keeps rows in memory. It is used when no database is
// configured and in tests.
type MemorySink struct {
	mu   sync.Mutex
	rows []Row
	err  error
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// FailWith makes subsequent writes return err. A nil err restores normal
// behaviour.
func (s *MemorySink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Write appends rows.
func (s *MemorySink) Write(ctx context.Context, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return NewStorageError("memory", "write", s.err)
	}
	s.rows = append(s.rows, rows...)
	return nil
}

// Rows returns a copy of every stored row.
func (s *MemorySink) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Ping always succeeds.
func (s *MemorySink) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *MemorySink) Close() error { return nil }
