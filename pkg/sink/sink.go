// Package sink persists per-field validation outcomes.
//
// Every backend writes one row per portal field to the
// supplier_field_validation table with the columns supplier_id, field_name,
// field_value, is_valid, failure_reason and created_at. Writes are not
// retried; a failed write is returned to the caller as a *StorageError.
package sink

import (
	"context"
	"fmt"
	"time"

	"mercator-hq/vendorgate/pkg/portal"
)

// TableName is the table every backend writes to.
const TableName = "supplier_field_validation"

// Row is one persisted field outcome.
type Row struct {
	SupplierID    string
	FieldName     string
	FieldValue    *string
	IsValid       bool
	FailureReason *string
	CreatedAt     time.Time
}

// Sink stores validation rows.
type Sink interface {
	// Write stores rows atomically.
	Write(ctx context.Context, rows []Row) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// RowsFromResults builds one row per field result, all stamped with
// createdAt.
func RowsFromResults(supplierID string, results []portal.FieldResult, createdAt time.Time) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, Row{
			SupplierID:    supplierID,
			FieldName:     r.FieldName,
			FieldValue:    r.Value,
			IsValid:       r.IsValid,
			FailureReason: r.FailureReason,
			CreatedAt:     createdAt.UTC(),
		})
	}
	return rows
}

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
