package supplier

import (
	"errors"
	"fmt"
)

// ErrMissingSupplierID is returned when a request carries no supplier id.
var ErrMissingSupplierID = errors.New("supplier_id is required")

// SinkError reports that results were computed but could not be persisted.
type SinkError struct {
	SupplierID string
	Err        error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("supplier %q: persist results: %v", e.SupplierID, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
