package documents

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCRNumber is returned by RegistrySource when the portal document
	// carries no commercial registration number.
	ErrNoCRNumber = errors.New("no commercial registration number in portal document")

	// ErrInvalidVendorID is returned for vendor ids that are not a single
	// path segment.
	ErrInvalidVendorID = errors.New("invalid vendor id")
)

// SourceError wraps a failure from one source.
type SourceError struct {
	Source   string
	VendorID string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("documents: source %s for vendor %q: %v", e.Source, e.VendorID, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
