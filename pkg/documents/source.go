package documents

import (
	"context"
	"strings"

	"mercator-hq/vendorgate/pkg/validation"
)

// Source yields the documents available for one vendor.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Fetch returns documents keyed by doc_type. Missing documents are not
	// an error.
	Fetch(ctx context.Context, vendorID string, portal map[string]any) (validation.Documents, error)
}

// checkVendorID rejects ids that would escape the per-vendor directory or
// key prefix.
func checkVendorID(vendorID string) error {
	if vendorID == "" || vendorID == "." || vendorID == ".." ||
		strings.ContainsAny(vendorID, `/\`) {
		return ErrInvalidVendorID
	}
	return nil
}

// docTypeOf returns the doc_type declared inside doc, or fallback.
func docTypeOf(doc map[string]any, fallback string) string {
	if dt, ok := doc["doc_type"].(string); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return fallback
}
