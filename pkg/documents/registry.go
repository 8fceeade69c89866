package documents

import (
	"context"
	"errors"
	"log/slog"

	"mercator-hq/vendorgate/pkg/registry"
	"mercator-hq/vendorgate/pkg/validation"
)

// RegistrySource yields a moc_certificate document from the commercial
// registry record of the vendor's CR number.
type RegistrySource struct {
	lookuper registry.Lookuper
	logger   *slog.Logger
}

// NewRegistrySource creates a registry source. logger may be nil.
func NewRegistrySource(lookuper registry.Lookuper, logger *slog.Logger) *RegistrySource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrySource{
		lookuper: lookuper,
		logger:   logger.With("component", "documents.registry"),
	}
}

// Name implements Source.
func (s *RegistrySource) Name() string { return "registry" }

// Fetch implements Source. An unknown CR number yields no documents.
func (s *RegistrySource) Fetch(ctx context.Context, vendorID string, portal map[string]any) (validation.Documents, error) {
	cr, ok := ExtractCRFromPortal(portal)
	if !ok {
		return nil, ErrNoCRNumber
	}

	rec, err := s.lookuper.Lookup(ctx, cr)
	if errors.Is(err, registry.ErrNotFound) {
		s.logger.InfoContext(ctx, "commercial registration not found", "vendor_id", vendorID, "cr_number", cr)
		return validation.Documents{}, nil
	}
	if err != nil {
		return nil, err
	}

	return validation.Documents{registry.DocType: rec.ToDocument()}, nil
}
