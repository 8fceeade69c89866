package documents

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/vendorgate/pkg/telemetry/metrics"
	"mercator-hq/vendorgate/pkg/validation"

	"golang.org/x/sync/errgroup"
)

// Gatherer fetches documents from several sources concurrently.
type Gatherer struct {
	sources []Source
	timeout time.Duration
	metrics *metrics.Collector
	logger  *slog.Logger
}

// GathererConfig configures a Gatherer.
type GathererConfig struct {
	// Timeout bounds the whole gather. Zero means no bound beyond ctx.
	Timeout time.Duration

	// Metrics records per-source outcomes. May be nil.
	Metrics *metrics.Collector

	// Logger may be nil.
	Logger *slog.Logger
}

// NewGatherer creates a gatherer. Sources earlier in the list win doc_type
// conflicts.
func NewGatherer(cfg GathererConfig, sources ...Source) *Gatherer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gatherer{
		sources: sources,
		timeout: cfg.Timeout,
		metrics: cfg.Metrics,
		logger:  logger.With("component", "documents.gatherer"),
	}
}

// Sources returns the configured source names.
func (g *Gatherer) Sources() []string {
	names := make([]string, len(g.sources))
	for i, s := range g.sources {
		names[i] = s.Name()
	}
	return names
}

// Gather returns the merged documents of every source that succeeded.
// It never fails: source errors are logged and the source is skipped.
func (g *Gatherer) Gather(ctx context.Context, vendorID string, portal map[string]any) validation.Documents {
	if g == nil || len(g.sources) == 0 {
		return validation.Documents{}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	results := make([]validation.Documents, len(g.sources))
	var grp errgroup.Group
	for i, src := range g.sources {
		grp.Go(func() error {
			docs, err := src.Fetch(ctx, vendorID, portal)
			if err != nil {
				g.metrics.RecordDocumentLoad(src.Name(), "error", 0)
				g.logger.WarnContext(ctx, "document source failed",
					"source", src.Name(),
					"vendor_id", vendorID,
					"error", &SourceError{Source: src.Name(), VendorID: vendorID, Err: err},
				)
				return nil
			}
			g.metrics.RecordDocumentLoad(src.Name(), "success", len(docs))
			results[i] = docs
			return nil
		})
	}
	_ = grp.Wait()

	merged := validation.Documents{}
	for _, docs := range results {
		for docType, doc := range docs {
			if _, exists := merged[docType]; !exists {
				merged[docType] = doc
			}
		}
	}
	return merged
}
