package metrics

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/vendorgate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every vendorgate Prometheus metric and the registry they
// are registered with.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validationMetrics *ValidationMetrics
	httpMetrics       *HTTPMetrics
	sinkMetrics       *SinkMetrics
	registryMetrics   *RegistryMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000),
	}

	c.validationMetrics = NewValidationMetrics(cfg, registry)
	c.httpMetrics = NewHTTPMetrics(cfg, registry)
	c.sinkMetrics = NewSinkMetrics(cfg, registry)
	c.registryMetrics = NewRegistryMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordValidation records one completed validation.
//
// Parameters:
//   - summary: Report summary status ("PASS", "FAIL", "WARNING")
//   - duration: Time spent evaluating checks
func (c *Collector) RecordValidation(summary string, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.validationMetrics.RecordValidation(summary, duration)
}

// RecordRuleResult records the outcome of a single check.
func (c *Collector) RecordRuleResult(ruleID, status string) {
	if !c.enabled() {
		return
	}

	if !c.cardinalityLimiter.Allow(fmt.Sprintf("rule:%s:%s", ruleID, status)) {
		ruleID = "other"
	}

	c.validationMetrics.RecordRuleResult(ruleID, status)
}

// RecordHTTPRequest records a served HTTP request.
//
// Parameters:
//   - route: Route pattern, not the raw path
//   - code: Response status code
//   - duration: Time to serve the request
func (c *Collector) RecordHTTPRequest(route string, code int, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.httpMetrics.RecordRequest(route, code, duration)
}

// RecordSinkWrite records a result write.
//
// Parameters:
//   - backend: Sink backend ("memory", "sqlite", "postgres")
//   - outcome: "success" or "error"
//   - rows: Number of rows in the write
func (c *Collector) RecordSinkWrite(backend, outcome string, rows int) {
	if !c.enabled() {
		return
	}

	c.sinkMetrics.RecordWrite(backend, outcome, rows)
}

// RecordRegistryLookup records a commercial registry lookup.
//
// Parameters:
//   - outcome: "cache_hit", "fetched", "not_found" or "error"
func (c *Collector) RecordRegistryLookup(outcome string) {
	if !c.enabled() {
		return
	}

	c.registryMetrics.RecordLookup(outcome)
}

// RecordDocumentLoad records one document source load.
//
// Parameters:
//   - source: Source name ("folder", "s3", "registry")
//   - outcome: "success" or "error"
//   - docs: Number of documents the source returned
func (c *Collector) RecordDocumentLoad(source, outcome string, docs int) {
	if !c.enabled() {
		return
	}

	c.registryMetrics.RecordDocumentLoad(source, outcome, docs)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is already tracked or still fits under the
// limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
