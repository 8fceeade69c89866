package metrics

import (
	"mercator-hq/vendorgate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SinkMetrics tracks result persistence.
//
// Metrics:
//   - vendorgate_sink_writes_total: Writes by backend and outcome
//   - vendorgate_sink_rows_total: Rows written by backend
type SinkMetrics struct {
	writesTotal *prometheus.CounterVec
	rowsTotal   *prometheus.CounterVec
}

// NewSinkMetrics creates and registers sink metrics with the provided registry.
func NewSinkMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SinkMetrics {
	sm := &SinkMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "sink",
				Name:      "writes_total",
				Help:      "Total number of result writes",
			},
			[]string{"backend", "outcome"},
		),

		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "sink",
				Name:      "rows_total",
				Help:      "Total number of result rows written",
			},
			[]string{"backend"},
		),
	}

	registry.MustRegister(sm.writesTotal, sm.rowsTotal)

	return sm
}

// RecordWrite records one write. Rows only count toward successful writes.
func (sm *SinkMetrics) RecordWrite(backend, outcome string, rows int) {
	sm.writesTotal.WithLabelValues(backend, outcome).Inc()
	if outcome == "success" && rows > 0 {
		sm.rowsTotal.WithLabelValues(backend).Add(float64(rows))
	}
}

// RegistryMetrics tracks external document lookups.
//
// Metrics:
//   - vendorgate_registry_lookups_total: Commercial registry lookups by outcome
//   - vendorgate_documents_loads_total: Document source loads by source and outcome
//   - vendorgate_documents_loaded_total: Documents returned by source
type RegistryMetrics struct {
	lookupsTotal *prometheus.CounterVec
	loadsTotal   *prometheus.CounterVec
	docsTotal    *prometheus.CounterVec
}

// NewRegistryMetrics creates and registers lookup metrics with the provided registry.
func NewRegistryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RegistryMetrics {
	rm := &RegistryMetrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "registry",
				Name:      "lookups_total",
				Help:      "Total number of commercial registry lookups",
			},
			[]string{"outcome"},
		),

		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "documents",
				Name:      "loads_total",
				Help:      "Total number of document source loads",
			},
			[]string{"source", "outcome"},
		),

		docsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "documents",
				Name:      "loaded_total",
				Help:      "Total number of documents returned by sources",
			},
			[]string{"source"},
		),
	}

	registry.MustRegister(rm.lookupsTotal, rm.loadsTotal, rm.docsTotal)

	return rm
}

// RecordLookup records one registry lookup.
func (rm *RegistryMetrics) RecordLookup(outcome string) {
	rm.lookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordDocumentLoad records one document source load.
func (rm *RegistryMetrics) RecordDocumentLoad(source, outcome string, docs int) {
	rm.loadsTotal.WithLabelValues(source, outcome).Inc()
	if docs > 0 {
		rm.docsTotal.WithLabelValues(source).Add(float64(docs))
	}
}
