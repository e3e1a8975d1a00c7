// Package metrics exposes Prometheus counters for advisor queries and the
// loaded ledger.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
)

// Registry holds the advisor metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	LedgerEntries prometheus.Gauge
	SkippedRows   prometheus.Gauge
}

// New creates a registry with every advisor metric registered.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_queries_total",
				Help: "Total number of advisor queries by operation and result",
			},
			[]string{"operation", "result"},
		),

		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_query_duration_seconds",
				Help:    "Duration of advisor queries in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"operation"},
		),

		LedgerEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "advisor_ledger_entries",
				Help: "Number of entries in the loaded ledger",
			},
		),

		SkippedRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "advisor_ledger_skipped_rows",
				Help: "Number of rows skipped while loading the ledger",
			},
		),
	}

	r.registry.MustRegister(r.Queries, r.QueryDuration, r.LedgerEntries, r.SkippedRows)

	return r
}

// ObserveQuery records one query. The result label is "ok" or the error
// code name, e.g. "unknown_product".
func (r *Registry) ObserveQuery(operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = errors.GetCode(err).String()
	}

	r.Queries.WithLabelValues(operation, result).Inc()
	r.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetLedger records the size of the loaded ledger.
func (r *Registry) SetLedger(entries, skipped int) {
	r.LedgerEntries.Set(float64(entries))
	r.SkippedRows.Set(float64(skipped))
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
