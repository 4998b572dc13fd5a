// Package metrics provides Prometheus metrics for the catalog
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bluesky/catalog-server-from-scratch/pkg/catalog"
)

// Metrics holds all Prometheus metrics for the catalog
type Metrics struct {
	// Search metrics
	SearchQueriesTotal *prometheus.CounterVec
	SearchDuration     *prometheus.HistogramVec
	SearchResultsTotal *prometheus.CounterVec

	// Paging metrics
	PagesServedTotal *prometheus.CounterVec
	PageEntriesTotal prometheus.Counter
}

// NewMetrics creates all catalog metrics and registers them with reg. A nil
// reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.SearchQueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_search_queries_total",
			Help: "Total number of dispatched search queries",
		},
		[]string{"query_type", "status"},
	)

	m.SearchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_search_duration_seconds",
			Help:    "Duration of search handlers in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"query_type"},
	)

	m.SearchResultsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_search_results_total",
			Help: "Total number of entries kept by search handlers",
		},
		[]string{"query_type"},
	)

	m.PagesServedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_pages_served_total",
			Help: "Total number of entry pages served",
		},
		[]string{"kind"},
	)

	m.PageEntriesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_page_entries_total",
			Help: "Total number of entries returned in pages",
		},
	)

	return m
}

// ObserveSearch implements catalog.Observer. The status label is the gRPC
// code the error maps to, "OK" on success.
func (m *Metrics) ObserveSearch(queryType string, duration time.Duration, matched int, err error) {
	m.SearchQueriesTotal.WithLabelValues(queryType, catalog.Code(err).String()).Inc()
	m.SearchDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	if err == nil {
		m.SearchResultsTotal.WithLabelValues(queryType).Add(float64(matched))
	}
}

// RecordPage records one served page. kind is "keys" for key-only pages and
// "items" when attributes were read.
func (m *Metrics) RecordPage(kind string, entries int) {
	m.PagesServedTotal.WithLabelValues(kind).Inc()
	m.PageEntriesTotal.Add(float64(entries))
}
