// Package observability collects prometheus metrics for the HTTP API and
// the CSV import pipeline and serves them on the scrape endpoint.
package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's prometheus collectors on a dedicated
// registry so the default global registry stays untouched.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	importBatches   prometheus.Counter
	importedRecords prometheus.Counter
	nodesCreated    prometheus.Counter
	importRowErrors prometheus.Counter
}

// NewMetrics creates and registers all collectors.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plantarium_api_requests_total",
			Help: "Total number of API requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plantarium_api_request_duration_seconds",
			Help:    "API request duration in seconds by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		importBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plantarium_import_batches_total",
			Help: "Total number of CSV import batches processed",
		}),
		importedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plantarium_import_records_total",
			Help: "Total number of plant records written by imports",
		}),
		nodesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plantarium_import_location_nodes_total",
			Help: "Total number of location nodes materialized by imports",
		}),
		importRowErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plantarium_import_row_errors_total",
			Help: "Total number of import rows that failed and were skipped",
		}),
	}

	collectors := []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.importBatches,
		m.importedRecords,
		m.nodesCreated,
		m.importRowErrors,
	}
	for _, collector := range collectors {
		if err := m.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}

	return m, nil
}

// Handler returns the scrape endpoint handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest observes one finished API request.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordImport observes one finished import batch.
func (m *Metrics) RecordImport(importedRecords, nodesCreated, rowErrors int) {
	m.importBatches.Inc()
	m.importedRecords.Add(float64(importedRecords))
	m.nodesCreated.Add(float64(nodesCreated))
	m.importRowErrors.Add(float64(rowErrors))
}
