// Package metrics provides Prometheus metrics for aggregate queries.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetally_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	aggregateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filetally_aggregate_duration_seconds",
			Help:    "Time to run one aggregate query",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		},
		[]string{"aggregate"},
	)

	aggregateErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetally_aggregate_errors_total",
			Help: "Aggregate queries that failed",
		},
		[]string{"aggregate"},
	)

	loadedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filetally_loaded_records",
			Help: "Number of records in the served snapshot",
		},
	)
)

// ObserveAggregate records the duration and outcome of one aggregate call.
func ObserveAggregate(name string, start time.Time, err error) {
	aggregateDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		aggregateErrors.WithLabelValues(name).Inc()
	}
}

// SetLoadedRecords sets the record count gauge.
func SetLoadedRecords(n int) {
	loadedRecords.Set(float64(n))
}

// RecordRequest counts one HTTP request.
func RecordRequest(method, route string, status int) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
