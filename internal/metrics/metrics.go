// Package metrics defines Prometheus metrics for the ledger service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stocktrail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocktrail_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocktrail_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocktrail_transactions_total",
			Help: "Total audit transactions appended, by kind",
		},
		[]string{"kind"},
	)

	PartialFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stocktrail_partial_failures_total",
			Help: "Mutations whose audit append failed after the state change",
		},
	)

	ItemCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stocktrail_items_total",
			Help: "Total item count",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		TransactionsTotal, PartialFailuresTotal,
		ItemCount,
	)
}
