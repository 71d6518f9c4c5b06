// Package metrics defines the Prometheus collectors shared by the API
// server and the workers. Queue-level metrics live with the queue package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Pipeline metrics
var (
	InvoicesAcceptedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoices_accepted_total",
			Help: "Total number of invoice uploads accepted",
		},
		[]string{"format"},
	)

	InvoicesConvertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoices_converted_total",
			Help: "Total number of invoices converted",
		},
		[]string{"format"},
	)

	NotificationsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notification emails sent",
		},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invoice_conversion_duration_seconds",
			Help:    "Duration of invoice render and store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)
)
