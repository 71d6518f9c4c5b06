package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Queue metrics for Prometheus monitoring, labeled by queue name.
var (
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_messages_published_total",
			Help: "Total number of messages published per queue",
		},
		[]string{"queue"},
	)

	MessagesAckedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_messages_acked_total",
			Help: "Total number of messages acknowledged per queue",
		},
		[]string{"queue"},
	)

	MessagesNackedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_messages_nacked_total",
			Help: "Total number of messages nacked for redelivery per queue",
		},
		[]string{"queue"},
	)

	MessageProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "queue_message_processing_duration_seconds",
			Help:    "Duration of message handler invocations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"queue"},
	)
)
