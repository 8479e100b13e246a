package relay

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grindex",
		Subsystem: "relay",
		Name:      "events_delivered_total",
		Help:      "Number of live-status events successfully posted to the realtime service.",
	})

	failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grindex",
		Subsystem: "relay",
		Name:      "events_failed_total",
		Help:      "Number of live-status events dropped after a delivery failure.",
	})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "grindex",
		Subsystem: "relay",
		Name:      "batch_duration_seconds",
		Help:      "Time spent fetching, delivering, and marking outbox batches.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(deliveredCounter, failedCounter, batchDuration)
}
