package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	trackersStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grindex",
		Subsystem: "tracker",
		Name:      "starts_total",
		Help:      "Number of timers started.",
	})
	trackersStopped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grindex",
		Subsystem: "tracker",
		Name:      "stops_total",
		Help:      "Number of timers stopped with a log produced.",
	})
	trackedMinutes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grindex",
		Subsystem: "tracker",
		Name:      "minutes_total",
		Help:      "Total minutes recorded by stopped timers.",
	})
)

func init() {
	prometheus.MustRegister(trackersStarted, trackersStopped, trackedMinutes)
}

// RecordTrackerStarted counts a successful start transition.
func RecordTrackerStarted() {
	trackersStarted.Inc()
}

// RecordTrackerStopped counts a stop that produced a log.
func RecordTrackerStopped(minutes int) {
	trackersStopped.Inc()
	trackedMinutes.Add(float64(minutes))
}
