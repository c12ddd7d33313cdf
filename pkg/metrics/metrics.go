package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Dispatch engine metrics
	RemindersDispatched prometheus.Counter
	RemindersFailed     prometheus.Counter
	ClaimsLost          prometheus.Counter
	DispatchDuration    prometheus.Histogram
	DueReminders        prometheus.Gauge

	// Event log metrics
	EventsAppended *prometheus.CounterVec
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		RemindersDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_dispatched_total",
			Help:      "Total number of reminders successfully delivered",
		}),
		RemindersFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Total number of delivery attempts that failed",
		}),
		ClaimsLost: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_claims_lost_total",
			Help:      "Due reminders already claimed by a concurrent worker",
		}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_run_duration_seconds",
			Help:      "Time spent per dispatch run",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DueReminders: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "due_reminders",
			Help:      "Number of due reminders found by the last run",
		}),
		EventsAppended: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_appended_total",
			Help:      "Domain events appended to the event log",
		}, []string{"event_type"}),
	}
}
