package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	requestsIntake = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventdesk",
			Name:      "requests_intake_total",
			Help:      "Accepted public submissions by request kind.",
		},
		[]string{"kind"},
	)

	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventdesk",
			Name:      "status_changes_total",
			Help:      "Moderation status changes by new status.",
		},
		[]string{"status"},
	)

	notificationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eventdesk",
			Name:      "notifications_created_total",
			Help:      "Notifications written for status changes.",
		},
	)

	syncTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventdesk",
			Name:      "sync_tasks_total",
			Help:      "Sheets sync tasks by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			requestsIntake,
			statusChanges,
			notificationsCreated,
			syncTasks,
		)
	})
}

// IncHTTP increments the counter for an endpoint/status pair.
func IncHTTP(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

// IncIntake counts an accepted public submission.
func IncIntake(kind string) {
	requestsIntake.WithLabelValues(kind).Inc()
}

// IncStatusChange counts a moderation status change.
func IncStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}

// IncNotification counts a created notification.
func IncNotification() {
	notificationsCreated.Inc()
}

// IncSyncTask counts a sheets sync task outcome (completed, retry, dead_letter).
func IncSyncTask(outcome string) {
	syncTasks.WithLabelValues(outcome).Inc()
}
