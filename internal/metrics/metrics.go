package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aircare",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aircare",
			Name:      "submissions_total",
			Help:      "Submission pipeline outcomes.",
		},
		[]string{"result"},
	)

	draftResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aircare",
			Name:      "draft_resets_total",
			Help:      "Draft resets, from scope exits and successful submits.",
		},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aircare",
			Name:      "notifications_total",
			Help:      "Outbound booking alert attempts.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, submissions, draftResets, notifications)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncSubmission records a pipeline outcome: ok, validation or error.
func IncSubmission(result string) {
	submissions.WithLabelValues(result).Inc()
}

// IncDraftReset counts a draft reset.
func IncDraftReset() {
	draftResets.Inc()
}

// IncNotification records an alert delivery attempt result.
func IncNotification(result string) {
	notifications.WithLabelValues(result).Inc()
}
