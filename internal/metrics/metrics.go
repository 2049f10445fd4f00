package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubhub_api_requests_total",
			Help: "Requests issued to the event platform API",
		},
		[]string{"op", "outcome"},
	)

	apiDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubhub_api_request_duration_seconds",
			Help:    "Latency of event platform API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	workflows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubhub_workflow_total",
			Help: "Mutation workflow outcomes",
		},
		[]string{"workflow", "outcome"},
	)

	staleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubhub_stale_responses_total",
			Help: "Responses discarded because a newer request superseded them",
		},
		[]string{"target"},
	)
)

func ObserveRequest(op, outcome string, took time.Duration) {
	apiRequests.WithLabelValues(op, outcome).Inc()
	apiDuration.WithLabelValues(op).Observe(took.Seconds())
}

func ObserveWorkflow(workflow string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	workflows.WithLabelValues(workflow, outcome).Inc()
}

func StaleResponse(target string) {
	staleResponses.WithLabelValues(target).Inc()
}

// StaleCounter exposes the stale response series for tests.
func StaleCounter(target string) prometheus.Counter {
	return staleResponses.WithLabelValues(target)
}
