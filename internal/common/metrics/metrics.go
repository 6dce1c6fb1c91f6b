// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "screening_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "screening_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// BulkUpdates counts individual status updates issued by bulk actions.
	BulkUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_bulk_updates_total",
			Help: "Status updates issued by bulk actions, by result",
		},
		[]string{"status", "result"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_api_requests_total",
			Help: "Requests sent to the recruitment REST API",
		},
		[]string{"method", "endpoint", "code"},
	)

	// MalformedResponses counts list responses replaced by a safe default.
	MalformedResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_malformed_responses_total",
			Help: "REST responses that could not be decoded",
		},
		[]string{"endpoint"},
	)

	QuestionCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_question_cache_total",
			Help: "Question cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
