// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	WorkflowOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outy_workflow_operations_total",
			Help: "Express-job workflow operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	WorkflowOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outy_workflow_operation_duration_seconds",
			Help:    "Duration of express-job workflow operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	SecondaryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outy_workflow_secondary_failures_total",
			Help: "Swallowed failures of non-critical side effects",
		},
		[]string{"operation", "step"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outy_api_request_duration_seconds",
			Help:    "Outy REST API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outy_session_cache_lookups_total",
			Help: "Session cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// ObserveWorkflowOperation records one workflow operation. outcome is
// "success" or an error code.
func ObserveWorkflowOperation(operation, outcome string, elapsed time.Duration) {
	WorkflowOperations.WithLabelValues(operation, outcome).Inc()
	WorkflowOperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func ObserveAPIRequest(endpoint, status string, elapsed time.Duration) {
	APIRequestDuration.WithLabelValues(endpoint, status).Observe(elapsed.Seconds())
}
