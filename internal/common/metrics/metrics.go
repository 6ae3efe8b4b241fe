// internal/common/metrics/metrics.go
package metrics

import (
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

	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_assessments_total",
			Help: "Maturity assessments by resulting level and calibration arm",
		},
		[]string{"level", "canary"},
	)

	AssessmentScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maturity_assessment_total_score",
			Help:    "Distribution of weighted maturity scores",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	WorkshopUnlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maturity_workshop_unlocks_total",
			Help: "Assessments that unlocked the workshop",
		},
	)

	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admission_checks_total",
			Help: "Admission checks by verdict",
		},
		[]string{"verdict"},
	)

	ConfigResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weight_config_resolutions_total",
			Help: "Weight config resolutions by version",
		},
		[]string{"version", "canary", "fallback"},
	)

	ConfigRefreshFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weight_config_refresh_failures_total",
			Help: "Failed refreshes of the active weight config set",
		},
	)

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_persistence_failures_total",
			Help: "Best-effort writes that did not reach the store",
		},
		[]string{"store"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of API requests",
		},
		[]string{"route", "status"},
	)
)
