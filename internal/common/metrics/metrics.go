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

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_provider_requests_total",
			Help: "Total number of search provider requests",
		},
		[]string{"provider", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_cache_lookups_total",
			Help: "Candidate cache lookups by outcome",
		},
		[]string{"outcome"}, // hit|miss|error
	)

	ProviderExhaustions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_provider_exhaustions_total",
			Help: "Searches that exhausted the radius ladder with no candidates",
		},
		[]string{"provider"},
	)

	RadiusEscalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_radius_escalations_total",
			Help: "Radius tier escalations during candidate resolution",
		},
		[]string{"tier"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "discovery_search_duration_seconds",
			Help: "End-to-end disposition search duration in seconds",
		},
		[]string{"partner_type", "outcome"}, // ok|empty|invalid
	)
)
