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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Ranked recommendation lists returned, by combine mode",
		},
		[]string{"mode"},
	)

	SignalFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_signal_fallbacks_total",
			Help: "Collaborator failures recovered locally while scoring",
		},
		[]string{"signal", "reason"},
	)

	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_lookups_total",
			Help: "Enrichment cache lookups by provider and outcome (hit, miss, fallback)",
		},
		[]string{"provider", "outcome"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_provider_requests_total",
			Help: "External provider search calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	EnrichmentEntriesSwept = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_entries_swept_total",
			Help: "Expired enrichment entries deleted by the sweeper",
		},
		[]string{"provider"},
	)
)
