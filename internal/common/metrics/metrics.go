// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"idea-workers/internal/models"
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

	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_evaluations_total",
			Help: "Evaluations by gating state and qualification tier",
		},
		[]string{"state", "tier"},
	)

	StageTotals = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idea_stage_points",
			Help:    "Points awarded per gate stage",
			Buckets: prometheus.LinearBuckets(0, 5, 9),
		},
		[]string{"stage"},
	)

	PriorityTagsAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_priority_tags_total",
			Help: "Priority tags assigned, by tag and source",
		},
		[]string{"tag", "source"},
	)

	SuggestionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_suggestion_fallbacks_total",
			Help: "Suggestion service calls made when no rule matched, by result",
		},
		[]string{"result"},
	)
)

// ObserveJob records the outcome of one job. An empty errorCode means success.
func ObserveJob(taskType string, start time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if errorCode != "" {
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
		return
	}
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
}

// ObserveEvaluation records the derived figures of a finished evaluation.
func ObserveEvaluation(ev models.Evaluation) {
	EvaluationsTotal.WithLabelValues(string(ev.Score.State), string(ev.Score.QualificationTier)).Inc()
	StageTotals.WithLabelValues("stage1").Observe(float64(ev.Score.Stage1.Total))
	if ev.Score.Stage2 != nil {
		StageTotals.WithLabelValues("stage2").Observe(float64(ev.Score.Stage2.Total))
	}
	ObservePriorities(ev.PriorityTags, ev.PrioritySource)
}

// ObservePriorities counts assigned tags and, for anything not produced by
// the rules, the suggestion outcome.
func ObservePriorities(tags []models.PriorityTag, source string) {
	for _, tag := range tags {
		PriorityTagsAssigned.WithLabelValues(string(tag), source).Inc()
	}
	if source != models.PrioritySourceRules {
		SuggestionFallbacks.WithLabelValues(source).Inc()
	}
}
