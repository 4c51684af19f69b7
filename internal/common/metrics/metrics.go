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

	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "correspondence_renders_total",
			Help: "Letters rendered, by template",
		},
		[]string{"template_id"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "correspondence_render_duration_seconds",
			Help:    "Time spent resolving and rendering a letter",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"template_id"},
	)

	TemplateCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "correspondence_template_cache_lookups_total",
			Help: "Template cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// JobTimer tracks one job from activation to completion or failure.
type JobTimer struct {
	taskType string
	start    time.Time
}

func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Done records the outcome; an empty errorCode counts as completed.
func (t *JobTimer) Done(errorCode string) time.Duration {
	elapsed := time.Since(t.start)
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(elapsed.Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
	} else {
		WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
	}
	return elapsed
}

// ObserveRender counts one rendered letter.
func ObserveRender(templateID string, elapsed time.Duration) {
	RendersTotal.WithLabelValues(templateID).Inc()
	RenderDuration.WithLabelValues(templateID).Observe(elapsed.Seconds())
}
