// Package metrics provides the prometheus metrics of the pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Classification metrics
	ClassificationsTotal *prometheus.CounterVec

	// Recommendation metrics
	RecommendationsTotal   *prometheus.CounterVec
	RecommendationDuration prometheus.Histogram

	// Export metrics
	ExportJobsTotal       *prometheus.CounterVec
	ExportDurationSeconds *prometheus.HistogramVec
	ExportJobsRunning     prometheus.Gauge

	// Playback metrics
	PlaybackEventsTotal *prometheus.CounterVec

	// Event hub metrics
	Subscribers prometheus.Gauge
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Classification metrics
		ClassificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodtunes_classifications_total",
				Help: "Total number of mood classifications",
			},
			[]string{"modality", "outcome"},
		),

		// Recommendation metrics
		RecommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodtunes_recommendations_total",
				Help: "Total number of recommendation fetches",
			},
			[]string{"outcome"},
		),
		RecommendationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name: "moodtunes_recommendation_duration_seconds",
				Help: "Duration of recommendation fetches in seconds",
			},
		),

		// Export metrics
		ExportJobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodtunes_export_jobs_total",
				Help: "Total number of finished export jobs",
			},
			[]string{"target", "status"},
		),
		ExportDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "moodtunes_export_duration_seconds",
				Help: "Duration of export jobs in seconds",
			},
			[]string{"target"},
		),
		ExportJobsRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "moodtunes_export_jobs_running",
				Help: "Number of export jobs currently running",
			},
		),

		// Playback metrics
		PlaybackEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodtunes_playback_events_total",
				Help: "Total playback events by type",
			},
			[]string{"type"},
		),

		// Event hub metrics
		Subscribers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "moodtunes_event_subscribers",
				Help: "Number of active event subscribers",
			},
		),
	}
}

// ObserveClassification counts a classification outcome.
func (m *Metrics) ObserveClassification(modality, outcome string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(modality, outcome).Inc()
}

// ObserveRecommendation counts a recommendation fetch and its duration.
func (m *Metrics) ObserveRecommendation(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RecommendationsTotal.WithLabelValues(outcome).Inc()
	m.RecommendationDuration.Observe(d.Seconds())
}

// ExportStarted marks an export job as running.
func (m *Metrics) ExportStarted() {
	if m == nil {
		return
	}
	m.ExportJobsRunning.Inc()
}

// ExportFinished records a finished export job.
func (m *Metrics) ExportFinished(target, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.ExportJobsRunning.Dec()
	m.ExportJobsTotal.WithLabelValues(target, status).Inc()
	m.ExportDurationSeconds.WithLabelValues(target).Observe(d.Seconds())
}

// ObservePlaybackEvent counts a playback event.
func (m *Metrics) ObservePlaybackEvent(eventType string) {
	if m == nil {
		return
	}
	m.PlaybackEventsTotal.WithLabelValues(eventType).Inc()
}

// SetSubscribers sets the number of active event subscribers.
func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.Subscribers.Set(float64(n))
}
