package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveClassification("text", "success")
	m.ObserveClassification("text", "success")
	m.ObserveClassification("camera", "unavailable")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("text", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("camera", "unavailable")))

	m.ExportStarted()
	m.ExportStarted()
	m.ExportFinished("shareLink", "success", time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportJobsRunning))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportJobsTotal.WithLabelValues("shareLink", "success")))

	m.SetSubscribers(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Subscribers))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveClassification("text", "success")
		m.ObserveRecommendation("success", time.Millisecond)
		m.ExportStarted()
		m.ExportFinished("fileM3U", "failed", 0)
		m.ObservePlaybackEvent("track_started")
		m.SetSubscribers(1)
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
