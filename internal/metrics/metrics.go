package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for completed uploads.
const (
	OutcomeSuccess          = "success"
	OutcomeInvalid          = "invalid"
	OutcomeStorageFailed    = "storage_failed"
	OutcomeConversionFailed = "conversion_failed"
	OutcomeUnintelligible   = "unintelligible"
	OutcomeRecognition      = "recognition_failed"
)

// Stage labels for pipeline timings.
const (
	StageSave       = "save"
	StageConvert    = "convert"
	StageTranscribe = "transcribe"
	StageScore      = "score"
)

type Metrics struct {
	registry *prometheus.Registry
	uploads  *prometheus.CounterVec
	stages   *prometheus.HistogramVec
	scores   prometheus.Histogram
}

// New builds a private registry so tests can create independent instances.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pronounce",
			Name:      "uploads_total",
			Help:      "Processed uploads by outcome.",
		}, []string{"outcome"}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pronounce",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pronounce",
			Name:      "similarity_score",
			Help:      "Distribution of similarity scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	reg.MustRegister(
		m.uploads,
		m.stages,
		m.scores,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Upload(outcome string) {
	m.uploads.WithLabelValues(outcome).Inc()
}

// ObserveStage records the time since start for a stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.stages.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Score(score float64) {
	m.scores.Observe(score)
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
