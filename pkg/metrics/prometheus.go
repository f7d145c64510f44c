package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline observability via Prometheus.
type Recorder struct {
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	sourceErrors     *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	rateLimited      *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pipelineRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_pipeline_runs_total",
				Help: "Total number of aggregation pipeline runs by outcome",
			},
			[]string{"status"},
		),
		pipelineDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portfolio_pipeline_duration_seconds",
				Help:    "Duration of aggregation pipeline runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		sourceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_source_errors_total",
				Help: "Total number of external source errors by kind",
			},
			[]string{"source", "kind"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_sentiment_cache_lookups_total",
				Help: "Sentiment cache lookups by result",
			},
			[]string{"result"},
		),
		rateLimited: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_rate_limited_total",
				Help: "Locally denied calls per external service",
			},
			[]string{"service"},
		),
	}
}

func (r *Recorder) RecordPipelineRun(status string) {
	r.pipelineRuns.WithLabelValues(status).Inc()
}

func (r *Recorder) RecordPipelineDuration(seconds float64) {
	r.pipelineDuration.Observe(seconds)
}

func (r *Recorder) RecordSourceError(source, kind string) {
	r.sourceErrors.WithLabelValues(source, kind).Inc()
}

func (r *Recorder) RecordCacheHit(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordRateLimited(service string) {
	r.rateLimited.WithLabelValues(service).Inc()
}
