// Package observability provides the Prometheus collectors for the
// generation pipeline and the handler that exposes them.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildBuckets covers CAD kernel build latencies, from fast SDF tessellation
// to multi-minute COM-driven builds.
var buildBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// GenerationsTotal counts generation attempts by engine and outcome.
	// Status is "success" or a failure kind.
	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partforge_generations_total",
			Help: "Generation attempts",
		},
		[]string{"engine", "status"},
	)

	// GenerationDuration records end-to-end generation latency per engine.
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partforge_generation_duration_seconds",
			Help:    "Generation duration",
			Buckets: buildBuckets,
		},
		[]string{"engine"},
	)

	// ValidationRejections counts intents rejected by the rules engine.
	ValidationRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "partforge_validation_rejections_total",
			Help: "Intents rejected by manufacturability rules",
		},
	)
)

func init() {
	prometheus.MustRegister(
		GenerationsTotal,
		GenerationDuration,
		ValidationRejections,
	)
}

// ObserveGeneration records one finished generation attempt.
func ObserveGeneration(engine, status string, elapsed time.Duration) {
	GenerationsTotal.WithLabelValues(engine, status).Inc()
	GenerationDuration.WithLabelValues(engine).Observe(elapsed.Seconds())
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
