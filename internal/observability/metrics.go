// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the decision engine.
type Metrics struct {
	// Evaluation metrics
	EvaluationsTotal  *prometheus.CounterVec
	EvaluatorFailures *prometheus.CounterVec
	DecisionsTotal    *prometheus.CounterVec

	// Registry metrics
	ActiveStrategies prometheus.Gauge

	// Latency metrics
	EvaluationDuration prometheus.Histogram
}

// NewMetrics creates a Metrics instance with all metrics registered on the
// default registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "strategy_engine"
	}

	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "evaluations_total",
			Help:      "Total number of per-evaluator entry evaluations by strategy type",
		}, []string{"strategy_type"}),
		EvaluatorFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "evaluator_failures_total",
			Help:      "Total number of isolated evaluator failures by strategy type",
		}, []string{"strategy_type"}),
		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "decisions_total",
			Help:      "Total number of aggregate decisions by outcome",
		}, []string{"outcome"}),
		ActiveStrategies: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "active_strategies",
			Help:      "Current number of registered evaluators",
		}),
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "evaluation_duration_seconds",
			Help:      "Aggregate evaluation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
