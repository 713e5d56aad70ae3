// Package middleware provides cross-cutting concerns for the matching engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openvaa/vaa-matching/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// distanceBuckets cover the normalized distance range [0, 1].
var distanceBuckets = prometheus.LinearBuckets(0, 0.1, 11)

// targetBuckets cover typical candidate list sizes.
var targetBuckets = prometheus.ExponentialBuckets(1, 4, 8)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It records run latency, run outcomes, targets per run and the
// distribution of measured distances.
type PrometheusMetrics struct {
	runLatency       *prometheus.HistogramVec
	runsTotal        *prometheus.CounterVec
	targetsPerRun    *prometheus.HistogramVec
	distances        *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
	values           *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all metrics with reg. A nil reg registers with the default Prometheus
// registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		runLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaa_match_run_duration_seconds",
				Help:    "Duration of matching runs.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "metric"},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaa_match_runs_total",
				Help: "Total number of matching runs by outcome.",
			},
			[]string{"status", "metric"},
		),
		targetsPerRun: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaa_match_targets",
				Help:    "Number of targets matched per run.",
				Buckets: targetBuckets,
			},
			[]string{"metric"},
		),
		distances: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaa_match_distance",
				Help:    "Normalized distances between the reference and targets.",
				Buckets: distanceBuckets,
			},
			[]string{"metric", "scope"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaa_match_operations_total",
				Help: "Total number of other counted matching operations.",
			},
			[]string{"operation", "metric"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vaa_match_state",
				Help: "Current state values of the matching engine.",
			},
			[]string{"name", "metric"},
		),
		values: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaa_match_values",
				Help:    "Other observed matching values.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"name", "metric"},
		),
	}
}

// labelOr returns labels[key] or fallback if it is missing or empty.
func labelOr(labels map[string]string, key, fallback string) string {
	if v, ok := labels[key]; ok && v != "" {
		return v
	}
	return fallback
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	metric := labelOr(labels, "metric", "unknown")
	pm.runLatency.WithLabelValues(operation, metric).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	name string, value float64, labels map[string]string,
) {
	metric := labelOr(labels, "metric", "unknown")

	switch name {
	case ports.MetricRunsTotal:
		pm.runsTotal.WithLabelValues(labelOr(labels, "status", "success"), metric).Add(value)
	default:
		pm.operationCounter.WithLabelValues(name, metric).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	name string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(name, labelOr(labels, "metric", "unknown")).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in the histogram matching the metric name.
func (pm *PrometheusMetrics) RecordHistogram(
	name string, value float64, labels map[string]string,
) {
	metric := labelOr(labels, "metric", "unknown")

	switch name {
	case ports.MetricTargetsPerRun:
		pm.targetsPerRun.WithLabelValues(metric).Observe(value)
	case ports.MetricDistance:
		pm.distances.WithLabelValues(metric, labelOr(labels, "scope", "global")).Observe(value)
	default:
		pm.values.WithLabelValues(name, metric).Observe(value)
	}
}
