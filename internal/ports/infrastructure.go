package ports

import (
	"context"
	"time"
)

// Metric names reported by the matcher to a MetricsCollector.
const (
	// MetricRunLatency is the latency of a whole matching run.
	MetricRunLatency = "match_run"
	// MetricRunsTotal counts runs; the "status" label is "success" or "error".
	MetricRunsTotal = "match_runs_total"
	// MetricTargetsPerRun is a histogram of the number of targets per run.
	MetricTargetsPerRun = "match_targets"
	// MetricDistance is a histogram of measured distances; the "scope" label
	// is "global" or "group".
	MetricDistance = "match_distance"
	// MetricActiveQuestions is a gauge of the questions used in the last run.
	MetricActiveQuestions = "match_active_questions"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus, OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like completed runs or failures.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like target counts or
	// distances.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// RunInfo describes one matching run to a RunObserver.
type RunInfo struct {
	// RunID uniquely identifies the run.
	RunID string

	// Metric is the name of the distance metric.
	Metric string

	// MissingMethod is the name of the imputation method.
	MissingMethod string

	// Questions is the number of questions supplied.
	Questions int

	// ActiveQuestions is the number of questions the reference answered.
	// It is zero until the questions have been filtered.
	ActiveQuestions int

	// Targets is the number of targets.
	Targets int

	// Groups is the number of declared question groups.
	Groups int
}

// RunObserver receives lifecycle callbacks for matching runs. It is the
// seam for tracing integrations.
type RunObserver interface {
	// Start is called before validation. The returned context is used for
	// the remainder of the run and passed to Finish.
	Start(ctx context.Context, info RunInfo) context.Context

	// Finish is called once the run has completed or failed.
	Finish(ctx context.Context, info RunInfo, elapsed time.Duration, err error)
}
