package application

import (
	"fmt"
	"slices"
	"sync"

	"github.com/openvaa/vaa-matching/infrastructure/distance"
	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

// MetricRegistry maps metric names to distance metrics. It comes with the
// built-in metrics registered and can be extended at runtime.
type MetricRegistry struct {
	// metrics maps metric names to their implementations.
	metrics map[domain.MetricName]ports.DistanceMetric
	// mu protects concurrent access to the metrics map.
	mu sync.RWMutex
}

// NewMetricRegistry creates a registry with the Manhattan, Directional and
// Euclidean metrics registered.
func NewMetricRegistry() *MetricRegistry {
	r := &MetricRegistry{metrics: make(map[domain.MetricName]ports.DistanceMetric)}
	for _, m := range []ports.DistanceMetric{distance.Manhattan(), distance.Directional(), distance.Euclidean()} {
		r.metrics[m.Name()] = m
	}
	return r
}

// Register adds a metric under its own name, replacing any existing one.
func (r *MetricRegistry) Register(metric ports.DistanceMetric) error {
	if metric == nil {
		return fmt.Errorf("metric cannot be nil")
	}
	if metric.Name() == "" {
		return fmt.Errorf("metric name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics[metric.Name()] = metric
	return nil
}

// Get returns the metric registered under name.
func (r *MetricRegistry) Get(name domain.MetricName) (ports.DistanceMetric, error) {
	r.mu.RLock()
	metric, ok := r.metrics[name]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.NewConfigurationError("MetricRegistry",
			fmt.Sprintf("unsupported metric %q, expected one of %v", name, r.Names()))
	}
	return metric, nil
}

// Has reports whether a metric is registered under name.
func (r *MetricRegistry) Has(name domain.MetricName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.metrics[name]
	return ok
}

// Names returns the registered metric names in sorted order.
func (r *MetricRegistry) Names() []domain.MetricName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]domain.MetricName, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
