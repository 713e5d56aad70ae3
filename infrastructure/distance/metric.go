// Package distance measures normalized distances between positions in a
// matching space, including the imputation of missing target values.
package distance

import (
	"fmt"

	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.DistanceMetric = (*Metric)(nil)

// Metric is a distance metric assembled from a kernel, a summation and a
// sub-dimension weighting. Metric values are immutable and safe for
// concurrent use.
type Metric struct {
	name         domain.MetricName
	kernel       Kernel
	sum          Sum
	subdimWeight SubdimWeight
}

// NewMetric creates a custom metric. In most cases subdimWeight should be
// the inverse of sum, so that a dimension's maximum contribution does not
// depend on how many sub-dimensions it has.
func NewMetric(name domain.MetricName, kernel Kernel, sum Sum, subdimWeight SubdimWeight) (*Metric, error) {
	cfgErr := domain.NewConfigurationError("Metric")
	if name == "" {
		cfgErr.AddError("metric name cannot be empty")
	}
	if kernel == nil || sum == nil || subdimWeight == nil {
		cfgErr.AddError("kernel, sum and sub-dimension weight are required")
	}
	if err := cfgErr.ErrOrNil(); err != nil {
		return nil, err
	}
	return &Metric{name: name, kernel: kernel, sum: sum, subdimWeight: subdimWeight}, nil
}

// Manhattan returns the sum of per-dimension absolute differences. It is
// the most common metric in voting advice applications.
func Manhattan() *Metric {
	return &Metric{
		name:         domain.MetricManhattan,
		kernel:       AbsoluteKernel,
		sum:          BasicSum,
		subdimWeight: BasicDivision,
	}
}

// Directional returns the metric based on DirectionalKernel, which
// penalizes disagreement across neutral more than disagreement on the same
// side.
func Directional() *Metric {
	return &Metric{
		name:         domain.MetricDirectional,
		kernel:       DirectionalKernel,
		sum:          BasicSum,
		subdimWeight: BasicDivision,
	}
}

// Euclidean returns the root of the sum of squared differences.
func Euclidean() *Metric {
	return &Metric{
		name:         domain.MetricEuclidean,
		kernel:       AbsoluteKernel,
		sum:          EuclideanSum,
		subdimWeight: EuclideanSubdimWeight,
	}
}

// Name implements ports.DistanceMetric.
func (m *Metric) Name() domain.MetricName { return m.name }

// Distance implements ports.DistanceMetric.
//
// Both positions are flattened and every flat dimension gets the weight of
// its top-level dimension times the sub-dimension weight. Each measured
// dimension contributes weight*kernel to the distance and
// weight*CoordinateExtent to the maximum; the result is
// CoordinateExtent*sum(distances)/sum(maxima). When the maximum is 0 the
// positions cannot be compared and domain.MidpointDistance is returned.
func (m *Metric) Distance(a, b domain.Position, space *domain.MatchingSpace, allowMissing bool) (domain.NormalizedDistance, error) {
	if a.Space() == nil || b.Space() == nil {
		return 0, domain.NewConfigurationError("Metric", "positions must belong to a space")
	}
	if space == nil {
		space = a.Space()
	}
	if !space.IsCompatible(a) || !space.IsCompatible(b) {
		return 0, domain.NewConfigurationError("Metric",
			fmt.Sprintf("incompatible shapes: space %v, a %v, b %v", space.Shape(), a.Shape(), b.Shape()))
	}

	weights := space.FlatWeights(m.subdimWeight)
	distances := make([]float64, 0, len(weights))
	maxima := make([]float64, 0, len(weights))
	for i, w := range weights {
		ca, cb := a.At(i), b.At(i)
		if ca.IsMissing() || cb.IsMissing() {
			if !allowMissing {
				return 0, domain.NewConfigurationError("Metric",
					fmt.Sprintf("missing coordinate at flat dimension %d", i))
			}
			continue
		}
		distances = append(distances, w*m.kernel(ca, cb))
		maxima = append(maxima, w*domain.CoordinateExtent)
	}

	maximum := m.sum(maxima)
	if maximum == 0 {
		return domain.MidpointDistance, nil
	}
	return domain.ClampDistance(domain.CoordinateExtent * m.sum(distances) / maximum), nil
}
