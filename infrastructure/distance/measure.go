package distance

import (
	"fmt"

	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

// MeasureOptions configures Measure.
type MeasureOptions struct {
	// Metric measures the distances.
	Metric ports.DistanceMetric

	// MissingValues controls the imputation of missing target coordinates.
	MissingValues domain.MissingValueOptions

	// AllowMissingReference skips dimensions the reference did not answer
	// instead of failing.
	AllowMissingReference bool
}

// Distances holds the global distance and one distance per sub-space.
type Distances struct {
	Global    domain.NormalizedDistance
	Subspaces []domain.NormalizedDistance
}

// Measure imputes the target's missing coordinates and measures its
// distance to the reference in the reference's space and in every given
// sub-space. The reference and target are not interchangeable: only the
// target is imputed.
//
// Returns a ConfigurationError if the reference space has no dimensions, or
// the target or a sub-space is incompatible with the reference space.
func Measure(reference, target domain.Position, opts MeasureOptions, subspaces ...*domain.MatchingSpace) (Distances, error) {
	if opts.Metric == nil {
		return Distances{}, domain.NewConfigurationError("Measure", "metric is required")
	}
	space := reference.Space()
	if space == nil || space.Dimensions() == 0 {
		return Distances{}, domain.NewConfigurationError("Measure", "the matching space has no dimensions")
	}
	if target.Space() == nil || !space.IsCompatible(target) {
		return Distances{}, domain.NewConfigurationError("Measure", "reference and target are in incompatible spaces")
	}
	for i, s := range subspaces {
		if s == nil || !space.IsCompatible(s) {
			return Distances{}, domain.NewConfigurationError("Measure",
				fmt.Sprintf("subspace %d is incompatible with the reference space", i))
		}
	}

	imputed, err := ImputePosition(reference, target, opts.MissingValues)
	if err != nil {
		return Distances{}, err
	}

	global, err := opts.Metric.Distance(reference, imputed, nil, opts.AllowMissingReference)
	if err != nil {
		return Distances{}, err
	}

	out := Distances{Global: global}
	if len(subspaces) == 0 {
		return out, nil
	}
	out.Subspaces = make([]domain.NormalizedDistance, len(subspaces))
	for i, s := range subspaces {
		d, err := opts.Metric.Distance(reference, imputed, s, opts.AllowMissingReference)
		if err != nil {
			return Distances{}, err
		}
		out.Subspaces[i] = d
	}
	return out, nil
}
