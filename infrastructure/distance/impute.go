package distance

import (
	"fmt"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// ImputeValue returns the coordinate to use in place of a missing target
// coordinate, given the reference coordinate on the same dimension.
//
// MissingNeutral always yields CoordinateNeutral. MissingRelativeMaximum
// yields the extreme opposite of the reference, using the bias to choose a
// side when the reference is exactly neutral. A missing reference yields
// CoordinateNeutral for every method.
func ImputeValue(reference domain.Coordinate, opts domain.MissingValueOptions) (domain.Coordinate, error) {
	switch opts.Method {
	case domain.MissingNeutral:
		return domain.CoordinateNeutral, nil
	case domain.MissingRelativeMaximum:
		switch {
		case reference.IsMissing():
			return domain.CoordinateNeutral, nil
		case reference < domain.CoordinateNeutral:
			return domain.CoordinateMax, nil
		case reference > domain.CoordinateNeutral:
			return domain.CoordinateMin, nil
		}
		switch opts.Bias {
		case "", domain.BiasPositive:
			return domain.CoordinateMax, nil
		case domain.BiasNegative:
			return domain.CoordinateMin, nil
		default:
			return 0, domain.NewConfigurationError("MissingValueOptions",
				fmt.Sprintf("unknown bias %q", opts.Bias))
		}
	default:
		return 0, domain.NewConfigurationError("MissingValueOptions",
			fmt.Sprintf("unknown imputation method %q", opts.Method))
	}
}

// ImputePosition returns a copy of target where every missing coordinate
// is replaced using ImputeValue against the reference coordinate on the
// same flat dimension. The result keeps target's space.
func ImputePosition(reference, target domain.Position, opts domain.MissingValueOptions) (domain.Position, error) {
	if reference.Space() == nil || target.Space() == nil || !reference.Space().IsCompatible(target) {
		return domain.Position{}, domain.NewConfigurationError("ImputePosition",
			"reference and target must have compatible shapes")
	}

	flat := target.Flat()
	for i, c := range flat {
		if !c.IsMissing() {
			continue
		}
		v, err := ImputeValue(reference.At(i), opts)
		if err != nil {
			return domain.Position{}, err
		}
		flat[i] = v
	}
	return target.WithFlat(flat)
}
