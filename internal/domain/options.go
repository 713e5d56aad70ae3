package domain

// MissingValueMethod selects how a Missing target coordinate is replaced
// before measuring distances.
type MissingValueMethod string

// Supported imputation methods.
const (
	// MissingNeutral always imputes CoordinateNeutral.
	MissingNeutral MissingValueMethod = "neutral"

	// MissingRelativeMaximum imputes the extreme opposite of the reference
	// coordinate, assuming maximal disagreement.
	MissingRelativeMaximum MissingValueMethod = "relative_maximum"
)

// MissingValueBias breaks the tie for MissingRelativeMaximum when the
// reference coordinate is exactly neutral.
type MissingValueBias string

// Supported biases.
const (
	// BiasPositive imputes CoordinateMax for a neutral reference.
	BiasPositive MissingValueBias = "positive"

	// BiasNegative imputes CoordinateMin for a neutral reference.
	BiasNegative MissingValueBias = "negative"
)

// MissingValueOptions configures missing value imputation.
type MissingValueOptions struct {
	// Method is the imputation method.
	Method MissingValueMethod `json:"method" yaml:"method" validate:"required,missingmethod"`

	// Bias is used by MissingRelativeMaximum. Empty means BiasPositive.
	Bias MissingValueBias `json:"bias,omitempty" yaml:"bias,omitempty" validate:"omitempty,missingbias"`
}

// MetricName names a distance metric.
type MetricName string

// Built-in metrics.
const (
	MetricManhattan   MetricName = "manhattan"
	MetricDirectional MetricName = "directional"
	MetricEuclidean   MetricName = "euclidean"
)
