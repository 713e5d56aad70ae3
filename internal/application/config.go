package application

import (
	"maps"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// DefaultParallelism is the number of targets measured concurrently when
// the configuration does not set Parallelism.
const DefaultParallelism = 1

// MatchingConfig defines how a matching run measures distances and is the
// primary configuration entry point for the engine.
// Use MatchingConfig to choose the metric, the treatment of missing answers,
// per-question weights and how results are rendered.
type MatchingConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning.
	Version string `yaml:"version" json:"version" validate:"required,semver"`
	// Metadata contains descriptive information about the configuration.
	Metadata Metadata `yaml:"metadata" json:"metadata"`
	// Metric names the distance metric, e.g. "manhattan". It must be
	// registered in the metric registry used to validate the config.
	Metric domain.MetricName `yaml:"metric" json:"metric" validate:"required,metricname"`
	// MissingValues controls how missing target answers are imputed.
	MissingValues domain.MissingValueOptions `yaml:"missing_values" json:"missing_values"`
	// QuestionWeights are default per-question weights. Questions without
	// an entry have weight 1.
	QuestionWeights map[string]float64 `yaml:"question_weights,omitempty" json:"question_weights,omitempty" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	// Parallelism is the number of targets measured concurrently. Zero
	// means DefaultParallelism.
	Parallelism int `yaml:"parallelism,omitempty" json:"parallelism,omitempty" validate:"min=0,max=1024"`
	// ScoreFormat controls how match scores are rendered for display.
	ScoreFormat domain.ScoreFormat `yaml:"score_format" json:"score_format"`
}

// Metadata provides descriptive information about a matching configuration.
type Metadata struct {
	// Name is a human-readable identifier, such as the election name.
	Name string `yaml:"name" json:"name" validate:"max=255"`
	// Description explains the purpose of the configuration.
	Description string `yaml:"description,omitempty" json:"description,omitempty" validate:"max=1000"`
	// Tags are categorical labels for grouping configurations.
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
}

// DefaultMatchingConfig returns the configuration used when nothing else is
// specified: Manhattan distance, neutral imputation and whole percentages.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Version:       "1.0.0",
		Metric:        domain.MetricManhattan,
		MissingValues: domain.MissingValueOptions{Method: domain.MissingNeutral},
		Parallelism:   DefaultParallelism,
		ScoreFormat:   domain.DefaultScoreFormat(),
	}
}

// clone returns a deep copy of c with an unset score format replaced by
// the default one.
func (c MatchingConfig) clone() MatchingConfig {
	c.QuestionWeights = maps.Clone(c.QuestionWeights)
	if c.Metadata.Tags != nil {
		c.Metadata.Tags = append([]string(nil), c.Metadata.Tags...)
	}
	c.ScoreFormat = c.ScoreFormat.OrDefault()
	return c
}

// parallelism returns the effective number of concurrent measurements.
func (c MatchingConfig) parallelism() int {
	if c.Parallelism <= 0 {
		return DefaultParallelism
	}
	return c.Parallelism
}

// mergeWeights returns the config's weights overridden by run weights.
func (c MatchingConfig) mergeWeights(run map[string]float64) map[string]float64 {
	if len(run) == 0 {
		return c.QuestionWeights
	}
	merged := make(map[string]float64, len(c.QuestionWeights)+len(run))
	for id, w := range c.QuestionWeights {
		merged[id] = w
	}
	for id, w := range run {
		merged[id] = w
	}
	return merged
}
