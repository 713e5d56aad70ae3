package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// TestMatchingConfig_UnmarshalYAML tests the YAML unmarshaling of
// MatchingConfig. It focuses on decoding, not semantic validation.
func TestMatchingConfig_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		verify func(t *testing.T, config *MatchingConfig)
	}{
		{
			name: "valid minimal config",
			yaml: `
version: "1.0.0"
metric: manhattan
missing_values:
  method: neutral
`,
			verify: func(t *testing.T, config *MatchingConfig) {
				assert.Equal(t, "1.0.0", config.Version)
				assert.Equal(t, domain.MetricManhattan, config.Metric)
				assert.Equal(t, domain.MissingNeutral, config.MissingValues.Method)
				assert.Empty(t, config.MissingValues.Bias)
				assert.Nil(t, config.QuestionWeights)
			},
		},
		{
			name: "valid complex config",
			yaml: `
version: "2.1.0"
metadata:
  name: "municipal-2025"
  description: "Matching for the municipal elections"
  tags: ["municipal", "finland"]
metric: directional
missing_values:
  method: relative_maximum
  bias: negative
question_weights:
  q1: 2
  q2: 0.5
parallelism: 8
score_format:
  multiplier: 10
  unit: "/10"
`,
			verify: func(t *testing.T, config *MatchingConfig) {
				assert.Equal(t, "municipal-2025", config.Metadata.Name)
				assert.Equal(t, []string{"municipal", "finland"}, config.Metadata.Tags)
				assert.Equal(t, domain.MetricDirectional, config.Metric)
				assert.Equal(t, domain.MissingRelativeMaximum, config.MissingValues.Method)
				assert.Equal(t, domain.BiasNegative, config.MissingValues.Bias)
				assert.Equal(t, map[string]float64{"q1": 2, "q2": 0.5}, config.QuestionWeights)
				assert.Equal(t, 8, config.Parallelism)
				assert.Equal(t, domain.ScoreFormat{Multiplier: 10, Unit: "/10"}, config.ScoreFormat)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var config MatchingConfig
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &config))
			tt.verify(t, &config)
		})
	}
}

func TestDefaultMatchingConfig(t *testing.T) {
	cfg := DefaultMatchingConfig()

	v, err := newConfigValidator(NewMetricRegistry())
	require.NoError(t, err)
	require.NoError(t, validateConfig(v, &cfg), "defaults must be valid")

	assert.Equal(t, domain.MetricManhattan, cfg.Metric)
	assert.Equal(t, domain.MissingNeutral, cfg.MissingValues.Method)
	assert.Equal(t, DefaultParallelism, cfg.parallelism())
	assert.Equal(t, "75%", cfg.ScoreFormat.Format(0.75))
}

func TestMatchingConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MatchingConfig)
		wantErr string
	}{
		{name: "defaults"},
		{name: "relative maximum with bias", mutate: func(c *MatchingConfig) {
			c.MissingValues = domain.MissingValueOptions{Method: domain.MissingRelativeMaximum, Bias: domain.BiasPositive}
		}},
		{name: "bad semver", mutate: func(c *MatchingConfig) { c.Version = "v1" }, wantErr: "semver"},
		{name: "unknown metric", mutate: func(c *MatchingConfig) { c.Metric = "hamming" }, wantErr: "metricname"},
		{name: "missing method", mutate: func(c *MatchingConfig) { c.MissingValues.Method = "" }, wantErr: "required"},
		{name: "unknown bias", mutate: func(c *MatchingConfig) { c.MissingValues.Bias = "up" }, wantErr: "missingbias"},
		{name: "negative weight", mutate: func(c *MatchingConfig) { c.QuestionWeights = map[string]float64{"q1": -1} }, wantErr: "gte"},
		{name: "empty weight key", mutate: func(c *MatchingConfig) { c.QuestionWeights = map[string]float64{"": 1} }, wantErr: "required"},
		{name: "parallelism too high", mutate: func(c *MatchingConfig) { c.Parallelism = 5000 }, wantErr: "max"},
		{name: "unset score format", mutate: func(c *MatchingConfig) { c.ScoreFormat = domain.ScoreFormat{} }},
		{name: "negative score multiplier", mutate: func(c *MatchingConfig) { c.ScoreFormat.Multiplier = -1 }, wantErr: "gt"},
	}

	v, err := newConfigValidator(NewMetricRegistry())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMatchingConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			err := validateConfig(v, &cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMatchingConfig_MergeWeights(t *testing.T) {
	cfg := DefaultMatchingConfig()
	cfg.QuestionWeights = map[string]float64{"q1": 2, "q2": 3}

	assert.Equal(t, cfg.QuestionWeights, cfg.mergeWeights(nil))

	merged := cfg.mergeWeights(map[string]float64{"q2": 0, "q3": 4})
	assert.Equal(t, map[string]float64{"q1": 2, "q2": 0, "q3": 4}, merged)
	assert.Equal(t, 3.0, cfg.QuestionWeights["q2"], "config weights are not modified")
}

func TestMatchingConfig_Parallelism(t *testing.T) {
	for _, tt := range []struct{ set, want int }{{0, DefaultParallelism}, {-3, DefaultParallelism}, {6, 6}} {
		cfg := MatchingConfig{Parallelism: tt.set}
		assert.Equal(t, tt.want, cfg.parallelism())
	}
}
