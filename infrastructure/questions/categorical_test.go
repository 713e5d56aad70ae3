package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvaa/vaa-matching/internal/domain"
)

func TestNewCategoricalQuestion(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		choices []string
		opts    []CategoricalOption
		wantErr bool
	}{
		{name: "binary", id: "q", choices: []string{"no", "yes"}},
		{name: "three choices", id: "q", choices: []string{"a", "b", "c"}},
		{name: "empty id", id: "", choices: []string{"a", "b"}, wantErr: true},
		{name: "single choice", id: "q", choices: []string{"a"}, wantErr: true},
		{name: "no choices", id: "q", wantErr: true},
		{name: "duplicate ids", id: "q", choices: []string{"a", "b", "a"}, wantErr: true},
		{name: "empty choice id", id: "q", choices: []string{"a", ""}, wantErr: true},
		{
			name:    "duplicate under case folding",
			id:      "q",
			choices: []string{"Yes", "yes", "no"},
			opts:    []CategoricalOption{WithCaseInsensitiveChoices()},
			wantErr: true,
		},
		{name: "case sensitive distinct", id: "q", choices: []string{"Yes", "yes", "no"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewCategoricalQuestion(tt.id, tt.choices, tt.opts...)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.choices, q.Choices())
		})
	}
}

func TestCategoricalNormalizeValue(t *testing.T) {
	binary, err := NewCategoricalQuestion("binary", []string{"no", "yes"})
	require.NoError(t, err)
	triple, err := NewCategoricalQuestion("triple", []string{"red", "green", "blue"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		question *CategoricalQuestion
		raw      any
		want     []domain.Coordinate
	}{
		{name: "binary first", question: binary, raw: "no", want: []domain.Coordinate{-0.5}},
		{name: "binary second", question: binary, raw: "yes", want: []domain.Coordinate{0.5}},
		{name: "one-hot first", question: triple, raw: "red", want: []domain.Coordinate{0.5, -0.5, -0.5}},
		{name: "one-hot last", question: triple, raw: "blue", want: []domain.Coordinate{-0.5, -0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, err := tt.question.NormalizeValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, coords)
			assert.Len(t, coords, tt.question.NormalizedDimensions())
		})
	}

	t.Run("missing", func(t *testing.T) {
		coords, err := triple.NormalizeValue(nil)
		require.NoError(t, err)
		require.Len(t, coords, 3)
		for _, c := range coords {
			assert.True(t, c.IsMissing())
		}
	})
}

func TestCategoricalUnknownChoice(t *testing.T) {
	q, err := NewCategoricalQuestion("color", []string{"red", "green", "blue"})
	require.NoError(t, err)

	tests := []struct {
		name           string
		raw            any
		wantSuggestion string
	}{
		{name: "typo", raw: "gren", wantSuggestion: "green"},
		{name: "wrong case", raw: "Red", wantSuggestion: "red"},
		{name: "unrelated", raw: "purple-ish", wantSuggestion: ""},
		{name: "not a string", raw: 2, wantSuggestion: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := q.NormalizeValue(tt.raw)
			require.ErrorIs(t, err, domain.ErrDomain)

			var domErr *domain.DomainError
			require.ErrorAs(t, err, &domErr)
			assert.Equal(t, "color", domErr.QuestionID)
			assert.Equal(t, tt.wantSuggestion, domErr.Suggestion)
		})
	}
}

func TestCategoricalCaseInsensitive(t *testing.T) {
	q, err := NewCategoricalQuestion("q", []string{"Ja", "Nein", "Weiß nicht"}, WithCaseInsensitiveChoices())
	require.NoError(t, err)

	for _, raw := range []string{"ja", "JA", "Ja"} {
		coords, err := q.NormalizeValue(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, []domain.Coordinate{0.5, -0.5, -0.5}, coords)
	}

	coords, err := q.NormalizeValue("WEISS NICHT")
	require.NoError(t, err, "case folding maps ß to ss")
	assert.Equal(t, []domain.Coordinate{-0.5, -0.5, 0.5}, coords)
}
