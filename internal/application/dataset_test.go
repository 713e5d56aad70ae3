package application

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvaa/vaa-matching/infrastructure/questions"
	"github.com/openvaa/vaa-matching/internal/domain"
)

const datasetYAML = `
questions:
  - id: q1
    type: likert
    scale: 5
    category: economy
  - id: q2
    type: likert
    scale: 5
    category: economy
  - id: q3
    type: categorical
    choices: [{id: red}, {id: green}, {id: blue}]
    case_insensitive: true
  - id: q4
    type: multiple_choice
    choices: [{id: tax}, {id: climate}, {id: schools}]
groups:
  - id: values
    label: Values
    questions: [q3, q4]
reference:
  id: voter
  answers:
    q1: 1
    q2: 2
    q3: Red
    q4: [tax, schools]
targets:
  - id: alice
    name: Alice
    answers:
      q1: 1
      q2: 2
      q3: red
      q4: [schools, tax]
  - id: bob
    name: Bob
    answers:
      q1: 5
      q3: blue
      q4: []
parents:
  - id: blues
    members: [alice, bob]
    answers:
      q2: 4
`

func TestDecodeDataset_YAML(t *testing.T) {
	ds, err := DecodeDataset(strings.NewReader(datasetYAML), "yaml")
	require.NoError(t, err)

	assert.Len(t, ds.Questions, 4)
	assert.Equal(t, domain.QuestionCategorical, ds.Questions[2].Type)
	assert.True(t, ds.Questions[2].CaseInsensitive)
	assert.Equal(t, "voter", ds.Reference.ID)
	assert.Len(t, ds.Targets, 2)
	assert.Equal(t, []string{"alice", "bob"}, ds.Parents[0].Members)
}

func TestDataset_Resolve(t *testing.T) {
	ds, err := DecodeDataset(strings.NewReader(datasetYAML), "yaml")
	require.NoError(t, err)

	p, err := ds.Resolve(questions.NewRegistry())
	require.NoError(t, err)

	require.Len(t, p.Questions, 4)
	assert.Equal(t, "q4", p.Questions[3].ID())

	// Explicit groups come first, then one group per category.
	require.Len(t, p.Groups, 2)
	assert.Equal(t, "values", p.Groups[0].ID)
	assert.Len(t, p.Groups[0].Questions, 2)
	assert.Equal(t, "economy", p.Groups[1].ID)
	assert.Len(t, p.Groups[1].Questions, 2)

	require.Len(t, p.Targets, 2)
	require.Len(t, p.Parents, 1)
	assert.Len(t, p.Members[p.Parents[0]], 2)
	assert.Same(t, p.Targets[1], p.Members[p.Parents[0]][1])

	m := newTestMatcher(t, nil)
	matches, err := m.Match(context.Background(), p.Questions, p.Reference, p.Targets,
		MatchOptions{QuestionGroups: p.Groups})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, targetIDs(matches))
	assert.InDelta(t, 0, float64(matches[0].Distance), 1e-9)
	require.Len(t, matches[1].SubMatches, 2)
}

func TestDecodeDataset_JSON(t *testing.T) {
	doc := map[string]any{
		"questions": []map[string]any{
			{"id": "q1", "type": "ordinal", "min": 0, "max": 10},
			{"id": "q2", "type": "boolean"},
		},
		"reference": map[string]any{"id": "v", "answers": map[string]any{"q1": 2.5, "q2": true}},
		"targets": []map[string]any{
			{"id": "t", "answers": map[string]any{"q1": 10, "q2": false}},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	ds, err := DecodeDataset(strings.NewReader(string(data)), "json")
	require.NoError(t, err)
	assert.Equal(t, json.Number("2.5"), ds.Reference.Answers["q1"])

	p, err := ds.Resolve(questions.NewRegistry())
	require.NoError(t, err)

	m := newTestMatcher(t, nil)
	matches, err := m.Match(context.Background(), p.Questions, p.Reference, p.Targets, MatchOptions{})
	require.NoError(t, err)
	// q1 differs by 0.75 of the range and q2 by the full extent.
	assert.InDelta(t, (0.75+1)/2, float64(matches[0].Distance), 1e-9)
}

func TestDecodeDataset_Errors(t *testing.T) {
	base := `
questions:
  - {id: q1, type: likert, scale: 5}
reference: {id: v, answers: {q1: 1}}
`
	tests := []struct {
		name    string
		doc     string
		format  string
		wantErr string
	}{
		{
			name:    "unknown field",
			doc:     base + "targets: [{id: t, answers: {}}]\nextra: 1\n",
			format:  "yaml",
			wantErr: "extra",
		},
		{
			name:    "no targets",
			doc:     base,
			format:  "yaml",
			wantErr: "Targets",
		},
		{
			name:    "duplicate target",
			doc:     base + "targets: [{id: t}, {id: t}]\n",
			format:  "yaml",
			wantErr: `duplicate target id "t"`,
		},
		{
			name:    "unknown group question",
			doc:     base + "targets: [{id: t}]\ngroups: [{id: g, questions: [q9]}]\n",
			format:  "yaml",
			wantErr: `unknown question "q9"`,
		},
		{
			name:    "unknown member",
			doc:     base + "targets: [{id: t}]\nparents: [{id: p, members: [x]}]\n",
			format:  "yaml",
			wantErr: `unknown target "x"`,
		},
		{
			name:    "unknown JSON field",
			doc:     `{"questions": [], "bogus": true}`,
			format:  "json",
			wantErr: "bogus",
		},
		{
			name:    "unsupported format",
			doc:     "",
			format:  "toml",
			wantErr: "unsupported format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataset(strings.NewReader(tt.doc), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDataset_ResolveInvalidQuestion(t *testing.T) {
	ds := &Dataset{
		Questions: []domain.QuestionDefinition{{ID: "q1", Type: domain.QuestionCategorical, Choices: []domain.Choice{{ID: "only"}}}},
		Targets:   []EntityRecord{{ID: "t"}},
	}
	require.NoError(t, ds.Validate())

	_, err := ds.Resolve(questions.NewRegistry())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "election.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(datasetYAML), 0o600))
	ds, err := LoadDataset(yamlPath)
	require.NoError(t, err)
	assert.Len(t, ds.Targets, 2)

	jsonPath := filepath.Join(dir, "election.JSON")
	data, err := json.Marshal(ds)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonPath, data, 0o600))
	fromJSON, err := LoadDataset(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, ds.Questions, fromJSON.Questions)

	_, err = LoadDataset(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}
