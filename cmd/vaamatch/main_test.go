package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `
questions:
  - {id: q1, type: likert, scale: 5, category: economy}
  - {id: q2, type: likert, scale: 5, category: economy}
  - {id: q3, type: boolean, category: society}
reference:
  id: voter
  answers: {q1: 1, q2: 1, q3: true}
targets:
  - id: ann
    name: Ann
    answers: {q1: 1, q2: 1, q3: true}
  - id: ben
    name: Ben
    answers: {q1: 5, q2: 5, q3: false}
  - id: cai
    name: Cai
    answers: {q1: 3, q3: true}
parents:
  - id: left
    members: [ann, cai]
  - id: right
    members: [ben]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "match")
	assert.Contains(t, names, "validate")
	assert.Contains(t, names, "generate")
}

func TestMatchCmd_JSON(t *testing.T) {
	data := writeFile(t, "election.yaml", testDataset)

	out, err := execute(t, "match", "--data", data, "--format", "json")
	require.NoError(t, err)

	var views []matchView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 3)

	assert.Equal(t, "ann", views[0].ID)
	assert.Equal(t, "100%", views[0].Score)
	assert.Equal(t, "ben", views[2].ID)
	assert.Equal(t, "0%", views[2].Score)
	assert.Equal(t, 3, views[2].Rank)

	require.Len(t, views[0].SubMatches, 2)
	assert.Equal(t, "economy", views[0].SubMatches[0].Group)
	assert.Equal(t, "society", views[0].SubMatches[1].Group)
}

func TestMatchCmd_Table(t *testing.T) {
	data := writeFile(t, "election.yaml", testDataset)

	out, err := execute(t, "match", "--data", data, "--no-groups")
	require.NoError(t, err)

	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "Ann")
	assert.NotContains(t, out, "economy")
}

func TestMatchCmd_AgainstParents(t *testing.T) {
	data := writeFile(t, "election.yaml", testDataset)

	out, err := execute(t, "match", "--data", data, "--against", "parents", "--format", "json")
	require.NoError(t, err)

	var views []matchView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "left", views[0].ID)
	assert.Equal(t, "right", views[1].ID)
}

func TestMatchCmd_ConfigAndObservability(t *testing.T) {
	data := writeFile(t, "election.yaml", testDataset)
	config := writeFile(t, "matching.yaml", "metric: euclidean\nmissing_values:\n  method: relative_maximum\n")
	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := execute(t, "match", "--data", data, "--config", config,
		"--trace", "--metrics-out", metricsPath, "--log-level", "error")
	require.NoError(t, err)

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "vaa_match_runs_total")
	assert.Contains(t, string(metrics), `metric="euclidean"`)
}

func TestMatchCmd_MetricsWrittenOnFailure(t *testing.T) {
	data := writeFile(t, "silent.yaml", `
questions:
  - {id: q1, type: likert, scale: 5}
reference:
  id: voter
  answers: {}
targets:
  - id: ann
    answers: {q1: 1}
`)
	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := execute(t, "match", "--data", data, "--metrics-out", metricsPath, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient")

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `status="error"`)
}

func TestMatchCmd_Errors(t *testing.T) {
	data := writeFile(t, "election.yaml", testDataset)
	badConfig := writeFile(t, "matching.yaml", "metric: cosine\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing data flag", args: []string{"match"}, wantErr: "data"},
		{name: "bad format", args: []string{"match", "--data", data, "--format", "xml"}, wantErr: "unsupported format"},
		{name: "bad against", args: []string{"match", "--data", data, "--against", "voters"}, wantErr: "--against"},
		{name: "bad config", args: []string{"match", "--data", data, "--config", badConfig}, wantErr: "metricname"},
		{name: "missing dataset", args: []string{"match", "--data", filepath.Join(t.TempDir(), "nope.yaml")}, wantErr: "failed to read dataset"},
		{name: "bad log level", args: []string{"match", "--data", data, "--log-level", "loud"}, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCmd(t *testing.T) {
	data := writeFile(t, "election.yaml", testDataset)
	config := writeFile(t, "matching.yaml", "metric: directional\n")

	out, err := execute(t, "validate", "--config", config, "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "configuration is valid (metric directional")
	assert.Contains(t, out, "dataset is valid (3 questions, 2 groups, 3 targets, 2 parents)")

	_, err = execute(t, "validate")
	assert.Error(t, err)
}

func TestGenerateCmd_RoundTrip(t *testing.T) {
	for _, name := range []string{"election.yaml", "election.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", name)

			out, err := execute(t, "generate", "--output", path, "--seed", "3",
				"--questions", "6", "--parties", "2", "--candidates", "3")
			require.NoError(t, err)
			assert.Contains(t, out, "Candidates: 6")

			out, err = execute(t, "match", "--data", path, "--format", "json")
			require.NoError(t, err)
			var views []matchView
			require.NoError(t, json.Unmarshal([]byte(out), &views))
			assert.Len(t, views, 6)

			out, err = execute(t, "match", "--data", path, "--against", "parents", "--format", "json")
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal([]byte(out), &views))
			assert.Len(t, views, 2)
		})
	}
}

func TestGenerateCmd_InvalidFlags(t *testing.T) {
	_, err := execute(t, "generate", "--output", filepath.Join(t.TempDir(), "x.yaml"), "--missing-rate", "1")
	assert.Error(t, err)
}
