package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/openvaa/vaa-matching/internal/application"
	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/testutils"
)

func newGenerateCmd(opts *cliOptions) *cobra.Command {
	cfg := testutils.DefaultElectionConfig()
	var (
		outputPath string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic election dataset",
		Long: `Generates a synthetic election with parties, candidates and a voter for
demos and load tests. The output format follows the file extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Questions < 1 || cfg.Parties < 1 || cfg.CandidatesPerParty < 1 {
				return fmt.Errorf("questions, parties and candidates must be positive")
			}
			if cfg.MissingRate < 0 || cfg.MissingRate >= 1 {
				return fmt.Errorf("missing rate must be in [0, 1)")
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			election := testutils.GenerateElection(cfg, seed)
			if err := writeDataset(outputPath, electionDataset(election)); err != nil {
				return err
			}

			stats := testutils.ComputeElectionStatistics(election)
			opts.logger.Info("dataset generated", zap.String("path", outputPath), zap.Int64("seed", seed))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated election dataset:\n")
			fmt.Fprintf(out, "- Path: %s\n", outputPath)
			fmt.Fprintf(out, "- Questions: %d %v\n", stats.Questions, stats.QuestionsByType)
			fmt.Fprintf(out, "- Parties: %d\n", stats.Parties)
			fmt.Fprintf(out, "- Candidates: %d\n", stats.Candidates)
			fmt.Fprintf(out, "- Answer rate: %.2f\n", stats.AnswerRate)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Questions, "questions", cfg.Questions, "number of questions")
	cmd.Flags().IntVar(&cfg.Parties, "parties", cfg.Parties, "number of parties")
	cmd.Flags().IntVar(&cfg.CandidatesPerParty, "candidates", cfg.CandidatesPerParty, "candidates per party")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "probability that a candidate skips a question")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (time based when unset)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "election.yaml", "output file path")
	return cmd
}

// electionDataset converts a generated election to the dataset file format.
func electionDataset(e *testutils.Election) *application.Dataset {
	ds := &application.Dataset{
		Questions: e.Questions,
		Reference: record(e.Voter),
	}
	for _, c := range e.Candidates {
		ds.Targets = append(ds.Targets, record(c))
	}
	for _, p := range e.Parties {
		r := record(p)
		r.Members = e.Members[p.ID]
		ds.Parents = append(ds.Parents, r)
	}
	return ds
}

func record(r *domain.Respondent) application.EntityRecord {
	answers := make(map[string]any, len(r.AnswerSet))
	for id, a := range r.AnswerSet {
		answers[id] = a.Value
	}
	return application.EntityRecord{ID: r.ID, Name: r.Name, Answers: answers}
}

func writeDataset(path string, ds *application.Dataset) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}
