package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openvaa/vaa-matching/infrastructure/questions"
	"github.com/openvaa/vaa-matching/internal/application"
)

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var configPath, dataPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a matching configuration and dataset without matching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" && dataPath == "" {
				return errors.New("nothing to validate: pass --config and/or --data")
			}

			if configPath != "" {
				cfg, err := loadConfig(cmd.Context(), configPath)
				if err != nil {
					return err
				}
				opts.logger.Debug("configuration loaded", zap.String("path", configPath), zap.String("metric", string(cfg.Metric)))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: configuration is valid (metric %s, missing values %s)\n",
					configPath, cfg.Metric, cfg.MissingValues.Method)
			}

			if dataPath != "" {
				ds, err := application.LoadDataset(dataPath)
				if err != nil {
					return err
				}
				problem, err := ds.Resolve(questions.NewRegistry())
				if err != nil {
					return fmt.Errorf("%s: %w", dataPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: dataset is valid (%d questions, %d groups, %d targets, %d parents)\n",
					dataPath, len(problem.Questions), len(problem.Groups), len(problem.Targets), len(problem.Parents))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "matching configuration YAML")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "dataset file (.yaml, .yml or .json)")
	return cmd
}
