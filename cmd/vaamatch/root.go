package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openvaa/vaa-matching/internal/logging"
)

// cliOptions holds the persistent flags shared by all subcommands.
type cliOptions struct {
	logLevel  string
	logFormat string
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "vaamatch",
		Short: "Match voters with candidates and parties",
		Long: `vaamatch computes how closely a voter's answers agree with those of
candidates or parties in a voting advice application dataset.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", logging.FormatConsole, "log format (console, json)")

	root.AddCommand(
		newMatchCmd(opts),
		newValidateCmd(opts),
		newGenerateCmd(opts),
	)
	return root
}
