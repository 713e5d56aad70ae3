package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/openvaa/vaa-matching/infrastructure/middleware"
	"github.com/openvaa/vaa-matching/infrastructure/questions"
	"github.com/openvaa/vaa-matching/internal/application"
	"github.com/openvaa/vaa-matching/internal/domain"
)

// Output formats and match modes accepted by the match command.
const (
	outputTable = "table"
	outputJSON  = "json"

	againstTargets = "targets"
	againstParents = "parents"
)

type matchFlags struct {
	configPath string
	dataPath   string
	format     string
	against    string
	noGroups   bool
	trace      bool
	metricsOut string
}

func newMatchCmd(opts *cliOptions) *cobra.Command {
	flags := &matchFlags{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank targets by their agreement with the reference",
		Long: `Loads a dataset, matches its reference respondent against every target
(or every parent, with missing parent answers imputed from its members) and
prints the results ordered from best to worst match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd.Context(), cmd.OutOrStdout(), opts.logger, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "matching configuration YAML (defaults are used when empty)")
	cmd.Flags().StringVarP(&flags.dataPath, "data", "d", "", "dataset file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", outputTable, "output format (table, json)")
	cmd.Flags().StringVar(&flags.against, "against", againstTargets, "entities to match (targets, parents)")
	cmd.Flags().BoolVar(&flags.noGroups, "no-groups", false, "skip per-group sub-matches")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "log a trace span for the run at debug level")
	cmd.Flags().StringVar(&flags.metricsOut, "metrics-out", "", "write Prometheus metrics of the run to this file")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runMatch(ctx context.Context, out io.Writer, logger *zap.Logger, flags *matchFlags) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if flags.format != outputTable && flags.format != outputJSON {
		return fmt.Errorf("unsupported format %q", flags.format)
	}
	if flags.against != againstTargets && flags.against != againstParents {
		return fmt.Errorf("unsupported --against value %q", flags.against)
	}

	cfg, err := loadConfig(ctx, flags.configPath)
	if err != nil {
		return err
	}

	ds, err := application.LoadDataset(flags.dataPath)
	if err != nil {
		return err
	}
	problem, err := ds.Resolve(questions.NewRegistry())
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		zap.String("path", flags.dataPath),
		zap.Int("questions", len(problem.Questions)),
		zap.Int("targets", len(problem.Targets)),
		zap.Int("parents", len(problem.Parents)),
	)

	matcherOpts := []application.MatcherOption{application.WithLogger(logger)}

	if flags.metricsOut != "" {
		registry := prometheus.NewRegistry()
		matcherOpts = append(matcherOpts, application.WithMetrics(middleware.NewPrometheusMetrics(registry)))
		// Failed runs are recorded too.
		defer func() {
			if werr := prometheus.WriteToTextfile(flags.metricsOut, registry); werr != nil {
				werr = fmt.Errorf("failed to write metrics: %w", werr)
				if err == nil {
					err = werr
					return
				}
				logger.Warn("metrics not written", zap.Error(werr))
			}
		}()
	}

	if flags.trace {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(middleware.NewZapSpanExporter(logger)))
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("failed to shut down tracer provider", zap.Error(err))
			}
		}()
		matcherOpts = append(matcherOpts, application.WithObserver(middleware.NewOTelRunObserver(tp)))
	}

	matcher, err := application.NewMatcher(cfg, matcherOpts...)
	if err != nil {
		return err
	}

	targets := problem.Targets
	if flags.against == againstParents {
		if len(problem.Parents) == 0 {
			return fmt.Errorf("dataset %s declares no parents", flags.dataPath)
		}
		proxies, err := application.ImputeParentAnswers(problem.Parents, problem.Members, problem.Questions)
		if err != nil {
			return err
		}
		targets = application.ProxyEntities(proxies)
	}

	var groups []domain.QuestionGroup
	if !flags.noGroups {
		groups = problem.Groups
	}

	matches, err := matcher.Match(ctx, problem.Questions, problem.Reference, targets,
		application.MatchOptions{QuestionGroups: groups})
	if err != nil {
		return err
	}
	matches = application.UnwrapProxies(matches)

	views := newMatchViews(matches, cfg.ScoreFormat)
	if flags.format == outputJSON {
		return writeJSON(out, views)
	}
	return writeTable(out, views)
}

func loadConfig(ctx context.Context, path string) (application.MatchingConfig, error) {
	if path == "" {
		return application.DefaultMatchingConfig(), nil
	}
	loader, err := application.NewConfigLoader(nil)
	if err != nil {
		return application.MatchingConfig{}, err
	}
	return loader.LoadFromFile(ctx, path)
}

// matchView is the rendered form of one match.
type matchView struct {
	Rank       int            `json:"rank"`
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Distance   float64        `json:"distance"`
	Score      string         `json:"score"`
	SubMatches []subMatchView `json:"sub_matches,omitempty"`
}

type subMatchView struct {
	Group    string  `json:"group"`
	Distance float64 `json:"distance"`
	Score    string  `json:"score"`
}

func newMatchViews(matches []domain.Match, format domain.ScoreFormat) []matchView {
	views := make([]matchView, len(matches))
	for i, m := range matches {
		v := matchView{
			Rank:     i + 1,
			Distance: float64(m.Distance),
			Score:    m.Format(format),
		}
		if r, ok := m.Target.(*domain.Respondent); ok {
			v.ID, v.Name = r.ID, r.Name
		}
		for _, sub := range m.SubMatches {
			group := sub.Group.Label
			if group == "" {
				group = sub.Group.ID
			}
			v.SubMatches = append(v.SubMatches, subMatchView{
				Group:    group,
				Distance: float64(sub.Distance),
				Score:    format.Format(sub.MatchFraction()),
			})
		}
		views[i] = v
	}
	return views
}

func writeJSON(out io.Writer, views []matchView) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(views); err != nil {
		return fmt.Errorf("failed to encode matches: %w", err)
	}
	return nil
}

func writeTable(out io.Writer, views []matchView) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tSCORE\tGROUPS")
	for _, v := range views {
		groups := ""
		for i, sub := range v.SubMatches {
			if i > 0 {
				groups += ", "
			}
			groups += fmt.Sprintf("%s %s", sub.Group, sub.Score)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.Rank, v.ID, v.Name, v.Score, groups)
	}
	return tw.Flush()
}
