// Package application orchestrates matching runs: it validates inputs,
// builds the matching space, projects entities into it and measures the
// distance from a reference to every target.
package application

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openvaa/vaa-matching/infrastructure/distance"
	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

// MatchOptions are per-run inputs to Matcher.Match.
type MatchOptions struct {
	// QuestionWeights override the configured weights for this run.
	QuestionWeights map[string]float64
	// QuestionGroups are the groups, such as categories, for which
	// sub-matches are computed. Sub-matches follow the order of the groups.
	QuestionGroups []domain.QuestionGroup
}

// Matcher computes matches between a reference entity and targets.
//
// Concurrency: Matcher holds only immutable configuration and is safe for
// concurrent use. A single run may measure targets in parallel, but its
// results are always ordered deterministically.
type Matcher struct {
	cfg       MatchingConfig
	metric    ports.DistanceMetric
	registry  *MetricRegistry
	logger    *zap.Logger
	metrics   ports.MetricsCollector
	observer  ports.RunObserver
	projector ports.Projector
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *zap.Logger) MatcherOption {
	return func(m *Matcher) { m.logger = logger }
}

// WithMetrics sets the collector receiving run metrics.
func WithMetrics(metrics ports.MetricsCollector) MatcherOption {
	return func(m *Matcher) { m.metrics = metrics }
}

// WithObserver sets the observer notified of run start and finish.
func WithObserver(observer ports.RunObserver) MatcherOption {
	return func(m *Matcher) { m.observer = observer }
}

// WithProjector sets the projector applied to all positions before
// measuring. The default is IdentityProjector.
func WithProjector(projector ports.Projector) MatcherOption {
	return func(m *Matcher) { m.projector = projector }
}

// WithMetricRegistry sets the registry the configured metric is looked up
// in. The default is NewMetricRegistry.
func WithMetricRegistry(registry *MetricRegistry) MatcherOption {
	return func(m *Matcher) { m.registry = registry }
}

// NewMatcher validates cfg and creates a Matcher.
// Returns a ConfigurationError if the configuration is invalid or names an
// unregistered metric.
func NewMatcher(cfg MatchingConfig, opts ...MatcherOption) (*Matcher, error) {
	m := &Matcher{
		cfg:       cfg.clone(),
		logger:    zap.NewNop(),
		projector: IdentityProjector{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = NewMetricRegistry()
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.projector == nil {
		m.projector = IdentityProjector{}
	}

	v, err := newConfigValidator(m.registry)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(v, &m.cfg); err != nil {
		return nil, err
	}

	metric, err := m.registry.Get(m.cfg.Metric)
	if err != nil {
		return nil, err
	}
	m.metric = metric
	return m, nil
}

// Config returns a copy of the matcher's configuration.
func (m *Matcher) Config() MatchingConfig { return m.cfg.clone() }

// Match computes one Match per target, sorted by ascending distance with
// ties kept in input order.
//
// Only questions the reference answered are used. Each target's missing
// answers are imputed according to the configured method. All validation
// happens before any distance is measured, so a failed run returns no
// partial results.
//
// Errors:
//   - ConfigurationError: empty or nil questions or targets, duplicate
//     question ids, nil group members, incompatible projections
//   - DomainError: an answer is illegal for its question
//   - InsufficientDataError: the reference answered none of the questions
//   - the context's error if ctx is done before the run completes
func (m *Matcher) Match(
	ctx context.Context,
	questions []domain.MatchableQuestion,
	reference domain.Entity,
	targets []domain.Entity,
	opts MatchOptions,
) (matches []domain.Match, err error) {
	info := ports.RunInfo{
		RunID:         uuid.NewString(),
		Metric:        string(m.cfg.Metric),
		MissingMethod: string(m.cfg.MissingValues.Method),
		Questions:     len(questions),
		Targets:       len(targets),
		Groups:        len(opts.QuestionGroups),
	}
	start := time.Now()
	if m.observer != nil {
		ctx = m.observer.Start(ctx, info)
	}
	defer func() {
		elapsed := time.Since(start)
		m.finishRun(ctx, info, elapsed, matches, err)
	}()

	if err := validateInputs(questions, reference, targets, opts.QuestionGroups); err != nil {
		return nil, err
	}

	active := answeredQuestions(questions, reference)
	info.ActiveQuestions = len(active)
	if len(active) == 0 {
		return nil, &domain.InsufficientDataError{Requested: len(questions), Answered: 0}
	}

	entities := make([]domain.Entity, 0, len(targets)+1)
	entities = append(entities, reference)
	entities = append(entities, targets...)

	positions, err := ProjectToSpace(active, m.cfg.mergeWeights(opts.QuestionWeights), entities...)
	if err != nil {
		return nil, err
	}

	projected, err := m.projector.Project(positions)
	if err != nil {
		return nil, fmt.Errorf("projecting positions: %w", err)
	}
	if len(projected) != len(positions) {
		return nil, domain.NewConfigurationError("Projector",
			fmt.Sprintf("returned %d positions for %d inputs", len(projected), len(positions)))
	}

	subspaces, err := m.groupSubspaces(active, opts.QuestionGroups, info.RunID)
	if err != nil {
		return nil, err
	}

	matches, err = m.measureAll(ctx, projected[0], projected[1:], targets, opts.QuestionGroups, subspaces)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	return matches, nil
}

// measureAll measures every target against the reference on an errgroup
// limited to the configured parallelism. Each worker writes only its own
// slot of the result slice, so results keep input order.
func (m *Matcher) measureAll(
	ctx context.Context,
	reference domain.Position,
	positions []domain.Position,
	targets []domain.Entity,
	groups []domain.QuestionGroup,
	subspaces []*domain.MatchingSpace,
) ([]domain.Match, error) {
	opts := distance.MeasureOptions{
		Metric:                m.metric,
		MissingValues:         m.cfg.MissingValues,
		AllowMissingReference: true,
	}

	results := make([]domain.Match, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.parallelism())

	for i := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := distance.Measure(reference, positions[i], opts, subspaces...)
			if err != nil {
				return fmt.Errorf("measuring target %d: %w", i, err)
			}
			match := domain.Match{Distance: d.Global, Target: targets[i]}
			if len(groups) > 0 {
				match.SubMatches = make([]domain.SubMatch, len(groups))
				for j, group := range groups {
					match.SubMatches[j] = domain.SubMatch{Distance: d.Subspaces[j], Group: group}
				}
			}
			results[i] = match
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// groupSubspaces builds one sub-space per group over the active questions.
func (m *Matcher) groupSubspaces(active []domain.MatchableQuestion, groups []domain.QuestionGroup, runID string) ([]*domain.MatchingSpace, error) {
	activeIDs := make(map[string]struct{}, len(active))
	for _, q := range active {
		activeIDs[q.ID()] = struct{}{}
	}

	subspaces := make([]*domain.MatchingSpace, len(groups))
	for i, group := range groups {
		overlap := 0
		for _, q := range group.Questions {
			if _, ok := activeIDs[q.ID()]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			m.logger.Warn("question group has no answered questions",
				zap.String("run_id", runID),
				zap.String("group_id", group.ID),
			)
		}

		s, err := domain.Subspace(active, group.Questions)
		if err != nil {
			return nil, err
		}
		subspaces[i] = s
	}
	return subspaces, nil
}

// finishRun reports the outcome of a run to the logger, the metrics
// collector and the observer.
func (m *Matcher) finishRun(ctx context.Context, info ports.RunInfo, elapsed time.Duration, matches []domain.Match, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	if m.metrics != nil {
		labels := map[string]string{"metric": info.Metric, "status": status}
		m.metrics.RecordLatency(ports.MetricRunLatency, elapsed, labels)
		m.metrics.RecordCounter(ports.MetricRunsTotal, 1, labels)
		if err == nil {
			m.metrics.RecordHistogram(ports.MetricTargetsPerRun, float64(info.Targets), labels)
			m.metrics.RecordGauge(ports.MetricActiveQuestions, float64(info.ActiveQuestions), labels)
			for _, match := range matches {
				m.metrics.RecordHistogram(ports.MetricDistance, float64(match.Distance),
					map[string]string{"metric": info.Metric, "scope": "global"})
				for _, sub := range match.SubMatches {
					m.metrics.RecordHistogram(ports.MetricDistance, float64(sub.Distance),
						map[string]string{"metric": info.Metric, "scope": "group"})
				}
			}
		}
	}

	if m.observer != nil {
		m.observer.Finish(ctx, info, elapsed, err)
	}

	fields := []zap.Field{
		zap.String("run_id", info.RunID),
		zap.String("metric", info.Metric),
		zap.String("missing_method", info.MissingMethod),
		zap.Int("questions", info.Questions),
		zap.Int("active_questions", info.ActiveQuestions),
		zap.Int("targets", info.Targets),
		zap.Int("groups", info.Groups),
		zap.Duration("duration", elapsed),
	}
	if err != nil {
		m.logger.Debug("matching run failed", append(fields, zap.Error(err))...)
		return
	}
	m.logger.Debug("matching run completed", fields...)
}

// validateInputs checks the structural preconditions of a run.
func validateInputs(
	questions []domain.MatchableQuestion,
	reference domain.Entity,
	targets []domain.Entity,
	groups []domain.QuestionGroup,
) error {
	cfgErr := domain.NewConfigurationError("Matcher")
	if len(questions) == 0 {
		cfgErr.AddError("questions must not be empty")
	}
	if reference == nil {
		cfgErr.AddError("reference must not be nil")
	}
	if len(targets) == 0 {
		cfgErr.AddError("targets must not be empty")
	}

	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q == nil {
			cfgErr.AddErrorf("question %d is nil", i)
			continue
		}
		if _, dup := seen[q.ID()]; dup {
			cfgErr.AddErrorf("duplicate question id %q", q.ID())
		}
		seen[q.ID()] = struct{}{}
	}
	for i, t := range targets {
		if t == nil {
			cfgErr.AddErrorf("target %d is nil", i)
		}
	}
	for i, g := range groups {
		for j, q := range g.Questions {
			if q == nil {
				cfgErr.AddErrorf("question %d of group %s is nil", j, groupName(g, i))
			}
		}
	}
	return cfgErr.ErrOrNil()
}

func groupName(g domain.QuestionGroup, i int) string {
	if g.ID != "" {
		return strconv.Quote(g.ID)
	}
	return strconv.Itoa(i)
}

// answeredQuestions returns the questions the reference has answered,
// keeping their order.
func answeredQuestions(questions []domain.MatchableQuestion, reference domain.Entity) []domain.MatchableQuestion {
	answers := reference.Answers()
	active := make([]domain.MatchableQuestion, 0, len(questions))
	for _, q := range questions {
		if answers.Has(q.ID()) {
			active = append(active, q)
		}
	}
	return active
}

// ProjectToSpace builds a matching space with one dimension per question,
// weighted by weights, and projects every entity into it. Positions are
// returned in the order of entities.
//
// Returns a DomainError if an answer is illegal for its question and a
// ConfigurationError if a question yields the wrong number of coordinates.
func ProjectToSpace(questions []domain.MatchableQuestion, weights map[string]float64, entities ...domain.Entity) ([]domain.Position, error) {
	space, err := domain.SpaceFromQuestions(questions, weights)
	if err != nil {
		return nil, err
	}

	positions := make([]domain.Position, len(entities))
	for i, entity := range entities {
		if entity == nil {
			return nil, domain.NewConfigurationError("ProjectToSpace", fmt.Sprintf("entity %d is nil", i))
		}
		answers := entity.Answers()
		coords := make([][]domain.Coordinate, len(questions))
		for j, q := range questions {
			c, err := q.NormalizeValue(answers.Value(q.ID()))
			if err != nil {
				return nil, err
			}
			if len(c) != q.NormalizedDimensions() {
				return nil, domain.NewConfigurationError("ProjectToSpace",
					fmt.Sprintf("question %s returned %d coordinates, expected %d", q.ID(), len(c), q.NormalizedDimensions()))
			}
			coords[j] = c
		}
		pos, err := domain.NewPosition(space, coords)
		if err != nil {
			return nil, err
		}
		positions[i] = pos
	}
	return positions, nil
}
