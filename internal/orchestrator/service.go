// Package orchestrator drives one end-to-end review run: plan, execute,
// aggregate. All run state is scoped to the request; there are no ambient
// singletons, so concurrent reviews never share mutable state.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/clock"
	"github.com/mrz1836/archon/internal/config"
	"github.com/mrz1836/archon/internal/ctxutil"
	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/plan"
	"github.com/mrz1836/archon/internal/report"
	"github.com/mrz1836/archon/internal/run"
)

// Service is the external entry point of the orchestration core.
// It is safe for concurrent use; each Review call creates its own run.
type Service struct {
	registry *agent.Registry
	cfg      *config.Config
	clock    clock.Clock
	similar  report.Similarity
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock, primarily for tests.
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clock = clk }
}

// WithSimilarity overrides the dedup similarity predicate.
func WithSimilarity(similar report.Similarity) Option {
	return func(s *Service) { s.similar = similar }
}

// NewService creates a review service over a registry and configuration.
func NewService(registry *agent.Registry, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		cfg:      cfg,
		clock:    clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOptions is the optional per-request configuration from the caller.
// Zero values fall back to the service configuration.
type RunOptions struct {
	// MaxConcurrency bounds in-flight units for this run.
	MaxConcurrency int

	// GlobalTimeout bounds the whole run's wall-clock time.
	GlobalTimeout time.Duration
}

// Review executes one review run against the artifact and returns the
// consolidated report.
//
// Only pre-run structural errors (invalid artifact, empty plan, dependency
// cycle) prevent a report from being produced; once a valid plan exists the
// caller always receives a report, even a degraded partial or failed one.
func (s *Service) Review(ctx context.Context, artifact *domain.Artifact, opts *RunOptions) (*domain.Report, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := domain.ValidateArtifact(artifact); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().
		Str("component", "orchestrator").
		Str("run_id", runID).
		Str("artifact_id", artifact.ID).
		Logger()
	ctx = logger.WithContext(ctx)

	start := s.clock.Now()
	logger.Info().Int("sections", len(artifact.Sections)).Msg("review run started")

	p, err := plan.NewPlanner(s.registry).Build(logger, artifact)
	if err != nil {
		logger.Error().Err(err).Msg("planning failed")
		return nil, err
	}

	maxConcurrency, globalTimeout := s.effectiveOptions(opts)
	if globalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, globalTimeout)
		defer cancel()
	}

	coordinator := run.NewCoordinator(s.registry, run.Config{
		MaxConcurrency: maxConcurrency,
		DefaultTimeout: s.cfg.Run.AgentTimeout,
		RetryBaseDelay: s.cfg.Retry.BaseDelay,
		RetryMaxDelay:  s.cfg.Retry.MaxDelay,
	}, s.clock)

	outcome, err := coordinator.Execute(ctx, p)
	if err != nil {
		logger.Error().Err(err).Msg("execution failed")
		return nil, err
	}

	rep := report.NewAggregator(s.similar).Aggregate(logger, p, outcome)

	logger.Info().
		Str("status", rep.Status.String()).
		Dur("duration", s.clock.Now().Sub(start)).
		Msg("review run finished")

	return rep, nil
}

// effectiveOptions merges per-request options over the configured defaults.
func (s *Service) effectiveOptions(opts *RunOptions) (int, time.Duration) {
	maxConcurrency := s.cfg.Run.MaxConcurrency
	globalTimeout := s.cfg.Run.GlobalTimeout
	if opts != nil {
		if opts.MaxConcurrency > 0 {
			maxConcurrency = opts.MaxConcurrency
		}
		if opts.GlobalTimeout > 0 {
			globalTimeout = opts.GlobalTimeout
		}
	}
	return maxConcurrency, globalTimeout
}
