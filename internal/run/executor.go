package run

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/errors"
	"github.com/mrz1836/archon/internal/plan"
)

// attemptOutcome is the result of a single evaluation attempt.
type attemptOutcome struct {
	status   domain.RunStatus
	findings []domain.Finding
	reason   string
}

// executeUnit runs one plan unit through the retry policy and returns its
// terminal result. Failed and timed-out attempts are retried with
// exponential backoff up to the unit's declared retry budget; run-level
// cancellation stops retrying immediately.
func (c *Coordinator) executeUnit(ctx context.Context, unit plan.Unit, prior []domain.Finding) (domain.RunResult, []domain.Finding) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "coordinator").
		Str("agent_id", unit.AgentID).
		Str("section_id", unit.Section.ID).
		Logger()

	impl, err := c.registry.Get(unit.AgentID)
	if err != nil {
		// The planner only emits units for registered agents; a miss here
		// means the registry changed mid-run.
		return domain.RunResult{
			Unit:      unit.Index,
			AgentID:   unit.AgentID,
			SectionID: unit.Section.ID,
			Status:    domain.StatusFailed,
			Attempts:  1,
			Reason:    err.Error(),
		}, nil
	}

	timeout := unit.Timeout
	if timeout <= 0 {
		timeout = c.cfg.DefaultTimeout
	}

	op := &SimpleRetryOperation[attemptOutcome]{
		AttemptFunc: func(ctx context.Context, attempt int) (attemptOutcome, bool, error) {
			out := c.attempt(ctx, impl, unit, prior, timeout)
			if out.status == domain.StatusSucceeded {
				return out, true, nil
			}
			return out, false, stderrors.New(out.reason)
		},
		ShouldRetryFunc: func(error) bool {
			// Run-level cancellation is terminal; everything else retries.
			return ctx.Err() == nil
		},
		OnRetryWaitFunc: func(attempt int, delay time.Duration) {
			log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("retrying unit after backoff")
		},
	}

	cfg := RetryConfig{
		MaxAttempts:  unit.MaxRetries + 1,
		InitialDelay: c.cfg.RetryBaseDelay,
		Multiplier:   2,
		MaxDelay:     c.cfg.RetryMaxDelay,
	}

	out, attempts, _ := ExecuteWithRetry(ctx, cfg, c.clock, op)

	res := domain.RunResult{
		Unit:      unit.Index,
		AgentID:   unit.AgentID,
		SectionID: unit.Section.ID,
		Status:    out.status,
		Attempts:  attempts,
		Reason:    out.reason,
	}
	if res.Status != domain.StatusSucceeded {
		return res, nil
	}
	return res, out.findings
}

// attempt performs one bounded evaluation of the agent against the section.
func (c *Coordinator) attempt(ctx context.Context, impl agent.Agent, unit plan.Unit, prior []domain.Finding, timeout time.Duration) attemptOutcome {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	findings, err := impl.Evaluate(attemptCtx, &agent.Request{
		Section: unit.Section,
		Prior:   prior,
	})

	switch {
	case err == nil:
		return attemptOutcome{
			status:   domain.StatusSucceeded,
			findings: stampFindings(findings, unit),
		}

	case ctx.Err() != nil:
		// The run itself was canceled while the attempt was in flight.
		return attemptOutcome{
			status: domain.StatusCanceled,
			reason: errors.ErrRunCanceled.Error(),
		}

	case stderrors.Is(err, context.DeadlineExceeded):
		return attemptOutcome{
			status: domain.StatusTimedOut,
			reason: "agent exceeded declared timeout of " + timeout.String(),
		}

	default:
		return attemptOutcome{
			status: domain.StatusFailed,
			reason: errors.Wrap(err, errors.ErrAgentFailed.Error()).Error(),
		}
	}
}

// stampFindings fills in source agent and section on every finding so each
// one traces to exactly one succeeded run result, regardless of whether the
// agent set the fields itself.
func stampFindings(findings []domain.Finding, unit plan.Unit) []domain.Finding {
	out := make([]domain.Finding, len(findings))
	for i, f := range findings {
		f.AgentID = unit.AgentID
		if f.SectionID == "" {
			f.SectionID = unit.Section.ID
		}
		out[i] = f
	}
	return out
}
