package run

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/clock"
	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/plan"
)

// Config holds coordinator tuning knobs.
type Config struct {
	// MaxConcurrency bounds the number of in-flight units. Values below one
	// fall back to one.
	MaxConcurrency int

	// DefaultTimeout applies to units whose descriptor declares no timeout.
	DefaultTimeout time.Duration

	// RetryBaseDelay is the backoff before the first retry; it doubles per
	// attempt up to RetryMaxDelay.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps the backoff between retries.
	RetryMaxDelay time.Duration
}

// Coordinator executes a plan's units respecting the DAG order while
// maximizing concurrency among units with no pending dependency.
//
// The coordinator never reorders eligible units beyond the planner's
// deterministic rank: excess eligible units queue FIFO by rank until an
// in-flight slot frees up.
type Coordinator struct {
	registry *agent.Registry
	cfg      Config
	clock    clock.Clock
}

// NewCoordinator creates a coordinator over the registry with the given
// config. A nil clock selects the system clock.
func NewCoordinator(registry *agent.Registry, cfg Config, clk clock.Clock) *Coordinator {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Coordinator{
		registry: registry,
		cfg:      cfg,
		clock:    clk,
	}
}

// Outcome carries every unit's terminal result plus the findings of the
// succeeded units, both indexed by unit.
type Outcome struct {
	Results  []domain.RunResult
	Findings [][]domain.Finding
}

// completion is a worker's report of one finished unit.
type completion struct {
	res      domain.RunResult
	findings []domain.Finding
}

// Execute runs the plan to completion and returns every unit's terminal
// result. Cancellation of ctx stops scheduling: in-flight units are
// canceled cooperatively, eligible-but-not-started units are skipped, and
// already-terminal results are preserved. Execute still returns the
// collected outcome in that case so a degraded report can be produced.
//
// The returned error reports only internal invariant violations (a unit
// result published twice), never per-unit failures.
func (c *Coordinator) Execute(ctx context.Context, p *plan.Plan) (*Outcome, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "coordinator").
		Str("artifact_id", p.ArtifactID).
		Logger()

	n := p.Len()
	store := newResultStore(n)
	dependents := p.Dependents()

	pending := make([]int, n)
	depFailed := make([]bool, n)
	terminal := make([]bool, n)
	started := make([]bool, n)
	for i := range p.Units {
		pending[i] = len(p.Units[i].DependsOn)
	}

	// ready holds eligible unit indices ordered by plan rank (FIFO fairness).
	var ready []int
	pushReady := func(idx int) {
		rank := p.Units[idx].Rank
		pos := sort.Search(len(ready), func(i int) bool {
			return p.Units[ready[i]].Rank > rank
		})
		ready = append(ready, 0)
		copy(ready[pos+1:], ready[pos:])
		ready[pos] = idx
	}
	for _, idx := range p.Order() {
		if pending[idx] == 0 {
			pushReady(idx)
		}
	}

	var g errgroup.Group
	done := make(chan completion)
	inFlight := 0
	finished := 0
	var publishErr error

	// finalize publishes a terminal result and cascades eligibility and
	// skip propagation to dependents. Runs only on the scheduler goroutine.
	var finalize func(comp completion)
	finalize = func(comp completion) {
		idx := comp.res.Unit
		if err := store.publish(comp.res, comp.findings); err != nil {
			if publishErr == nil {
				publishErr = err
			}
			return
		}
		terminal[idx] = true
		finished++

		log.Debug().
			Str("agent_id", comp.res.AgentID).
			Str("section_id", comp.res.SectionID).
			Str("status", comp.res.Status.String()).
			Int("attempts", comp.res.Attempts).
			Msg("unit finished")

		for _, dep := range dependents[idx] {
			if terminal[dep] {
				continue
			}
			pending[dep]--
			if !comp.res.Succeeded() {
				depFailed[dep] = true
			}
			if pending[dep] > 0 {
				continue
			}
			if depFailed[dep] {
				finalize(completion{res: skippedResult(p.Units[dep], domain.SkipReasonDependencyFailed)})
				continue
			}
			pushReady(dep)
		}
	}

	ctxDone := ctx.Done()
	canceled := false

	for finished < n && publishErr == nil {
		// Launch eligible units while in-flight capacity remains.
		for !canceled && inFlight < c.cfg.MaxConcurrency && len(ready) > 0 {
			idx := ready[0]
			ready = ready[1:]
			started[idx] = true
			inFlight++

			unit := p.Units[idx]
			prior := c.priorFindings(p, store, idx)
			g.Go(func() error {
				res, findings := c.executeUnit(ctx, unit, prior)
				done <- completion{res: res, findings: findings}
				return nil
			})
		}

		if inFlight == 0 && len(ready) == 0 && !canceled {
			// Acyclic plans always drain; reaching here means finished == n.
			break
		}

		select {
		case comp := <-done:
			inFlight--
			finalize(comp)

		case <-ctxDone:
			ctxDone = nil
			canceled = true
			log.Warn().Msg("run canceled, skipping unstarted units")

			// Eligible-but-not-started and still-blocked units are skipped;
			// in-flight units report through their own cancellation.
			ready = nil
			for i := 0; i < n; i++ {
				if !terminal[i] && !started[i] {
					finalize(completion{res: skippedResult(p.Units[i], domain.SkipReasonRunCanceled)})
				}
			}
		}
	}

	_ = g.Wait()

	if publishErr != nil {
		return nil, publishErr
	}

	results, findings := store.snapshot()
	return &Outcome{Results: results, Findings: findings}, nil
}

// priorFindings collects the findings of a unit's dependencies in rank order.
// All dependencies are terminal when the unit launches, so the store reads
// are race-free.
func (c *Coordinator) priorFindings(p *plan.Plan, store *resultStore, idx int) []domain.Finding {
	deps := make([]int, len(p.Units[idx].DependsOn))
	copy(deps, p.Units[idx].DependsOn)
	sort.Slice(deps, func(i, j int) bool {
		return p.Units[deps[i]].Rank < p.Units[deps[j]].Rank
	})

	var prior []domain.Finding
	for _, d := range deps {
		prior = append(prior, store.findingsFor(d)...)
	}
	return prior
}

// skippedResult builds the terminal result for a unit that never executes.
func skippedResult(u plan.Unit, reason string) domain.RunResult {
	return domain.RunResult{
		Unit:      u.Index,
		AgentID:   u.AgentID,
		SectionID: u.Section.ID,
		Status:    domain.StatusSkipped,
		Reason:    reason,
	}
}
