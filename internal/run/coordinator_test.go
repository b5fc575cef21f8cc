package run_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/plan"
	"github.com/mrz1836/archon/internal/run"
)

func testConfig() run.Config {
	return run.Config{
		MaxConcurrency: 4,
		DefaultTimeout: time.Second,
		RetryBaseDelay: 10 * time.Millisecond,
		RetryMaxDelay:  100 * time.Millisecond,
	}
}

func buildPlan(t *testing.T, reg *agent.Registry, artifact *domain.Artifact) *plan.Plan {
	t.Helper()
	p, err := plan.NewPlanner(reg).Build(zerolog.Nop(), artifact)
	require.NoError(t, err)
	return p
}

func singleSectionArtifact() *domain.Artifact {
	return &domain.Artifact{
		ID:       "payments-platform",
		Sections: []domain.Section{{ID: "s1", Type: "project_specifics", Content: "tier 1"}},
	}
}

// resultFor returns the terminal result of the named agent, failing the test
// when the agent has no unit in the outcome.
func resultFor(t *testing.T, p *plan.Plan, outcome *run.Outcome, agentID string) domain.RunResult {
	t.Helper()
	for _, u := range p.Units {
		if u.AgentID == agentID {
			return outcome.Results[u.Index]
		}
	}
	t.Fatalf("no unit for agent %s", agentID)
	return domain.RunResult{}
}

func TestCoordinator_Execute_AllSucceed(t *testing.T) {
	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "alpha",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		// The coordinator stamps source ids; the agent may leave them empty.
		return []domain.Finding{{Severity: domain.SeverityWarning, Category: "demographics", Message: "external users"}}, nil
	})))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "bravo",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		return []domain.Finding{{Severity: domain.SeverityInfo, Category: "topology", Message: "clean"}}, nil
	})))

	p := buildPlan(t, reg, singleSectionArtifact())
	outcome, err := run.NewCoordinator(reg, testConfig(), newFakeClock()).Execute(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)

	for _, u := range p.Units {
		res := outcome.Results[u.Index]
		assert.Equal(t, domain.StatusSucceeded, res.Status)
		assert.Equal(t, 1, res.Attempts)
		assert.Empty(t, res.Reason)

		require.Len(t, outcome.Findings[u.Index], 1)
		f := outcome.Findings[u.Index][0]
		assert.Equal(t, u.AgentID, f.AgentID)
		assert.Equal(t, "s1", f.SectionID)
	}
}

func TestCoordinator_Execute_FailureExhaustsRetriesAndSkipsDependents(t *testing.T) {
	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "alpha",
		SectionTypes: []domain.SectionType{"project_specifics"},
		MaxRetries:   2,
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		return nil, stderrors.New("upstream unavailable")
	})))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "bravo",
		SectionTypes: []domain.SectionType{"project_specifics"},
		DependsOn:    []string{"alpha"},
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		t.Error("dependent agent must not run")
		return nil, nil
	})))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "charlie",
		SectionTypes: []domain.SectionType{"project_specifics"},
		DependsOn:    []string{"bravo"},
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		t.Error("transitive dependent must not run")
		return nil, nil
	})))

	p := buildPlan(t, reg, singleSectionArtifact())
	clk := newFakeClock()
	outcome, err := run.NewCoordinator(reg, testConfig(), clk).Execute(context.Background(), p)
	require.NoError(t, err)

	alpha := resultFor(t, p, outcome, "alpha")
	assert.Equal(t, domain.StatusFailed, alpha.Status)
	assert.Equal(t, 3, alpha.Attempts)
	assert.Contains(t, alpha.Reason, "upstream unavailable")

	// Skip propagates transitively, with zero attempts.
	for _, id := range []string{"bravo", "charlie"} {
		res := resultFor(t, p, outcome, id)
		assert.Equal(t, domain.StatusSkipped, res.Status)
		assert.Equal(t, domain.SkipReasonDependencyFailed, res.Reason)
		assert.Equal(t, 0, res.Attempts)
	}

	// Backoff between the three attempts: base, then doubled.
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, clk.recordedDelays())
}

func TestCoordinator_Execute_FailedUnitsContributeNoFindings(t *testing.T) {
	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "alpha",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		// Findings returned alongside an error are discarded.
		return []domain.Finding{{Severity: domain.SeverityCritical, Category: "x", Message: "partial"}}, stderrors.New("boom")
	})))

	p := buildPlan(t, reg, singleSectionArtifact())
	outcome, err := run.NewCoordinator(reg, testConfig(), newFakeClock()).Execute(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, outcome.Results[0].Status)
	assert.Empty(t, outcome.Findings[0])
}

func TestCoordinator_Execute_TimeoutPerAttempt(t *testing.T) {
	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "slow",
		SectionTypes: []domain.SectionType{"project_specifics"},
		Timeout:      20 * time.Millisecond,
		MaxRetries:   1,
	}, agent.EvaluateFunc(func(ctx context.Context, _ *agent.Request) ([]domain.Finding, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "dependent",
		SectionTypes: []domain.SectionType{"project_specifics"},
		DependsOn:    []string{"slow"},
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		t.Error("dependent agent must not run")
		return nil, nil
	})))

	p := buildPlan(t, reg, singleSectionArtifact())
	outcome, err := run.NewCoordinator(reg, testConfig(), newFakeClock()).Execute(context.Background(), p)
	require.NoError(t, err)

	slow := resultFor(t, p, outcome, "slow")
	assert.Equal(t, domain.StatusTimedOut, slow.Status)
	assert.Equal(t, 2, slow.Attempts)
	assert.Contains(t, slow.Reason, "timeout")

	dependent := resultFor(t, p, outcome, "dependent")
	assert.Equal(t, domain.StatusSkipped, dependent.Status)
	assert.Equal(t, domain.SkipReasonDependencyFailed, dependent.Reason)
}

func TestCoordinator_Execute_SerializedRunsInRankOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(id string) agent.Agent {
		return agent.EvaluateFunc(func(_ context.Context, req *agent.Request) ([]domain.Finding, error) {
			mu.Lock()
			order = append(order, id+":"+req.Section.ID)
			mu.Unlock()
			return nil, nil
		})
	}

	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "charlie",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, record("charlie")))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "alpha",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, record("alpha")))

	artifact := &domain.Artifact{
		ID: "a",
		Sections: []domain.Section{
			{ID: "s1", Type: "project_specifics", Content: "x"},
			{ID: "s2", Type: "project_specifics", Content: "y"},
		},
	}
	p := buildPlan(t, reg, artifact)

	cfg := testConfig()
	cfg.MaxConcurrency = 1
	_, err := run.NewCoordinator(reg, cfg, newFakeClock()).Execute(context.Background(), p)
	require.NoError(t, err)

	// With one slot, dispatch follows plan rank exactly:
	// section order first, then registration order.
	assert.Equal(t, []string{"charlie:s1", "alpha:s1", "charlie:s2", "alpha:s2"}, order)
}

func TestCoordinator_Execute_BoundedConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	tracked := agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil, nil
	})

	reg := agent.NewRegistry()
	for _, id := range []string{"a1", "a2", "a3", "a4"} {
		require.NoError(t, reg.Register(agent.Descriptor{
			ID:           id,
			SectionTypes: []domain.SectionType{"project_specifics"},
		}, tracked))
	}

	p := buildPlan(t, reg, singleSectionArtifact())

	cfg := testConfig()
	cfg.MaxConcurrency = 2
	_, err := run.NewCoordinator(reg, cfg, newFakeClock()).Execute(context.Background(), p)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
	assert.Equal(t, 0, inFlight)
}

func TestCoordinator_Execute_PriorFindingsInRankOrder(t *testing.T) {
	emit := func(message string) agent.Agent {
		return agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
			return []domain.Finding{{Severity: domain.SeverityInfo, Category: "c", Message: message}}, nil
		})
	}

	var mu sync.Mutex
	var prior []domain.Finding

	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "alpha",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, emit("from alpha")))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "bravo",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, emit("from bravo")))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "charlie",
		SectionTypes: []domain.SectionType{"project_specifics"},
		DependsOn:    []string{"bravo", "alpha"},
	}, agent.EvaluateFunc(func(_ context.Context, req *agent.Request) ([]domain.Finding, error) {
		mu.Lock()
		prior = append([]domain.Finding(nil), req.Prior...)
		mu.Unlock()
		return nil, nil
	})))

	p := buildPlan(t, reg, singleSectionArtifact())
	_, err := run.NewCoordinator(reg, testConfig(), newFakeClock()).Execute(context.Background(), p)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, prior, 2)

	// Rank order of the producers, not declaration order of DependsOn.
	assert.Equal(t, "from alpha", prior[0].Message)
	assert.Equal(t, "from bravo", prior[1].Message)
	assert.Equal(t, "alpha", prior[0].AgentID)
	assert.Equal(t, "bravo", prior[1].AgentID)
}

func TestCoordinator_Execute_Cancellation(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once

	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "blocker",
		SectionTypes: []domain.SectionType{"project_specifics"},
		MaxRetries:   3,
	}, agent.EvaluateFunc(func(ctx context.Context, _ *agent.Request) ([]domain.Finding, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return nil, ctx.Err()
	})))
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "dependent",
		SectionTypes: []domain.SectionType{"project_specifics"},
		DependsOn:    []string{"blocker"},
	}, agent.EvaluateFunc(func(_ context.Context, _ *agent.Request) ([]domain.Finding, error) {
		t.Error("dependent agent must not run after cancellation")
		return nil, nil
	})))

	p := buildPlan(t, reg, singleSectionArtifact())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	cfg := testConfig()
	cfg.MaxConcurrency = 1
	outcome, err := run.NewCoordinator(reg, cfg, newFakeClock()).Execute(ctx, p)
	require.NoError(t, err)

	// In-flight unit reports cancellation, with no retries spent on it.
	blocker := resultFor(t, p, outcome, "blocker")
	assert.Equal(t, domain.StatusCanceled, blocker.Status)
	assert.Equal(t, 1, blocker.Attempts)

	// Never-started units are swept as skipped.
	dependent := resultFor(t, p, outcome, "dependent")
	assert.Equal(t, domain.StatusSkipped, dependent.Status)
	assert.Equal(t, domain.SkipReasonRunCanceled, dependent.Reason)
}

func TestCoordinator_Execute_CanceledBeforeStart(t *testing.T) {
	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(agent.Descriptor{
		ID:           "alpha",
		SectionTypes: []domain.SectionType{"project_specifics"},
	}, agent.EvaluateFunc(func(ctx context.Context, _ *agent.Request) ([]domain.Finding, error) {
		return nil, ctx.Err()
	})))

	p := buildPlan(t, reg, singleSectionArtifact())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := run.NewCoordinator(reg, testConfig(), newFakeClock()).Execute(ctx, p)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)

	// Either the sweep skips the unit before launch or the launched attempt
	// observes the canceled context; both are terminal non-success states.
	status := outcome.Results[0].Status
	assert.Contains(t, []domain.RunStatus{domain.StatusSkipped, domain.StatusCanceled}, status)
}
