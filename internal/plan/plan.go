// Package plan builds dependency-ordered execution plans for review runs.
//
// A plan is an arena of units indexed by position, with dependency edges
// expressed as indices into the arena. This keeps cycle detection simple
// and iteration deterministic.
package plan

import (
	"time"

	"github.com/mrz1836/archon/internal/domain"
)

// Unit is one (agent, section) dispatch in a plan.
type Unit struct {
	// Index is the unit's position in the plan arena.
	Index int

	// AgentID identifies the agent to dispatch.
	AgentID string

	// Section is the artifact section the agent evaluates.
	Section domain.Section

	// Timeout bounds each evaluation attempt.
	Timeout time.Duration

	// MaxRetries is how many times a failed attempt is retried.
	MaxRetries int

	// DependsOn lists the unit indices that must reach a terminal result
	// before this unit becomes eligible.
	DependsOn []int

	// Rank is the unit's position in the deterministic topological order.
	// Ties among unordered units break by (section order, registration order),
	// which is the unit creation order.
	Rank int
}

// Plan is the dependency-ordered set of units for one run.
// A plan is read-only once built.
type Plan struct {
	// ArtifactID identifies the artifact the plan was built for.
	ArtifactID string

	// Units holds the unit arena in creation order (section order in the
	// artifact, then agent registration order).
	Units []Unit

	// order holds unit indices sorted by rank.
	order []int
}

// Len returns the number of units in the plan.
func (p *Plan) Len() int {
	return len(p.Units)
}

// Order returns the unit indices in deterministic topological order.
// Callers must not mutate the returned slice.
func (p *Plan) Order() []int {
	return p.order
}

// Dependents returns, for every unit, the indices of units that depend on it.
// The inner slices follow unit creation order.
func (p *Plan) Dependents() [][]int {
	deps := make([][]int, len(p.Units))
	for _, u := range p.Units {
		for _, d := range u.DependsOn {
			deps[d] = append(deps[d], u.Index)
		}
	}
	return deps
}
