package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/errors"
)

// Planner derives execution plans from an artifact and a registry snapshot.
type Planner struct {
	registry *agent.Registry
}

// NewPlanner creates a planner over the given registry.
func NewPlanner(registry *agent.Registry) *Planner {
	return &Planner{registry: registry}
}

// Build constructs the plan for an artifact.
//
// Units are created in (section order, agent registration order), so the
// arena index doubles as the deterministic tie-break for ranking. A unit
// (A, S) depends on every unit of agent B when A declares a dependency on B;
// a declared dependency on an agent with no applicable section contributes
// no edge.
//
// Returns ErrEmptyPlan when no registered agent applies to any section, and
// ErrPlanCycle naming the offending agents when the dependency declarations
// are cyclic. Both are fatal for the run: no partial plan executes.
func (p *Planner) Build(logger zerolog.Logger, artifact *domain.Artifact) (*Plan, error) {
	if err := domain.ValidateArtifact(artifact); err != nil {
		return nil, err
	}

	units, unitsByAgent := p.collectUnits(artifact)
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: artifact %q", errors.ErrEmptyPlan, artifact.ID)
	}

	p.linkDependencies(units, unitsByAgent)

	order, err := rankUnits(units)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("artifact_id", artifact.ID).
		Int("units", len(units)).
		Msg("plan built")

	return &Plan{
		ArtifactID: artifact.ID,
		Units:      units,
		order:      order,
	}, nil
}

// collectUnits creates one unit per applicable (agent, section) pair and
// returns the arena plus an agent-id index into it.
func (p *Planner) collectUnits(artifact *domain.Artifact) ([]Unit, map[string][]int) {
	var units []Unit
	unitsByAgent := make(map[string][]int)

	for _, section := range artifact.Sections {
		for _, desc := range p.registry.DescriptorsFor(section.Type) {
			idx := len(units)
			units = append(units, Unit{
				Index:      idx,
				AgentID:    desc.ID,
				Section:    section,
				Timeout:    desc.Timeout,
				MaxRetries: desc.MaxRetries,
			})
			unitsByAgent[desc.ID] = append(unitsByAgent[desc.ID], idx)
		}
	}
	return units, unitsByAgent
}

// linkDependencies adds edges from each unit to every unit of its agent's
// declared dependencies.
func (p *Planner) linkDependencies(units []Unit, unitsByAgent map[string][]int) {
	for i := range units {
		desc, err := p.registry.Descriptor(units[i].AgentID)
		if err != nil {
			// Unit exists only for registered agents.
			continue
		}
		seen := make(map[int]struct{})
		for _, depAgent := range desc.DependsOn {
			for _, depUnit := range unitsByAgent[depAgent] {
				if _, dup := seen[depUnit]; dup {
					continue
				}
				seen[depUnit] = struct{}{}
				units[i].DependsOn = append(units[i].DependsOn, depUnit)
			}
		}
		sort.Ints(units[i].DependsOn)
	}
}

// rankUnits runs Kahn's algorithm with a creation-order tie-break, writing
// each unit's rank in place and returning indices in rank order.
// An incomplete ordering means the dependency graph has a cycle.
func rankUnits(units []Unit) ([]int, error) {
	n := len(units)
	pending := make([]int, n)
	dependents := make([][]int, n)
	for i := range units {
		pending[i] = len(units[i].DependsOn)
		for _, d := range units[i].DependsOn {
			dependents[d] = append(dependents[d], i)
		}
	}

	// ready holds eligible unit indices sorted ascending; taking the smallest
	// index each round yields the (section order, registration order) tie-break.
	var ready []int
	for i := 0; i < n; i++ {
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)
	for len(ready) > 0 {
		idx := ready[0]
		ready = ready[1:]

		units[idx].Rank = len(order)
		order = append(order, idx)

		for _, dep := range dependents[idx] {
			pending[dep]--
			if pending[dep] == 0 {
				pos := sort.SearchInts(ready, dep)
				ready = append(ready, 0)
				copy(ready[pos+1:], ready[pos:])
				ready[pos] = dep
			}
		}
	}

	if len(order) < n {
		return nil, fmt.Errorf("%w: involving agents [%s]",
			errors.ErrPlanCycle, strings.Join(cyclicAgents(units, pending), ", "))
	}
	return order, nil
}

// cyclicAgents returns the sorted, deduplicated agent ids of units left
// unordered after Kahn's algorithm, i.e. the participants of at least one cycle.
func cyclicAgents(units []Unit, pending []int) []string {
	seen := make(map[string]struct{})
	var ids []string
	for i := range units {
		if pending[i] > 0 {
			if _, dup := seen[units[i].AgentID]; dup {
				continue
			}
			seen[units[i].AgentID] = struct{}{}
			ids = append(ids, units[i].AgentID)
		}
	}
	sort.Strings(ids)
	return ids
}
