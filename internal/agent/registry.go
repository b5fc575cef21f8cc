package agent

import (
	"fmt"
	"sync"

	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/errors"
)

// Registry holds the set of available agents with their descriptors.
// Registration happens once at process start; the registry is read-only
// for the duration of a run. Lookup order is registration order, which
// keeps plans reproducible.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	agents map[string]*registration
}

// registration pairs a descriptor with its implementation.
type registration struct {
	desc Descriptor
	impl Agent
}

// NewRegistry creates a new empty agent registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]*registration),
	}
}

// Register adds an agent and its descriptor to the registry.
// Returns ErrDuplicateAgent if the identifier is already registered and
// ErrInvalidDescriptor if the descriptor fails validation.
func (r *Registry) Register(desc Descriptor, impl Agent) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	if impl == nil {
		return fmt.Errorf("%w: agent %q has nil implementation", errors.ErrInvalidDescriptor, desc.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[desc.ID]; exists {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateAgent, desc.ID)
	}
	r.agents[desc.ID] = &registration{desc: desc, impl: impl}
	r.order = append(r.order, desc.ID)
	return nil
}

// Get retrieves the implementation for an agent identifier.
// Returns ErrAgentNotFound if no agent is registered under the id.
func (r *Registry) Get(id string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.agents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrAgentNotFound, id)
	}
	return reg.impl, nil
}

// Descriptor retrieves the descriptor for an agent identifier.
// Returns ErrAgentNotFound if no agent is registered under the id.
func (r *Registry) Descriptor(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.agents[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", errors.ErrAgentNotFound, id)
	}
	return reg.desc, nil
}

// Has checks if an agent is registered under the id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[id]
	return ok
}

// DescriptorsFor returns the descriptors of all agents declared applicable
// to the section type, in registration order.
func (r *Registry) DescriptorsFor(st domain.SectionType) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Descriptor
	for _, id := range r.order {
		reg := r.agents[id]
		if reg.desc.Applicable(st) {
			out = append(out, reg.desc)
		}
	}
	return out
}

// Descriptors returns all registered descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id].desc)
	}
	return out
}

// RegistrationRank returns the registration position of the agent id, used
// as a deterministic tie-break. Unknown ids rank last.
func (r *Registry) RegistrationRank(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, registered := range r.order {
		if registered == id {
			return i
		}
	}
	return len(r.order)
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
