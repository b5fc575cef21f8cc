// Package agent defines the review agent contract and the agent registry.
//
// Agents are pluggable units of specialized review logic registered once at
// process start. The orchestration core defines only the calling contract
// between coordinator and agent; agent internals are out of scope.
//
// IMPORTANT: This package may import internal/domain and internal/errors.
// It MUST NOT import internal/plan, internal/run, or internal/cli.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/errors"
)

// Request carries the inputs for one agent evaluation: the section under
// review and the findings produced by the agent's declared dependencies.
// Both are read-only for the agent.
type Request struct {
	// Section is the artifact section to evaluate.
	Section domain.Section

	// Prior holds findings from the agent's declared dependencies, in plan
	// rank order. Empty for agents with no dependencies.
	Prior []domain.Finding
}

// Agent is the capability contract every review agent implements.
//
// Evaluate must observe ctx promptly: the coordinator enforces the declared
// timeout through context cancellation, and a run-level cancellation
// propagates the same way.
type Agent interface {
	// Evaluate reviews one section and returns findings, or an error if the
	// evaluation cannot complete. Returning an empty slice is a valid clean
	// result, not an error.
	Evaluate(ctx context.Context, req *Request) ([]domain.Finding, error)
}

// Descriptor declares an agent's identity and coordination contract.
// Descriptors are registered once at process start and read-only during a run.
type Descriptor struct {
	// ID uniquely identifies the agent within the registry.
	ID string `json:"id" yaml:"id"`

	// Description is a human-readable summary of what the agent reviews.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// SectionTypes are the section type tags the agent can evaluate.
	SectionTypes []domain.SectionType `json:"section_types" yaml:"section_types"`

	// DependsOn names agents that must reach a terminal result before this
	// agent runs. Their findings are passed in Request.Prior.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	// Timeout bounds each evaluation attempt. Zero selects the configured
	// default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// MaxRetries is how many times a failed or timed-out attempt is retried
	// before the unit is terminal. Zero means no retries.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// Applicable reports whether the descriptor declares the given section type.
func (d *Descriptor) Applicable(st domain.SectionType) bool {
	for _, t := range d.SectionTypes {
		if t == st {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of a descriptor.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: id is empty", errors.ErrInvalidDescriptor)
	}
	if len(d.SectionTypes) == 0 {
		return fmt.Errorf("%w: agent %q declares no section types", errors.ErrInvalidDescriptor, d.ID)
	}
	if d.Timeout < 0 {
		return fmt.Errorf("%w: agent %q declares negative timeout", errors.ErrInvalidDescriptor, d.ID)
	}
	if d.MaxRetries < 0 {
		return fmt.Errorf("%w: agent %q declares negative max retries", errors.ErrInvalidDescriptor, d.ID)
	}
	for _, dep := range d.DependsOn {
		if dep == d.ID {
			return fmt.Errorf("%w: agent %q depends on itself", errors.ErrInvalidDescriptor, d.ID)
		}
	}
	return nil
}

// EvaluateFunc adapts a plain function to the Agent interface.
type EvaluateFunc func(ctx context.Context, req *Request) ([]domain.Finding, error)

// Evaluate implements Agent.
func (f EvaluateFunc) Evaluate(ctx context.Context, req *Request) ([]domain.Finding, error) {
	return f(ctx, req)
}

// Compile-time check that EvaluateFunc implements Agent.
var _ Agent = (EvaluateFunc)(nil)
