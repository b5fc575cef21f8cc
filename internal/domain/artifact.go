// Package domain provides shared domain types for the ARCHON review orchestration system.
package domain

import (
	"fmt"

	"github.com/mrz1836/archon/internal/errors"
)

// SectionType tags a section of an artifact so the registry can match it
// against agent applicability declarations (e.g., "architecture_diagram").
type SectionType string

// String returns the string representation of the SectionType.
func (s SectionType) String() string {
	return string(s)
}

// Section is one tagged sub-part of an artifact targeted by specific agents.
type Section struct {
	// ID uniquely identifies the section within its artifact.
	ID string `json:"id" yaml:"id"`

	// Type is the tag agents declare applicability against.
	Type SectionType `json:"type" yaml:"type"`

	// Content is the raw section content under review.
	Content string `json:"content" yaml:"content"`
}

// Artifact is the enterprise-architecture document submitted for review.
// An artifact is immutable once submitted to a run; the orchestrator and
// all agents treat it as read-only.
type Artifact struct {
	// ID uniquely identifies the artifact.
	ID string `json:"id" yaml:"id"`

	// Version is the submitter-supplied artifact version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Submitter identifies who submitted the artifact for review.
	Submitter string `json:"submitter,omitempty" yaml:"submitter,omitempty"`

	// Sections is the ordered sequence of reviewable parts. Section order
	// is significant: it is the primary tie-break for plan determinism.
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section returns the section with the given id, or false if absent.
func (a *Artifact) Section(id string) (Section, bool) {
	for _, s := range a.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// ValidateArtifact checks the structural invariants an artifact must satisfy
// before planning: non-empty id, at least one section, unique section ids,
// and a type tag on every section. Violations are reported with
// errors.ErrInvalidArtifact so callers can treat them as fatal pre-run errors.
func ValidateArtifact(a *Artifact) error {
	if a == nil {
		return errors.Wrap(errors.ErrInvalidArtifact, "artifact is nil")
	}
	if a.ID == "" {
		return fmt.Errorf("%w: artifact id is empty", errors.ErrInvalidArtifact)
	}
	if len(a.Sections) == 0 {
		return fmt.Errorf("%w: artifact %q has no sections", errors.ErrInvalidArtifact, a.ID)
	}

	seen := make(map[string]struct{}, len(a.Sections))
	for i, s := range a.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section %d has empty id", errors.ErrInvalidArtifact, i)
		}
		if s.Type == "" {
			return fmt.Errorf("%w: section %q has empty type", errors.ErrInvalidArtifact, s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate section id %q", errors.ErrInvalidArtifact, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
