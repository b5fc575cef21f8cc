// Package errors provides centralized error handling for ARCHON.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrDuplicateAgent indicates that an agent identifier was registered twice.
	ErrDuplicateAgent = errors.New("agent already registered")

	// ErrAgentNotFound indicates that no agent is registered for an identifier.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrPlanCycle indicates that agent dependency declarations form a cycle,
	// so no valid execution order exists. This aborts the run before any
	// agent executes.
	ErrPlanCycle = errors.New("dependency cycle in plan")

	// ErrEmptyPlan indicates that planning produced no executable units
	// (no registered agent is applicable to any artifact section).
	ErrEmptyPlan = errors.New("plan contains no units")

	// ErrInvalidArtifact indicates that the submitted artifact failed
	// structural validation before planning.
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrInvalidDescriptor indicates that an agent descriptor is malformed
	// (empty identifier, no section types, non-positive timeout).
	ErrInvalidDescriptor = errors.New("invalid agent descriptor")

	// ErrAgentFailed indicates that an agent returned an error from Evaluate.
	ErrAgentFailed = errors.New("agent evaluation failed")

	// ErrMaxRetriesExceeded indicates the maximum retry attempts have been reached.
	ErrMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")

	// ErrRunCanceled indicates that a run-level cancellation interrupted execution.
	ErrRunCanceled = errors.New("run canceled")

	// ErrResultAlreadyPublished indicates a second write to a unit's result slot.
	// The result store is write-once per unit.
	ErrResultAlreadyPublished = errors.New("result already published for unit")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidRun indicates an invalid run configuration value.
	ErrConfigInvalidRun = errors.New("invalid run configuration")

	// ErrConfigInvalidRetry indicates an invalid retry configuration value.
	ErrConfigInvalidRetry = errors.New("invalid retry configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidDuration indicates that a duration format is invalid.
	ErrInvalidDuration = errors.New("invalid duration format")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrArtifactNotFound indicates the requested artifact file was not found.
	ErrArtifactNotFound = errors.New("artifact not found")
)
