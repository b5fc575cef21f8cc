package domain

// RunStatus is the terminal status of one plan unit execution.
type RunStatus string

// RunStatus constants define the terminal unit statuses.
const (
	// StatusSucceeded means the agent returned findings within its contract.
	StatusSucceeded RunStatus = "succeeded"

	// StatusFailed means the agent returned an error and retries are exhausted.
	StatusFailed RunStatus = "failed"

	// StatusTimedOut means the agent exceeded its declared timeout on every attempt.
	StatusTimedOut RunStatus = "timed_out"

	// StatusSkipped means the unit never executed because an upstream
	// dependency did not succeed, or the run was canceled before it started.
	StatusSkipped RunStatus = "skipped"

	// StatusCanceled means a run-level cancellation interrupted the unit
	// while it was in flight.
	StatusCanceled RunStatus = "canceled"
)

// String returns the string representation of the RunStatus.
func (s RunStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status is a recognized terminal state.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusTimedOut, StatusSkipped, StatusCanceled:
		return true
	}
	return false
}

// Skip reasons recorded on skipped results.
const (
	// SkipReasonDependencyFailed marks units skipped because an upstream
	// dependency failed, timed out, or was itself skipped.
	SkipReasonDependencyFailed = "dependency failed"

	// SkipReasonRunCanceled marks units skipped because the run was canceled
	// before they became eligible.
	SkipReasonRunCanceled = "run cancelled"
)

// RunResult is the terminal outcome of one plan unit execution.
// Exactly one RunResult exists per unit; the coordinator publishes it once
// and never mutates it afterwards.
type RunResult struct {
	// Unit is the plan unit index this result belongs to.
	Unit int `json:"unit" yaml:"unit"`

	// AgentID identifies the agent the unit dispatched.
	AgentID string `json:"agent_id" yaml:"agent_id"`

	// SectionID identifies the artifact section the unit reviewed.
	SectionID string `json:"section_id" yaml:"section_id"`

	// Status is the terminal status.
	Status RunStatus `json:"status" yaml:"status"`

	// Attempts is the number of evaluation attempts made (0 for skipped units).
	Attempts int `json:"attempts" yaml:"attempts"`

	// Reason carries the failure message or skip reason, empty on success.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Succeeded reports whether the unit produced usable findings.
func (r RunResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}
