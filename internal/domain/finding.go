package domain

// Severity classifies how serious a finding is.
// Severities are ordered: info < warning < critical.
type Severity string

// Severity constants define the supported finding severities.
const (
	// SeverityInfo marks an observation with no required action.
	SeverityInfo Severity = "info"

	// SeverityWarning marks an issue that should be addressed.
	SeverityWarning Severity = "warning"

	// SeverityCritical marks an issue that must be addressed before approval.
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the Severity.
// This implements fmt.Stringer for convenient logging and debugging.
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is a recognized value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Weight returns the ordering weight of the severity for comparisons.
// Unknown severities weigh zero, below info.
func (s Severity) Weight() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}

// Finding is one agent's reported issue for one section.
// A finding is immutable once created.
type Finding struct {
	// AgentID identifies the agent that produced the finding.
	AgentID string `json:"agent_id" yaml:"agent_id"`

	// SectionID identifies the artifact section the finding applies to.
	SectionID string `json:"section_id" yaml:"section_id"`

	// Severity classifies the finding (info, warning, critical).
	Severity Severity `json:"severity" yaml:"severity"`

	// Category groups related findings (e.g., "security", "cost").
	Category string `json:"category" yaml:"category"`

	// Message describes the issue.
	Message string `json:"message" yaml:"message"`

	// Remediation is optional suggested remediation guidance.
	Remediation string `json:"remediation,omitempty" yaml:"remediation,omitempty"`
}
