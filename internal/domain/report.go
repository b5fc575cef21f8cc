package domain

// ReportStatus is the run-level status of a review report.
type ReportStatus string

// ReportStatus constants define the run-level statuses.
const (
	// ReportComplete means every plan unit succeeded.
	ReportComplete ReportStatus = "complete"

	// ReportPartial means at least one unit succeeded and at least one did not.
	ReportPartial ReportStatus = "partial"

	// ReportFailed means no unit succeeded.
	ReportFailed ReportStatus = "failed"
)

// String returns the string representation of the ReportStatus.
func (s ReportStatus) String() string {
	return string(s)
}

// Conflict records two findings on the same section and category whose
// remediation guidance contradicts at equal severity. Conflicts are
// surfaced to the caller rather than silently resolved, so a human
// reviewer can arbitrate.
type Conflict struct {
	// SectionID is the section both findings apply to.
	SectionID string `json:"section_id" yaml:"section_id"`

	// Category is the shared finding category.
	Category string `json:"category" yaml:"category"`

	// AgentIDs are the source agents of the conflicting findings.
	AgentIDs []string `json:"agent_ids" yaml:"agent_ids"`

	// Findings holds both conflicting findings verbatim.
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Report is the consolidated, deduplicated, conflict-annotated output of a run.
// It is owned by the run that produced it and immutable once emitted.
//
// A report carries no wall-clock or randomly generated data: given a fixed
// artifact, registry, and agent behavior, two runs emit identical reports
// regardless of scheduling interleaving.
type Report struct {
	// ArtifactID identifies the reviewed artifact.
	ArtifactID string `json:"artifact_id" yaml:"artifact_id"`

	// Status is the run-level status (complete, partial, failed).
	Status ReportStatus `json:"status" yaml:"status"`

	// Findings are the deduplicated findings from all succeeded units,
	// ordered by plan rank.
	Findings []Finding `json:"findings" yaml:"findings"`

	// Conflicts are the unresolved equal-severity remediation conflicts.
	Conflicts []Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`

	// Results summarizes every unit's terminal outcome in plan order,
	// including failures and skips that contributed no findings.
	Results []RunResult `json:"results" yaml:"results"`
}
