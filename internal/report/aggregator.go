// Package report merges run results into one consolidated review report.
//
// The aggregator collects findings from succeeded units only, deduplicates
// overlapping findings, resolves contradictory remediation guidance by
// severity, and surfaces equal-severity disagreements as first-class
// conflict entries instead of silently dropping them.
package report

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/plan"
	"github.com/mrz1836/archon/internal/run"
)

// Similarity judges whether two finding messages describe the same issue.
// It is the pluggable predicate behind deduplication; fuzzy matchers can be
// swapped in without touching the aggregation logic.
type Similarity func(a, b string) bool

// ExactMatch is the default, safe baseline similarity predicate.
func ExactMatch(a, b string) bool {
	return a == b
}

// Aggregator merges terminal run results into a review report.
type Aggregator struct {
	similar Similarity
}

// NewAggregator creates an aggregator with the given similarity predicate.
// A nil predicate selects ExactMatch.
func NewAggregator(similar Similarity) *Aggregator {
	if similar == nil {
		similar = ExactMatch
	}
	return &Aggregator{similar: similar}
}

// Aggregate builds the review report from a plan and its execution outcome.
//
// Findings are visited in plan rank order, never arrival order, so the
// report is deterministic for a fixed artifact, registry, and agent
// behavior. Only findings from succeeded units are included; failures,
// timeouts, and skips appear solely in the per-unit result summary and the
// run-level status.
func (a *Aggregator) Aggregate(logger zerolog.Logger, p *plan.Plan, outcome *run.Outcome) *domain.Report {
	ordered := collectOrdered(p, outcome)

	kept := a.deduplicate(ordered)
	kept, conflicts := a.resolveConflicts(logger, kept)

	rep := &domain.Report{
		ArtifactID: p.ArtifactID,
		Status:     runStatus(outcome.Results),
		Findings:   kept,
		Conflicts:  conflicts,
		Results:    outcome.Results,
	}

	logger.Info().
		Str("artifact_id", p.ArtifactID).
		Str("status", rep.Status.String()).
		Int("findings", len(rep.Findings)).
		Int("conflicts", len(rep.Conflicts)).
		Msg("report aggregated")

	return rep
}

// collectOrdered gathers findings from succeeded units in plan rank order.
func collectOrdered(p *plan.Plan, outcome *run.Outcome) []domain.Finding {
	var ordered []domain.Finding
	for _, idx := range p.Order() {
		if !outcome.Results[idx].Succeeded() {
			continue
		}
		ordered = append(ordered, outcome.Findings[idx]...)
	}
	return ordered
}

// dedupKey groups findings that can shadow each other.
type dedupKey struct {
	sectionID string
	category  string
}

// deduplicate drops findings whose (section, category) and message duplicate
// an earlier finding. The survivor is the one with highest severity; on a
// severity tie the earlier finding wins, which by construction is the first
// by (agent registration order, arrival order).
func (a *Aggregator) deduplicate(ordered []domain.Finding) []domain.Finding {
	var kept []domain.Finding
	byKey := make(map[dedupKey][]int)

	for _, f := range ordered {
		key := dedupKey{sectionID: f.SectionID, category: f.Category}

		dupAt := -1
		for _, i := range byKey[key] {
			if a.similar(kept[i].Message, f.Message) {
				dupAt = i
				break
			}
		}
		if dupAt < 0 {
			byKey[key] = append(byKey[key], len(kept))
			kept = append(kept, f)
			continue
		}
		// Replace in place so the survivor keeps the earlier position.
		if f.Severity.Weight() > kept[dupAt].Severity.Weight() {
			kept[dupAt] = f
		}
	}
	return kept
}

// resolveConflicts detects contradictory remediation guidance within each
// (section, category) group. A strictly higher severity wins and the
// contradicted finding is dropped; equal severities keep both findings and
// record an unresolved conflict entry for human review.
func (a *Aggregator) resolveConflicts(logger zerolog.Logger, findings []domain.Finding) ([]domain.Finding, []domain.Conflict) {
	dropped := make([]bool, len(findings))
	var conflicts []domain.Conflict

	for i := 0; i < len(findings); i++ {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(findings); j++ {
			if dropped[j] || dropped[i] {
				continue
			}
			x, y := findings[i], findings[j]
			if !contradicts(x, y) {
				continue
			}

			switch {
			case x.Severity.Weight() > y.Severity.Weight():
				dropped[j] = true
				logger.Debug().
					Str("section_id", x.SectionID).
					Str("category", x.Category).
					Str("winner", x.AgentID).
					Str("loser", y.AgentID).
					Msg("remediation conflict resolved by severity")

			case y.Severity.Weight() > x.Severity.Weight():
				dropped[i] = true
				logger.Debug().
					Str("section_id", x.SectionID).
					Str("category", x.Category).
					Str("winner", y.AgentID).
					Str("loser", x.AgentID).
					Msg("remediation conflict resolved by severity")

			default:
				conflicts = append(conflicts, domain.Conflict{
					SectionID: x.SectionID,
					Category:  x.Category,
					AgentIDs:  []string{x.AgentID, y.AgentID},
					Findings:  []domain.Finding{x, y},
				})
			}
		}
	}

	var kept []domain.Finding
	for i, f := range findings {
		if !dropped[i] {
			kept = append(kept, f)
		}
	}
	return kept, conflicts
}

// contradicts reports whether two findings disagree on remediation for the
// same section and category. Findings without remediation guidance never
// conflict.
func contradicts(a, b domain.Finding) bool {
	return a.SectionID == b.SectionID &&
		a.Category == b.Category &&
		a.Remediation != "" &&
		b.Remediation != "" &&
		a.Remediation != b.Remediation
}

// runStatus derives the run-level status from every unit's terminal result:
// complete when all units succeeded, failed when none did, partial otherwise.
func runStatus(results []domain.RunResult) domain.ReportStatus {
	succeeded := 0
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
		}
	}
	switch {
	case succeeded == len(results) && len(results) > 0:
		return domain.ReportComplete
	case succeeded == 0:
		return domain.ReportFailed
	default:
		return domain.ReportPartial
	}
}
