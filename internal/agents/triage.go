package agents

import (
	"context"
	"fmt"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/ctxutil"
	"github.com/mrz1836/archon/internal/domain"
)

// Triage correlates demographics and topology findings into a prioritized
// review posture. It runs after both and receives their findings as prior
// input.
type Triage struct{}

func triageDescriptor() agent.Descriptor {
	return agent.Descriptor{
		ID:          AgentTriage,
		Description: "Prioritizes demographics and topology findings and prepares context for remediation.",
		SectionTypes: []domain.SectionType{
			SectionProjectSpecifics,
		},
		DependsOn:  []string{AgentDemographics, AgentTopology},
		Timeout:    defaultTimeout,
		MaxRetries: 1,
	}
}

// Evaluate implements agent.Agent.
func (t *Triage) Evaluate(ctx context.Context, req *agent.Request) ([]domain.Finding, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	var criticals, warnings int
	externalUsers := false
	exposedTopology := false
	for _, f := range req.Prior {
		switch f.Severity {
		case domain.SeverityCritical:
			criticals++
		case domain.SeverityWarning:
			warnings++
		}
		if f.Category == "demographics" && f.Severity != domain.SeverityInfo {
			externalUsers = true
		}
		if f.Category == "topology" && f.Severity == domain.SeverityCritical {
			exposedTopology = true
		}
	}

	var findings []domain.Finding

	// External users combined with an exposed topology is the posture that
	// warrants an escalated review.
	if externalUsers && exposedTopology {
		findings = append(findings, domain.Finding{
			Severity:    domain.SeverityCritical,
			Category:    "triage",
			Message:     "external user base combined with exposed topology requires escalated review",
			Remediation: "treat perimeter findings as release blockers",
		})
	}

	switch {
	case criticals > 0:
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityCritical,
			Category: "triage",
			Message:  fmt.Sprintf("%d critical and %d warning findings require prioritized review", criticals, warnings),
		})
	case warnings > 0:
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityWarning,
			Category: "triage",
			Message:  fmt.Sprintf("%d warning findings require review", warnings),
		})
	default:
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityInfo,
			Category: "triage",
			Message:  "no findings require prioritized review",
		})
	}

	return findings, nil
}

// Compile-time check that Triage implements agent.Agent.
var _ agent.Agent = (*Triage)(nil)
