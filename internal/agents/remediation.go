package agents

import (
	"context"
	"strings"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/ctxutil"
	"github.com/mrz1836/archon/internal/domain"
)

// Remediation proposes concrete remediation guidance for the findings
// triage escalated. It runs after triage and receives triage's findings
// as prior input.
type Remediation struct{}

func remediationDescriptor() agent.Descriptor {
	return agent.Descriptor{
		ID:          AgentRemediation,
		Description: "Selects remediation guidance for escalated findings based on tier, hosting, and access modes.",
		SectionTypes: []domain.SectionType{
			SectionProjectSpecifics,
		},
		DependsOn:  []string{AgentTriage},
		Timeout:    defaultTimeout,
		MaxRetries: 1,
	}
}

// Evaluate implements agent.Agent.
func (r *Remediation) Evaluate(ctx context.Context, req *agent.Request) ([]domain.Finding, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	var findings []domain.Finding
	for _, f := range req.Prior {
		if f.Severity != domain.SeverityCritical {
			continue
		}
		findings = append(findings, domain.Finding{
			Severity:    domain.SeverityCritical,
			Category:    "remediation",
			Message:     "remediation required: " + f.Message,
			Remediation: guidanceFor(f.Message),
		})
	}

	if len(findings) == 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityInfo,
			Category: "remediation",
			Message:  "no critical findings require remediation",
		})
	}
	return findings, nil
}

// guidanceFor maps an escalated finding message to remediation guidance.
func guidanceFor(message string) string {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "encrypt"):
		return "enable TLS on every component link and rotate certificates through the platform PKI"
	case strings.Contains(m, "exposed"), strings.Contains(m, "perimeter"):
		return "place internet-facing components behind the managed API gateway and restrict ingress to it"
	case strings.Contains(m, "failure"), strings.Contains(m, "redundancy"):
		return "deploy the affected component across at least two availability zones"
	default:
		return "schedule an architecture board review for the escalated finding"
	}
}

// Compile-time check that Remediation implements agent.Agent.
var _ agent.Agent = (*Remediation)(nil)
