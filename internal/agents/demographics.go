package agents

import (
	"context"
	"strings"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/ctxutil"
	"github.com/mrz1836/archon/internal/domain"
)

// Demographics infers user base, access mode, deployment model, and tier
// signals from project-specifics and questionnaire sections.
type Demographics struct{}

func demographicsDescriptor() agent.Descriptor {
	return agent.Descriptor{
		ID:          AgentDemographics,
		Description: "Infers tier, deployment/hosting, primary user types, and access modes from project metadata.",
		SectionTypes: []domain.SectionType{
			SectionProjectSpecifics,
			SectionQuestionnaire,
		},
		Timeout:    defaultTimeout,
		MaxRetries: 1,
	}
}

// Evaluate implements agent.Agent.
func (d *Demographics) Evaluate(ctx context.Context, req *agent.Request) ([]domain.Finding, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	content := strings.ToLower(req.Section.Content)
	var findings []domain.Finding

	if containsAny(content, "external", "internet", "customer") {
		severity := domain.SeverityInfo
		message := "application serves an external user base"
		if !containsAny(content, "vpn", "vdi", "gateway") {
			severity = domain.SeverityWarning
			message = "external user base declared without a mediated access channel"
		}
		findings = append(findings, domain.Finding{
			Severity: severity,
			Category: "demographics",
			Message:  message,
		})
	}

	if containsAny(content, "cloud", "aws", "azure", "gcp") {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityInfo,
			Category: "demographics",
			Message:  "cloud deployment model declared",
		})
	}

	if !containsAny(content, "tier") {
		findings = append(findings, domain.Finding{
			Severity:    domain.SeverityWarning,
			Category:    "demographics",
			Message:     "application tier is not declared",
			Remediation: "declare the application tier so review depth can be calibrated",
		})
	}

	return findings, nil
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Compile-time check that Demographics implements agent.Agent.
var _ agent.Agent = (*Demographics)(nil)
