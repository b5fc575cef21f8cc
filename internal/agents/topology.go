package agents

import (
	"context"
	"strings"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/ctxutil"
	"github.com/mrz1836/archon/internal/domain"
)

// Topology reviews the architecture diagram description for exposure,
// transport, and redundancy risks.
type Topology struct{}

func topologyDescriptor() agent.Descriptor {
	return agent.Descriptor{
		ID:          AgentTopology,
		Description: "Infers topology, hosting/exposure, notable components, and diagram-based risks.",
		SectionTypes: []domain.SectionType{
			SectionArchitectureDiagram,
		},
		Timeout:    defaultTimeout,
		MaxRetries: 1,
	}
}

// Evaluate implements agent.Agent.
func (t *Topology) Evaluate(ctx context.Context, req *agent.Request) ([]domain.Finding, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	content := strings.ToLower(req.Section.Content)
	var findings []domain.Finding

	if containsAny(content, "internet-facing", "public subnet", "publicly exposed") {
		findings = append(findings, domain.Finding{
			Severity:    domain.SeverityCritical,
			Category:    "topology",
			Message:     "internet-facing component without declared perimeter controls",
			Remediation: "front the component with a WAF or API gateway",
		})
	}

	if strings.Contains(content, "http://") {
		findings = append(findings, domain.Finding{
			Severity:    domain.SeverityCritical,
			Category:    "topology",
			Message:     "unencrypted transport between components",
			Remediation: "terminate all component links over TLS",
		})
	}

	if containsAny(content, "single instance", "single point", "no failover") {
		findings = append(findings, domain.Finding{
			Severity:    domain.SeverityWarning,
			Category:    "topology",
			Message:     "single point of failure in the component topology",
			Remediation: "add redundancy for the affected component",
		})
	}

	if len(findings) == 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityInfo,
			Category: "topology",
			Message:  "no structural risks detected from the diagram description",
		})
	}

	return findings, nil
}

// Compile-time check that Topology implements agent.Agent.
var _ agent.Agent = (*Topology)(nil)
