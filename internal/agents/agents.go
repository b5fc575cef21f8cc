// Package agents provides the built-in review agents.
//
// The built-in set mirrors a typical enterprise-architecture review chain:
// demographics and topology read artifact sections directly, triage
// prioritizes their combined findings, and remediation proposes fixes for
// what triage escalates. Agent internals are deliberately simple rule-based
// heuristics; the coordination contract, not the domain logic, is the point.
package agents

import (
	"time"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/domain"
)

// Section types the built-in agents declare applicability against.
const (
	// SectionProjectSpecifics holds project metadata rows (tier, users, hosting).
	SectionProjectSpecifics domain.SectionType = "project_specifics"

	// SectionQuestionnaire holds submitter questionnaire answers.
	SectionQuestionnaire domain.SectionType = "questionnaire"

	// SectionArchitectureDiagram holds a textual description of the
	// architecture diagram.
	SectionArchitectureDiagram domain.SectionType = "architecture_diagram"
)

// Built-in agent identifiers.
const (
	AgentDemographics = "demographics"
	AgentTopology     = "topology"
	AgentTriage       = "triage"
	AgentRemediation  = "remediation"
)

// defaultTimeout bounds each built-in agent attempt. The heuristics are
// cheap, so a short budget is plenty.
const defaultTimeout = 30 * time.Second

// RegisterBuiltin registers the built-in agents in their canonical order.
// Registration order matters: it is the deterministic tie-break for plans.
func RegisterBuiltin(reg *agent.Registry) error {
	registrations := []struct {
		desc agent.Descriptor
		impl agent.Agent
	}{
		{desc: demographicsDescriptor(), impl: &Demographics{}},
		{desc: topologyDescriptor(), impl: &Topology{}},
		{desc: triageDescriptor(), impl: &Triage{}},
		{desc: remediationDescriptor(), impl: &Remediation{}},
	}

	for _, r := range registrations {
		if err := reg.Register(r.desc, r.impl); err != nil {
			return err
		}
	}
	return nil
}
