package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/agents"
	"github.com/mrz1836/archon/internal/domain"
)

// AddAgentsCommand adds the agents command to the root command.
func AddAgentsCommand(root *cobra.Command) {
	root.AddCommand(newAgentsCmd())
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the registered review agents",
		Long: `List the registered review agents with their applicable section types
and dependency declarations, in registration order.

Examples:
  archon agents
  archon agents --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgents(cmd, os.Stdout)
		},
	}
}

func runAgents(cmd *cobra.Command, w io.Writer) error {
	registry := agent.NewRegistry()
	if err := agents.RegisterBuiltin(registry); err != nil {
		return err
	}

	descriptors := registry.Descriptors()

	if cmd.Flag("output").Value.String() == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(descriptors)
	}

	for _, d := range descriptors {
		fmt.Fprintf(w, "%s\n", d.ID)
		fmt.Fprintf(w, "  sections: %s\n", joinSectionTypes(d.SectionTypes))
		if len(d.DependsOn) > 0 {
			fmt.Fprintf(w, "  depends on: %s\n", strings.Join(d.DependsOn, ", "))
		}
		if d.Description != "" {
			fmt.Fprintf(w, "  %s\n", d.Description)
		}
	}
	return nil
}

// joinSectionTypes renders section types as a comma-separated list.
func joinSectionTypes(types []domain.SectionType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
