package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/archon/internal/agent"
	"github.com/mrz1836/archon/internal/agents"
	"github.com/mrz1836/archon/internal/config"
	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/orchestrator"
)

// reviewFlags holds flags specific to the review command.
type reviewFlags struct {
	artifactPath   string
	maxConcurrency int
	globalTimeout  time.Duration
}

// AddReviewCommand adds the review command to the root command.
func AddReviewCommand(root *cobra.Command) {
	root.AddCommand(newReviewCmd())
}

func newReviewCmd() *cobra.Command {
	flags := &reviewFlags{}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run an architecture review against an artifact",
		Long: `Run the registered review agents against an artifact file and print the
consolidated report.

The artifact file is YAML with an id and a list of typed sections:

  id: payments-platform
  version: "3"
  submitter: jane
  sections:
    - id: s1
      type: project_specifics
      content: "Tier 1, external customers, cloud hosted on Azure"
    - id: s2
      type: architecture_diagram
      content: "internet-facing api gateway, single instance database"

Examples:
  archon review --artifact artifact.yaml
  archon review --artifact artifact.yaml --output json
  archon review --artifact artifact.yaml --max-concurrency 8 --timeout 5m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReview(cmd.Context(), cmd, flags, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&flags.artifactPath, "artifact", "a", "", "path to the artifact YAML file (required)")
	cmd.Flags().IntVar(&flags.maxConcurrency, "max-concurrency", 0, "maximum in-flight agents (0 uses config)")
	cmd.Flags().DurationVar(&flags.globalTimeout, "timeout", 0, "wall-clock budget for the whole run (0 uses config)")
	_ = cmd.MarkFlagRequired("artifact")

	return cmd
}

func runReview(ctx context.Context, cmd *cobra.Command, flags *reviewFlags, w io.Writer) error {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load config, using defaults")
		cfg = config.DefaultConfig()
	}

	artifact, err := LoadArtifact(flags.artifactPath)
	if err != nil {
		return err
	}

	registry := agent.NewRegistry()
	if err := agents.RegisterBuiltin(registry); err != nil {
		return err
	}

	service := orchestrator.NewService(registry, cfg)
	rep, err := service.Review(ctx, artifact, &orchestrator.RunOptions{
		MaxConcurrency: flags.maxConcurrency,
		GlobalTimeout:  flags.globalTimeout,
	})
	if err != nil {
		return err
	}

	outputFormat := cmd.Flag("output").Value.String()
	return writeReport(w, outputFormat, rep)
}

// writeReport renders the report in the requested output format.
func writeReport(w io.Writer, format string, rep *domain.Report) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return writeTextReport(w, rep)
}

// writeTextReport renders the human-readable report.
func writeTextReport(w io.Writer, rep *domain.Report) error {
	fmt.Fprintf(w, "Artifact:  %s\n", rep.ArtifactID)
	fmt.Fprintf(w, "Status:    %s\n", rep.Status)
	fmt.Fprintf(w, "Findings:  %d\n", len(rep.Findings))
	fmt.Fprintf(w, "Conflicts: %d\n\n", len(rep.Conflicts))

	for _, f := range rep.Findings {
		fmt.Fprintf(w, "  [%s] %s/%s (%s): %s\n", f.Severity, f.SectionID, f.Category, f.AgentID, f.Message)
		if f.Remediation != "" {
			fmt.Fprintf(w, "      remediation: %s\n", f.Remediation)
		}
	}

	if len(rep.Conflicts) > 0 {
		fmt.Fprintf(w, "\nUnresolved conflicts:\n")
		for _, c := range rep.Conflicts {
			fmt.Fprintf(w, "  %s/%s between agents %v\n", c.SectionID, c.Category, c.AgentIDs)
		}
	}

	fmt.Fprintf(w, "\nAgent results:\n")
	for _, r := range rep.Results {
		line := fmt.Sprintf("  %s on %s: %s", r.AgentID, r.SectionID, r.Status)
		if r.Reason != "" {
			line += " (" + r.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
