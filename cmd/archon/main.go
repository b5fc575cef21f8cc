// Package main provides the entry point for the archon CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/archon/internal/cli"
	"github.com/mrz1836/archon/internal/signal"
)

// Build information set via ldflags.
//
//nolint:gochecknoglobals // Set at build time
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	// Ctrl+C cancels the run context; the coordinator drains in-flight
	// agents and the review command still prints the degraded report.
	handler := signal.NewHandler(context.Background())
	defer handler.Stop()

	err := cli.Execute(handler.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()
	os.Exit(cli.ExitCodeForError(err))
}
