package cli_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/archon/internal/cli"
	"github.com/mrz1836/archon/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, cli.IsValidOutputFormat("text"))
	assert.True(t, cli.IsValidOutputFormat("json"))
	assert.False(t, cli.IsValidOutputFormat("yaml"))
	assert.False(t, cli.IsValidOutputFormat(""))
}

func TestValidOutputFormats(t *testing.T) {
	assert.Equal(t, []string{"text", "json"}, cli.ValidOutputFormats())
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: cli.ExitSuccess},
		{name: "generic error", err: stderrors.New("boom"), want: cli.ExitError},
		{name: "invalid output format", err: fmt.Errorf("%w: yaml", errors.ErrInvalidOutputFormat), want: cli.ExitInvalidInput},
		{name: "unknown flag", err: stderrors.New("unknown flag: --bogus"), want: cli.ExitInvalidInput},
		{name: "mutually exclusive flags", err: stderrors.New("if any flags in the group [verbose quiet] are set none of the others can be"), want: cli.ExitInvalidInput},
		{name: "missing required flag", err: stderrors.New(`required flag(s) "artifact" not set`), want: cli.ExitInvalidInput},
		{name: "agent failure", err: errors.ErrAgentFailed, want: cli.ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCodeForError(tt.err))
		})
	}
}
