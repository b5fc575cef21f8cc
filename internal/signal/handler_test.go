package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_SignalCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	// Simulate signal delivery without raising a real OS signal.
	h.handleSignal()

	select {
	case <-h.Context().Done():
	default:
		t.Fatal("context not canceled after signal")
	}

	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel not closed after signal")
	}
}

func TestHandler_RepeatedSignalsAreIdempotent(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal()
	h.handleSignal()
	h.handleSignal()

	assert.ErrorIs(t, h.Context().Err(), context.Canceled)
}

func TestHandler_StopCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()

	require.ErrorIs(t, h.Context().Err(), context.Canceled)

	// A second Stop must be safe.
	h.Stop()
}

func TestHandler_NoSignalLeavesContextActive(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	assert.NoError(t, h.Context().Err())

	select {
	case <-h.Interrupted():
		t.Fatal("interrupted channel closed without a signal")
	default:
	}
}

func TestHandler_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()
	assert.ErrorIs(t, h.Context().Err(), context.Canceled)
}
