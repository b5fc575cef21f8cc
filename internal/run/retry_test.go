package run_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/archon/internal/run"
)

var errAttempt = stderrors.New("attempt failed")

func retryConfig() run.RetryConfig {
	return run.RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2,
		MaxDelay:     30 * time.Second,
	}
}

func TestExecuteWithRetry_FirstAttemptSucceeds(t *testing.T) {
	clk := newFakeClock()
	op := &run.SimpleRetryOperation[string]{
		AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
			return "ok", true, nil
		},
		ShouldRetryFunc: func(error) bool { return true },
	}

	result, attempts, err := run.ExecuteWithRetry(context.Background(), retryConfig(), clk, op)

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, clk.recordedDelays())
}

func TestExecuteWithRetry_SucceedsAfterRetries(t *testing.T) {
	clk := newFakeClock()
	calls := 0
	op := &run.SimpleRetryOperation[string]{
		AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
			calls++
			if calls < 3 {
				return "", false, errAttempt
			}
			return "ok", true, nil
		},
		ShouldRetryFunc: func(error) bool { return true },
	}

	result, attempts, err := run.ExecuteWithRetry(context.Background(), retryConfig(), clk, op)

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)

	// Exponential backoff doubles the delay per retry.
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, clk.recordedDelays())
}

func TestExecuteWithRetry_ExhaustsAttempts(t *testing.T) {
	clk := newFakeClock()
	op := &run.SimpleRetryOperation[string]{
		AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
			return "", false, errAttempt
		},
		ShouldRetryFunc: func(error) bool { return true },
	}

	cfg := retryConfig()
	cfg.MaxAttempts = 3

	_, attempts, err := run.ExecuteWithRetry(context.Background(), cfg, clk, op)

	require.Error(t, err)
	assert.ErrorIs(t, err, errAttempt)
	assert.Equal(t, 3, attempts)

	// No wait after the final attempt.
	assert.Len(t, clk.recordedDelays(), 2)
}

func TestExecuteWithRetry_DelayCappedAtMax(t *testing.T) {
	clk := newFakeClock()
	op := &run.SimpleRetryOperation[string]{
		AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
			return "", false, errAttempt
		},
		ShouldRetryFunc: func(error) bool { return true },
	}

	cfg := run.RetryConfig{
		MaxAttempts:  4,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2,
		MaxDelay:     150 * time.Millisecond,
	}

	_, _, err := run.ExecuteWithRetry(context.Background(), cfg, clk, op)

	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		150 * time.Millisecond,
		150 * time.Millisecond,
	}, clk.recordedDelays())
}

func TestExecuteWithRetry_ShouldRetryFalseStops(t *testing.T) {
	clk := newFakeClock()
	calls := 0
	op := &run.SimpleRetryOperation[string]{
		AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
			calls++
			return "", false, errAttempt
		},
		ShouldRetryFunc: func(error) bool { return false },
	}

	_, attempts, err := run.ExecuteWithRetry(context.Background(), retryConfig(), clk, op)

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clk.recordedDelays())
}

func TestExecuteWithRetry_CanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	op := &run.SimpleRetryOperation[string]{
		AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
			cancel()
			return "", false, errAttempt
		},
		ShouldRetryFunc: func(error) bool { return true },
	}

	_, attempts, err := run.ExecuteWithRetry(ctx, retryConfig(), blockClock{}, op)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetry_ReportsWaitsToOperation(t *testing.T) {
	clk := newFakeClock()
	var waits []time.Duration
	calls := 0
	op := &run.SimpleRetryOperation[string]{
		AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
			calls++
			if calls < 2 {
				return "", false, errAttempt
			}
			return "ok", true, nil
		},
		ShouldRetryFunc: func(error) bool { return true },
		OnRetryWaitFunc: func(_ int, delay time.Duration) {
			waits = append(waits, delay)
		},
	}

	_, _, err := run.ExecuteWithRetry(context.Background(), retryConfig(), clk, op)

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{100 * time.Millisecond}, waits)
}
