package run_test

import (
	"sync"
	"time"
)

// fakeClock satisfies clock.Clock and fires every backoff wait immediately,
// recording the requested delays so tests can assert the schedule without
// sleeping through it.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	delays []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

func (c *fakeClock) recordedDelays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.delays))
	copy(out, c.delays)
	return out
}

// blockClock never fires, for tests that cancel the context mid-wait.
type blockClock struct{}

func (blockClock) Now() time.Time { return time.Time{} }

func (blockClock) After(time.Duration) <-chan time.Time {
	return make(chan time.Time)
}
