package run

import (
	"fmt"
	"sync"

	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/errors"
)

// resultStore is the run-scoped, write-once-per-unit result store.
// No two units ever write the same slot, so contention is limited to the
// publish mutex; slots are never mutated after publication.
type resultStore struct {
	mu        sync.RWMutex
	results   []domain.RunResult
	findings  [][]domain.Finding
	published []bool
}

// newResultStore creates a store with one slot per plan unit.
func newResultStore(n int) *resultStore {
	return &resultStore{
		results:   make([]domain.RunResult, n),
		findings:  make([][]domain.Finding, n),
		published: make([]bool, n),
	}
}

// publish finalizes a unit's terminal result. A second publish for the same
// unit is an invariant violation and returns ErrResultAlreadyPublished.
func (s *resultStore) publish(res domain.RunResult, findings []domain.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Unit < 0 || res.Unit >= len(s.results) {
		return fmt.Errorf("%w: unit index %d out of range", errors.ErrValueOutOfRange, res.Unit)
	}
	if s.published[res.Unit] {
		return fmt.Errorf("%w: unit %d", errors.ErrResultAlreadyPublished, res.Unit)
	}
	s.results[res.Unit] = res
	s.findings[res.Unit] = findings
	s.published[res.Unit] = true
	return nil
}

// get returns the published result for a unit, if any.
func (s *resultStore) get(unit int) (domain.RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if unit < 0 || unit >= len(s.results) || !s.published[unit] {
		return domain.RunResult{}, false
	}
	return s.results[unit], true
}

// findingsFor returns the findings published for a unit.
// Only succeeded units carry findings.
func (s *resultStore) findingsFor(unit int) []domain.Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if unit < 0 || unit >= len(s.findings) {
		return nil
	}
	return s.findings[unit]
}

// snapshot returns the results and findings arrays in unit order.
// All slots must be published before calling snapshot.
func (s *resultStore) snapshot() ([]domain.RunResult, [][]domain.Finding) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.RunResult, len(s.results))
	copy(results, s.results)
	findings := make([][]domain.Finding, len(s.findings))
	copy(findings, s.findings)
	return results, findings
}
