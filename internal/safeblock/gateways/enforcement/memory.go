package enforcement

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/haukened/safe-block/internal/safeblock/domain"
)

// ruleSet is the installed rule table shared by both enforcers. Callers hold
// the owning enforcer's lock.
type ruleSet map[int]domain.EnforcementRule

// remove drops ids, ignoring unknown ones, and reports how many were present.
func (s ruleSet) remove(ids []int) int {
	n := 0
	for _, id := range ids {
		if _, ok := s[id]; ok {
			delete(s, id)
			n++
		}
	}
	return n
}

// add validates the whole batch before installing any of it. A rule whose ID
// is already installed, or repeated within the batch, rejects the batch.
func (s ruleSet) add(rules []domain.EnforcementRule) error {
	batch := make(map[int]struct{}, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := s[r.ID]; ok {
			return fmt.Errorf("rule id %d already installed", r.ID)
		}
		if _, ok := batch[r.ID]; ok {
			return fmt.Errorf("rule id %d repeated in batch", r.ID)
		}
		batch[r.ID] = struct{}{}
	}
	for _, r := range rules {
		s[r.ID] = r
	}
	return nil
}

func (s ruleSet) ids() []int {
	return slices.Sorted(maps.Keys(s))
}

func (s ruleSet) sorted() []domain.EnforcementRule {
	out := make([]domain.EnforcementRule, 0, len(s))
	for _, id := range s.ids() {
		out = append(out, s[id])
	}
	return out
}

// Memory is an in-process enforcement point. It keeps the installed rules in
// a map and is used when no ruleset file is configured.
type Memory struct {
	mu    sync.RWMutex
	rules ruleSet
}

// NewMemory returns an empty in-memory enforcer.
func NewMemory() *Memory {
	return &Memory{rules: make(ruleSet)}
}

// RuleIDs returns the installed IDs in ascending order.
func (m *Memory) RuleIDs() ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules.ids(), nil
}

// Rules returns the installed rules ordered by ID.
func (m *Memory) Rules() []domain.EnforcementRule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules.sorted()
}

func (m *Memory) RemoveRuleIDs(ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules.remove(ids)
	return nil
}

func (m *Memory) AddRules(rules []domain.EnforcementRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rules.add(rules)
}
