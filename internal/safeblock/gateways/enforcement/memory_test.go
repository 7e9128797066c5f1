package enforcement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/safe-block/internal/safeblock/domain"
)

func TestMemory_AddRemove(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.AddRules([]domain.EnforcementRule{blockRule(20, "b.com"), blockRule(10, "a.com")}))

	ids, err := m.RuleIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, ids)
	assert.Equal(t, []domain.EnforcementRule{blockRule(10, "a.com"), blockRule(20, "b.com")}, m.Rules())

	require.NoError(t, m.RemoveRuleIDs([]int{10, 99}))
	ids, _ = m.RuleIDs()
	assert.Equal(t, []int{20}, ids)
}

func TestMemory_AddRejectsWholeBatch(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.AddRules([]domain.EnforcementRule{blockRule(1, "a.com")}))

	err := m.AddRules([]domain.EnforcementRule{blockRule(2, "b.com"), blockRule(1, "dup.com")})
	assert.ErrorContains(t, err, "already installed")

	err = m.AddRules([]domain.EnforcementRule{blockRule(3, "c.com"), blockRule(3, "c2.com")})
	assert.ErrorContains(t, err, "repeated")

	err = m.AddRules([]domain.EnforcementRule{blockRule(4, "")})
	assert.Error(t, err)

	ids, _ := m.RuleIDs()
	assert.Equal(t, []int{1}, ids, "failed batches install nothing")
}

func TestMemory_FullReplace(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.AddRules([]domain.EnforcementRule{blockRule(1, "a.com"), blockRule(2, "b.com")}))

	ids, _ := m.RuleIDs()
	require.NoError(t, m.RemoveRuleIDs(ids))
	require.NoError(t, m.AddRules([]domain.EnforcementRule{blockRule(1, "c.com")}))
	assert.Equal(t, []domain.EnforcementRule{blockRule(1, "c.com")}, m.Rules())
}
