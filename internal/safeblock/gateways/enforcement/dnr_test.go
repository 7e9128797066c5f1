package enforcement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/safe-block/internal/safeblock/domain"
)

func blockRule(id int, pattern string) domain.EnforcementRule {
	return domain.EnforcementRule{ID: id, Pattern: pattern, Action: domain.ActionBlock}
}

func TestRender(t *testing.T) {
	d, err := Render(blockRule(1000, "adultsite.com"))
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1000,
		"priority": 1,
		"action": {"type": "block"},
		"condition": {"urlFilter": "||adultsite.com", "resourceTypes": ["main_frame"]}
	}`, string(b))
}

func TestRender_Invalid(t *testing.T) {
	_, err := Render(blockRule(0, "x.com"))
	assert.Error(t, err)
	_, err = Render(blockRule(1, ""))
	assert.Error(t, err)
	_, err = Render(domain.EnforcementRule{ID: 1, Pattern: "x.com", Action: "allow"})
	assert.Error(t, err)
}

func TestParse_RoundTrip(t *testing.T) {
	r := blockRule(domain.CustomRuleBase+3, "foo.com")
	d, err := Render(r)
	require.NoError(t, err)
	got, err := Parse(d)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		rule DNRRule
	}{
		{"allow action", DNRRule{ID: 1, Action: DNRAction{Type: "allow"}, Condition: DNRCondition{URLFilter: "||a.com"}}},
		{"unanchored", DNRRule{ID: 1, Action: DNRAction{Type: "block"}, Condition: DNRCondition{URLFilter: "a.com"}}},
		{"empty pattern", DNRRule{ID: 1, Action: DNRAction{Type: "block"}, Condition: DNRCondition{URLFilter: "||"}}},
		{"bad id", DNRRule{ID: 0, Action: DNRAction{Type: "block"}, Condition: DNRCondition{URLFilter: "||a.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.rule)
			assert.Error(t, err)
		})
	}
}
