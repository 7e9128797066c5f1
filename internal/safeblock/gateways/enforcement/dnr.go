package enforcement

import (
	"fmt"
	"strings"

	"github.com/haukened/safe-block/internal/safeblock/domain"
)

// DNRRule is a Chrome declarativeNetRequest dynamic rule.
type DNRRule struct {
	ID        int          `json:"id"`
	Priority  int          `json:"priority"`
	Action    DNRAction    `json:"action"`
	Condition DNRCondition `json:"condition"`
}

// DNRAction is what the browser does with a matching request.
type DNRAction struct {
	Type string `json:"type"`
}

// DNRCondition selects the requests a rule applies to.
type DNRCondition struct {
	URLFilter     string   `json:"urlFilter,omitempty"`
	ResourceTypes []string `json:"resourceTypes,omitempty"`
}

const (
	dnrPriority    = 1
	domainAnchor   = "||"
	mainFrame      = "main_frame"
	dnrActionBlock = "block"
)

// Render converts a rule to its declarativeNetRequest form. Only top-level
// navigations are blocked.
func Render(r domain.EnforcementRule) (DNRRule, error) {
	if err := r.Validate(); err != nil {
		return DNRRule{}, err
	}
	return DNRRule{
		ID:       r.ID,
		Priority: dnrPriority,
		Action:   DNRAction{Type: string(r.Action)},
		Condition: DNRCondition{
			URLFilter:     domainAnchor + r.Pattern,
			ResourceTypes: []string{mainFrame},
		},
	}, nil
}

// Parse converts a declarativeNetRequest block rule back to an EnforcementRule.
func Parse(d DNRRule) (domain.EnforcementRule, error) {
	if d.Action.Type != dnrActionBlock {
		return domain.EnforcementRule{}, fmt.Errorf("rule %d: unsupported action %q", d.ID, d.Action.Type)
	}
	pattern, ok := strings.CutPrefix(d.Condition.URLFilter, domainAnchor)
	if !ok {
		return domain.EnforcementRule{}, fmt.Errorf("rule %d: urlFilter %q is not domain-anchored", d.ID, d.Condition.URLFilter)
	}
	r, err := domain.NewEnforcementRule(d.ID, pattern)
	if err != nil {
		return domain.EnforcementRule{}, fmt.Errorf("rule %d: %w", d.ID, err)
	}
	return r, nil
}
