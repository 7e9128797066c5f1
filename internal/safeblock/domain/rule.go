package domain

import (
	"fmt"
	"strings"
)

// Rule ID namespaces. Adult-category rules occupy [AdultRuleBase, CustomRuleBase)
// and custom rules start at CustomRuleBase, so the two ranges never overlap.
const (
	AdultRuleBase  = 1_000
	CustomRuleBase = 1_000_000

	// MaxReferenceEntries is the size of the adult namespace.
	MaxReferenceEntries = CustomRuleBase - AdultRuleBase
)

// RuleAction is what the enforcement point does with a matching request.
type RuleAction string

// ActionBlock is the only action the compiler emits.
const ActionBlock RuleAction = "block"

// EnforcementRule is a derived (id, pattern, action) triple handed to an
// external blocking mechanism. It has no lifecycle of its own.
type EnforcementRule struct {
	ID      int        `json:"id"`
	Pattern string     `json:"pattern"`
	Action  RuleAction `json:"action"`
}

// NewEnforcementRule constructs a block rule and validates its fields.
func NewEnforcementRule(id int, pattern string) (EnforcementRule, error) {
	r := EnforcementRule{ID: id, Pattern: strings.TrimSpace(pattern), Action: ActionBlock}
	if err := r.Validate(); err != nil {
		return EnforcementRule{}, err
	}
	return r, nil
}

// Validate checks the rule for required fields and supported values.
func (r EnforcementRule) Validate() error {
	if r.ID < 1 {
		return fmt.Errorf("rule id must be positive, got %d", r.ID)
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule pattern must not be empty")
	}
	if r.Action != ActionBlock {
		return fmt.Errorf("unsupported rule action: %q", r.Action)
	}
	return nil
}

// Category reports which namespace the rule ID belongs to.
func (r EnforcementRule) Category() BlockCategory {
	switch {
	case r.ID >= CustomRuleBase:
		return CategoryCustom
	case r.ID >= AdultRuleBase:
		return CategoryAdult
	default:
		return CategoryNone
	}
}
