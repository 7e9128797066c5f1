package domain

// BlockDecision represents the outcome of evaluating a URL against the settings.
// Pure value type, no external dependencies.
type BlockDecision struct {
	Blocked     bool          // true if the canonical key is on an enforced list
	Key         string        // canonical key that was evaluated
	Category    BlockCategory // list that matched; CategoryNone when allowed
	MatchedRule int           // ID of the enforcement rule that matched; 0 when allowed
	Apex        string        // registrable domain of Key, informational only
}

// IsBlocked is a convenience accessor.
func (d BlockDecision) IsBlocked() bool { return d.Blocked }

// AllowDecision returns a not-blocked decision for key.
func AllowDecision(key string) BlockDecision {
	return BlockDecision{Blocked: false, Key: key, Category: CategoryNone}
}

// BlockedBy returns a blocked decision for key attributed to rule.
func BlockedBy(key string, rule EnforcementRule) BlockDecision {
	return BlockDecision{Blocked: true, Key: key, Category: rule.Category(), MatchedRule: rule.ID}
}
