package lifecycle

import "github.com/haukened/safe-block/internal/safeblock/domain"

// Store is the persistence collaborator. Only a nil error from Save or
// Delete counts as durable.
type Store interface {
	Load() (domain.Settings, bool, error)
	Save(s domain.Settings) error
	Delete() error
}

// Enforcer is the external rule engine. The lifecycle always calls
// RemoveRuleIDs before AddRules.
type Enforcer interface {
	RuleIDs() ([]int, error)
	RemoveRuleIDs(ids []int) error
	AddRules(rules []domain.EnforcementRule) error
}

// PasswordCodec turns a password into the stored hash and checks candidates
// against it.
type PasswordCodec interface {
	Name() string
	Encode(password string) (string, error)
	Verify(password, hash string) bool
}

// Observer receives a copy of every committed Settings value. Observers run
// while the lifecycle lock is held and must not call back into it.
type Observer func(domain.Settings)
