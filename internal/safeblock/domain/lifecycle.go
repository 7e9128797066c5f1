package domain

import (
	"fmt"
	"strings"
)

// LifecycleState gates which settings mutations are permitted.
type LifecycleState uint8

const (
	// StateSetupRequired: no password yet; only SetPassword is accepted.
	StateSetupRequired LifecycleState = iota
	// StateLocked: a password exists and the settings are read-only.
	StateLocked
	// StateUnlocked: the password was proven (or just set); the custom list is editable.
	StateUnlocked
)

// String returns a stable string representation of the state.
func (s LifecycleState) String() string {
	switch s {
	case StateSetupRequired:
		return "SetupRequired"
	case StateLocked:
		return "Locked"
	case StateUnlocked:
		return "Unlocked"
	default:
		return fmt.Sprintf("LifecycleState(%d)", s)
	}
}

// ParseLifecycleState converts a string into a LifecycleState (case-insensitive).
func ParseLifecycleState(s string) (LifecycleState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "setuprequired":
		return StateSetupRequired, nil
	case "locked":
		return StateLocked, nil
	case "unlocked":
		return StateUnlocked, nil
	default:
		return 0, fmt.Errorf("unsupported LifecycleState: %q", s)
	}
}

// Resume derives the lifecycle state a freshly loaded aggregate starts in.
// A stored password always resumes Locked; unlocking is never restored.
func Resume(s Settings) LifecycleState {
	if !s.HasPassword() {
		return StateSetupRequired
	}
	return StateLocked
}
