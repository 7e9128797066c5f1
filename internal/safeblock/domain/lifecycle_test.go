package domain

import "testing"

func TestResume(t *testing.T) {
	fresh := NewSettings()
	if got := Resume(fresh); got != StateSetupRequired {
		t.Fatalf("Resume(fresh) = %v, want SetupRequired", got)
	}

	withPassword := fresh.WithPasswordHash("MTIzNA==")
	if got := Resume(withPassword); got != StateLocked {
		t.Fatalf("Resume(password, setup incomplete) = %v, want Locked", got)
	}

	withPassword.SetupComplete = true
	if got := Resume(withPassword); got != StateLocked {
		t.Fatalf("Resume(password, setup complete) = %v, want Locked", got)
	}

	emptyHash := fresh.WithPasswordHash("")
	emptyHash.SetupComplete = true
	if got := Resume(emptyHash); got != StateSetupRequired {
		t.Fatalf("Resume(empty hash) = %v, want SetupRequired", got)
	}
}

func TestLifecycleState_StringAndParse(t *testing.T) {
	for _, st := range []LifecycleState{StateSetupRequired, StateLocked, StateUnlocked} {
		parsed, err := ParseLifecycleState(st.String())
		if err != nil {
			t.Fatalf("ParseLifecycleState(%q): %v", st.String(), err)
		}
		if parsed != st {
			t.Fatalf("round trip %v -> %v", st, parsed)
		}
	}
	if _, err := ParseLifecycleState(" LOCKED "); err != nil {
		t.Fatalf("case-insensitive parse failed: %v", err)
	}
	if _, err := ParseLifecycleState("open"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
	if got := LifecycleState(9).String(); got != "LifecycleState(9)" {
		t.Fatalf("unknown String = %q", got)
	}
}
