package lifecycle

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/haukened/safe-block/internal/safeblock/common/log"
	"github.com/haukened/safe-block/internal/safeblock/domain"
	"github.com/haukened/safe-block/internal/safeblock/services/compiler"
)

// Options wires a Lifecycle to its collaborators.
type Options struct {
	Store    Store
	Enforcer Enforcer
	Compiler *compiler.Compiler // nil uses the built-in reference list
	Codec    PasswordCodec      // nil uses Base64Codec
	Logger   log.Logger
}

// Lifecycle is the password-gated state machine that owns the settings
// aggregate. All operations are serialized by a single mutex; a transition
// either applies completely or leaves state, storage and enforcement as they
// were.
//
// committed is the last durable value. draft holds unsaved edits while
// Unlocked and is discarded by Lock.
type Lifecycle struct {
	mu        sync.Mutex
	state     domain.LifecycleState
	committed domain.Settings
	draft     domain.Settings
	persisted bool

	store     Store
	enforcer  Enforcer
	compiler  *compiler.Compiler
	codec     PasswordCodec
	observers []Observer
	logger    log.Logger
}

// Open loads the stored aggregate (or starts from first-install defaults),
// derives the initial state and seeds the compiler with the rule IDs the
// enforcer already holds.
func Open(opts Options) (*Lifecycle, error) {
	if opts.Store == nil {
		return nil, errors.New("lifecycle: store is required")
	}
	if opts.Enforcer == nil {
		return nil, errors.New("lifecycle: enforcer is required")
	}
	l := &Lifecycle{
		store:    opts.Store,
		enforcer: opts.Enforcer,
		compiler: opts.Compiler,
		codec:    opts.Codec,
		logger:   opts.Logger,
	}
	if l.logger == nil {
		l.logger = log.NewNoopLogger()
	}
	if l.compiler == nil {
		l.compiler = compiler.New(nil, l.logger)
	}
	l.logger = l.logger.Named("lifecycle")
	if l.codec == nil {
		l.codec = Base64Codec{}
	}

	s, ok, err := l.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		s = domain.NewSettings()
	}
	if n := s.Normalize(); n > 0 {
		l.logger.Warn(map[string]any{"entries": n}, "stored_custom_list_normalized")
	}
	ids, err := l.enforcer.RuleIDs()
	if err != nil {
		return nil, fmt.Errorf("read installed rules: %w", err)
	}
	l.compiler.Seed(ids)

	l.committed = s
	l.draft = s.Clone()
	l.persisted = ok
	l.state = domain.Resume(s)
	l.logger.Info(map[string]any{
		"state":     l.state.String(),
		"stored":    ok,
		"installed": len(ids),
		"codec":     l.codec.Name(),
	}, "lifecycle_opened")
	return l, nil
}

// Subscribe registers o and immediately delivers the committed settings.
func (l *Lifecycle) Subscribe(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
	o(l.committed.Clone())
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() domain.LifecycleState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Snapshot returns a copy of the last committed settings.
func (l *Lifecycle) Snapshot() domain.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.committed.Clone()
}

// Draft returns a copy of the settings being edited. Outside Unlocked it
// equals Snapshot.
func (l *Lifecycle) Draft() domain.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != domain.StateUnlocked {
		return l.committed.Clone()
	}
	return l.draft.Clone()
}

// Sync pushes the rules for the committed settings to the enforcer,
// replacing whatever it currently holds.
func (l *Lifecycle) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.apply(l.committed); err != nil {
		l.logger.Error(map[string]any{"error": err.Error()}, "rules_sync_failed")
		return domain.NewSettingsError(domain.KindEnforcementFailure, "", err)
	}
	l.notify()
	return nil
}

// SetPassword stores the first password and moves to Unlocked so the same
// session can finish configuring before the first lock.
func (l *Lifecycle) SetPassword(password string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.require(domain.StateSetupRequired); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return domain.NewSettingsError(domain.KindWeakPassword, "",
			fmt.Errorf("shorter than %d characters", domain.MinPasswordLength))
	}
	hash, err := l.codec.Encode(password)
	if err != nil {
		return domain.NewSettingsError(domain.KindWeakPassword, "", fmt.Errorf("%s codec: %w", l.codec.Name(), err))
	}
	if err := l.commit(l.committed.WithPasswordHash(hash)); err != nil {
		return err
	}
	l.state = domain.StateUnlocked
	l.logger.Info(map[string]any{"state": l.state.String()}, "password_set")
	return nil
}

// Unlock verifies password against the stored hash.
func (l *Lifecycle) Unlock(password string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.require(domain.StateLocked); err != nil {
		return err
	}
	if !l.codec.Verify(password, l.committed.Hash()) {
		l.logger.Warn(nil, "unlock_rejected")
		return domain.NewSettingsError(domain.KindInvalidPassword, "", nil)
	}
	l.draft = l.committed.Clone()
	l.state = domain.StateUnlocked
	l.logger.Info(nil, "settings_unlocked")
	return nil
}

// AddCustomURL adds the canonical form of raw to the draft. Adding a key that
// is already present is a successful no-op reported as added=false.
func (l *Lifecycle) AddCustomURL(raw string) (added bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.require(domain.StateUnlocked); err != nil {
		return false, err
	}
	return l.draft.AddCustomURL(raw)
}

// RemoveCustomURL removes the canonical form of raw from the draft. Removing
// an absent key is a successful no-op reported as removed=false.
func (l *Lifecycle) RemoveCustomURL(raw string) (removed bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.require(domain.StateUnlocked); err != nil {
		return false, err
	}
	return l.draft.RemoveCustomURL(raw)
}

// CommitAndLock persists the draft with SetupComplete set, recompiles the
// rules and locks.
func (l *Lifecycle) CommitAndLock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.require(domain.StateUnlocked); err != nil {
		return err
	}
	next := l.draft.Clone()
	next.SetupComplete = true
	if err := l.commit(next); err != nil {
		return err
	}
	l.state = domain.StateLocked
	l.logger.Info(map[string]any{
		"custom": len(next.CustomBlockedURLs),
	}, "settings_committed")
	return nil
}

// Lock leaves Unlocked without saving; draft edits are discarded.
func (l *Lifecycle) Lock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.require(domain.StateUnlocked); err != nil {
		return err
	}
	discarded := !l.draft.Equal(l.committed)
	l.draft = l.committed.Clone()
	l.state = domain.StateLocked
	l.logger.Info(map[string]any{"discarded_edits": discarded}, "settings_locked")
	return nil
}

// Reset discards the stored aggregate and returns to first-install defaults.
// It is allowed from any state.
func (l *Lifecycle) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev, hadPrev := l.committed, l.persisted
	if err := l.store.Delete(); err != nil {
		l.logger.Error(map[string]any{"error": err.Error()}, "settings_delete_failed")
		return domain.NewSettingsError(domain.KindPersistenceFailure, "", err)
	}
	next := domain.NewSettings()
	if err := l.apply(next); err != nil {
		l.rollback(prev, hadPrev)
		return domain.NewSettingsError(domain.KindEnforcementFailure, "", err)
	}
	l.committed = next
	l.draft = next.Clone()
	l.persisted = false
	l.state = domain.StateSetupRequired
	l.notify()
	l.logger.Info(nil, "settings_reset")
	return nil
}

func (l *Lifecycle) require(want domain.LifecycleState) error {
	if l.state != want {
		return domain.NewSettingsError(domain.KindInvalidState, l.state.String(), nil)
	}
	return nil
}

// commit persists next, pushes its rules and only then adopts it. On any
// failure the previous record and rules are restored.
func (l *Lifecycle) commit(next domain.Settings) error {
	prev, hadPrev := l.committed, l.persisted
	if err := l.store.Save(next); err != nil {
		l.logger.Error(map[string]any{"error": err.Error()}, "settings_save_failed")
		return domain.NewSettingsError(domain.KindPersistenceFailure, "", err)
	}
	if err := l.apply(next); err != nil {
		l.logger.Error(map[string]any{"error": err.Error()}, "rules_apply_failed")
		l.rollback(prev, hadPrev)
		return domain.NewSettingsError(domain.KindEnforcementFailure, "", err)
	}
	l.committed = next.Clone()
	l.draft = next.Clone()
	l.persisted = true
	l.notify()
	return nil
}

// apply runs the full-replace diff for s: every previously installed ID out,
// the freshly compiled set in.
func (l *Lifecycle) apply(s domain.Settings) error {
	plan := l.compiler.Plan(s)
	if err := l.enforcer.RemoveRuleIDs(plan.RemoveIDs); err != nil {
		return fmt.Errorf("remove rules: %w", err)
	}
	if err := l.enforcer.AddRules(plan.AddRules); err != nil {
		return fmt.Errorf("add rules: %w", err)
	}
	l.compiler.Commit(plan)
	l.logger.Debug(map[string]any{
		"removed": len(plan.RemoveIDs),
		"added":   len(plan.AddRules),
	}, "rules_applied")
	return nil
}

// rollback restores prev in storage and re-installs its rules after a failed
// enforcement step. Failures here are logged; the caller already reports the
// original error.
func (l *Lifecycle) rollback(prev domain.Settings, hadPrev bool) {
	var err error
	if hadPrev {
		err = l.store.Save(prev)
	} else {
		err = l.store.Delete()
	}
	if err != nil {
		l.logger.Error(map[string]any{"error": err.Error()}, "settings_rollback_failed")
	}

	// The enforcer may hold a partial diff; reseed from what it reports.
	ids, err := l.enforcer.RuleIDs()
	if err != nil {
		l.logger.Error(map[string]any{"error": err.Error()}, "rules_rollback_failed")
		return
	}
	l.compiler.Seed(ids)
	if err := l.apply(prev); err != nil {
		l.logger.Error(map[string]any{"error": err.Error()}, "rules_rollback_failed")
	}
}

func (l *Lifecycle) notify() {
	for _, o := range l.observers {
		o(l.committed.Clone())
	}
}
