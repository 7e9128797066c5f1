package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a settings failure so callers can render a precise message.
type ErrorKind uint8

const (
	// KindWeakPassword: the proposed password is shorter than MinPasswordLength
	// or the password codec refused it.
	KindWeakPassword ErrorKind = iota + 1
	// KindInvalidPassword: an unlock attempt did not match the stored hash.
	KindInvalidPassword
	// KindDuplicateURL: the canonical key is already present. Reported, never failed on.
	KindDuplicateURL
	// KindEmptyCanonicalKey: the input canonicalizes to "".
	KindEmptyCanonicalKey
	// KindPersistenceFailure: the storage collaborator rejected the write.
	KindPersistenceFailure
	// KindInvalidState: the operation is not permitted from the current lifecycle state.
	KindInvalidState
	// KindEnforcementFailure: the enforcement collaborator rejected the rule diff.
	KindEnforcementFailure
)

// Sentinels matched by (*SettingsError).Is, one per kind.
var (
	ErrWeakPassword        = errors.New("password not accepted")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrDuplicateURL        = errors.New("url already blocked")
	ErrEmptyCanonicalKey   = errors.New("url canonicalizes to an empty key")
	ErrPersistenceFailure  = errors.New("settings could not be persisted")
	ErrInvalidState        = errors.New("operation not permitted in current state")
	ErrEnforcementFailure  = errors.New("enforcement rules could not be applied")
	errUnknownSettingsKind = errors.New("unknown settings error")
)

func (k ErrorKind) String() string {
	switch k {
	case KindWeakPassword:
		return "WeakPassword"
	case KindInvalidPassword:
		return "InvalidPassword"
	case KindDuplicateURL:
		return "DuplicateUrl"
	case KindEmptyCanonicalKey:
		return "EmptyCanonicalKey"
	case KindPersistenceFailure:
		return "PersistenceFailure"
	case KindInvalidState:
		return "InvalidState"
	case KindEnforcementFailure:
		return "EnforcementFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindWeakPassword:
		return ErrWeakPassword
	case KindInvalidPassword:
		return ErrInvalidPassword
	case KindDuplicateURL:
		return ErrDuplicateURL
	case KindEmptyCanonicalKey:
		return ErrEmptyCanonicalKey
	case KindPersistenceFailure:
		return ErrPersistenceFailure
	case KindInvalidState:
		return ErrInvalidState
	case KindEnforcementFailure:
		return ErrEnforcementFailure
	default:
		return errUnknownSettingsKind
	}
}

// SettingsError carries the failure kind, the offending value and, for
// collaborator failures, the underlying cause.
//
// Value holds the offending input (a raw URL, a state name). It is never set
// to password material; for password kinds it stays empty.
type SettingsError struct {
	Kind  ErrorKind
	Value string
	Err   error
}

// NewSettingsError builds a SettingsError for kind with an optional cause.
func NewSettingsError(kind ErrorKind, value string, cause error) *SettingsError {
	return &SettingsError{Kind: kind, Value: value, Err: cause}
}

func (e *SettingsError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Value != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the collaborator cause, if any.
func (e *SettingsError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *SettingsError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf extracts the ErrorKind from err, or 0 when err is not a SettingsError.
func KindOf(err error) ErrorKind {
	var se *SettingsError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
