package cli

import (
	"errors"

	"github.com/haukened/safe-block/internal/safeblock/domain"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitDenied   = 3
	ExitRejected = 4
)

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, errUsage):
		return ExitUsage
	case errors.Is(err, domain.ErrInvalidPassword):
		return ExitDenied
	case errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrEmptyCanonicalKey),
		errors.Is(err, domain.ErrInvalidState):
		return ExitRejected
	default:
		return ExitFailure
	}
}
