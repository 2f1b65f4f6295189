// Package errs defines the sentinel error kinds shared across the engine.
//
// Every error the core raises wraps one of these with fmt.Errorf("%w: ...")
// so callers can test with errors.Is instead of string matching.
package errs

import "errors"

var (
	// ErrInvalidInput marks a constraint or invariant violation in a
	// constructor or operation argument. Always raised at the call site,
	// never swallowed, never used for an absent/optional outcome.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPrecisionViolation marks an arithmetic step that would require
	// more precision than the caller permits. Reserved: emitted only if a
	// future scale-preserving operation needs it.
	ErrPrecisionViolation = errors.New("precision violation")

	// ErrGuardLimitExceeded is the opt-in escalation of a search guard
	// breach. SearchGuardReport.AsError wraps it, naming each breached
	// guard with its used/limit figures in the message.
	ErrGuardLimitExceeded = errors.New("search guard limit exceeded")
)
