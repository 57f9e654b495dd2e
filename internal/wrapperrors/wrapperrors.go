// Package wrapperrors defines the tagged outcome a wrapper pipeline stage
// returns instead of raising exceptions: every stage either succeeds, or
// declines (the host should fall back to the real compiler, uncached), or
// fails fatally (the error should propagate to the caller).
package wrapperrors

import (
	"errors"
	"fmt"
)

// DeclineError marks an invocation as recognized but unsupported: the
// caller should run the real compiler directly and not observe it with the
// cache. Examples: link chained with compile, multiple inputs sharing one
// object path, a shared PDB debug format, an unsupported toolset version,
// a malformed response file.
type DeclineError struct {
	Reason string
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("decline: %s", e.Reason)
}

// Decline constructs a DeclineError with reason formatted per fmt.Sprintf.
func Decline(format string, args ...any) error {
	return &DeclineError{Reason: fmt.Sprintf(format, args...)}
}

// IsDecline reports whether err (or any error it wraps) is a DeclineError.
func IsDecline(err error) bool {
	_, ok := AsDecline(err)
	return ok
}

// AsDecline extracts a *DeclineError from err, if any.
func AsDecline(err error) (*DeclineError, bool) {
	var d *DeclineError
	ok := errors.As(err, &d)
	return d, ok
}

// FatalError marks a failure that must propagate to the caller: the
// invocation was supported, but the wrapper could not carry it out (e.g.
// it could not create a temporary directory needed to run the compiler).
type FatalError struct {
	Reason string
	Err    error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fatal: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("fatal: %s", e.Reason)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err as a FatalError carrying reason.
func Fatal(reason string, err error) error {
	return &FatalError{Reason: reason, Err: err}
}
