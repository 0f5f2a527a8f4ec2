package generator

import (
	"fmt"
	"strings"

	"partforge/pkg/rules"
)

// FailureKind classifies a generation failure so callers can distinguish
// "fix your input" from "try again later" from "this backend is unavailable
// here". The string values are the machine-checkable kinds on the wire.
type FailureKind string

const (
	// ValidationFailed: one or more manufacturability rules rejected the
	// intent. Always recoverable by correcting the input.
	ValidationFailed FailureKind = "validation_failed"

	// UnsupportedEngine: the caller named an engine key no adapter is
	// registered under.
	UnsupportedEngine FailureKind = "unsupported_engine"

	// MissingCapability: the selected adapter exists but its runtime
	// prerequisite (e.g. a platform driver) is absent on this host.
	MissingCapability FailureKind = "missing_capability"

	// GenerationFailed: the adapter ran and the underlying kernel call
	// failed, including build timeouts.
	GenerationFailed FailureKind = "generation_failed"

	// InternalFault: anything unexpected. Logged in full; callers see only
	// a generic message.
	InternalFault FailureKind = "internal_fault"
)

// Error is the typed failure returned by Generate. Exactly one of the
// (path, error) pair out of Generate is meaningful, so callers can never
// observe a path combined with an error.
type Error struct {
	Kind       FailureKind
	Message    string
	Violations []rules.Violation // populated for ValidationFailed
	Err        error             // underlying cause, if any
}

func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		msgs := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			msgs[i] = v.Message
		}
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts the typed failure from err, or wraps an unexpected error
// as an InternalFault with a generic caller-facing message.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if ge, ok := err.(*Error); ok {
		return ge
	}
	return &Error{Kind: InternalFault, Message: "internal error", Err: err}
}
