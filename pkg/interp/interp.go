// Package interp defines the contract for the external natural-language
// interpreter. The core consumes interpretation as a single capability and
// never inspects how structure is derived from text; concrete LLM clients
// live outside this repository and are wired in at startup.
package interp

import (
	"context"
	"errors"

	"partforge/pkg/intent"
)

// ErrNotConfigured indicates no interpreter was wired at startup.
var ErrNotConfigured = errors.New("no natural-language interpreter is configured")

// Interpreter derives a structured part intent from free text. Fields the
// implementation cannot resolve belong in the returned part's
// MissingInformation list, not guessed.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (intent.Part, error)
}

// Func adapts an ordinary function to the Interpreter interface.
type Func func(ctx context.Context, text string) (intent.Part, error)

// Interpret calls f(ctx, text).
func (f Func) Interpret(ctx context.Context, text string) (intent.Part, error) {
	return f(ctx, text)
}
