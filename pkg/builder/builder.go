// Package builder defines the adapter contract every CAD backend implements
// and the closed registry the orchestrator selects adapters from. The
// orchestrator depends only on the Builder interface, never on a concrete
// backend; adding an engine means one adapter plus one registry entry.
package builder

import (
	"errors"
	"fmt"

	"partforge/pkg/intent"
)

// Builder turns a validated part intent into a CAD artifact file.
//
// Build is an opaque blocking call: it is native-library-bound, offers no
// cancellation hook, and may be CPU- and I/O-heavy. Callers bound it
// externally (see pkg/generator). The part passed in has already passed
// validation; builders may rely on its invariants.
type Builder interface {
	// Ext returns the artifact file extension including the dot, e.g. ".stl".
	Ext() string

	// Build writes the artifact for part to path. On failure it returns an
	// *Error describing the cause; a partial file may remain at path.
	Build(part intent.Part, path string) error
}

// Error is a build failure reported by a concrete backend.
type Error struct {
	Engine string // registry key or backend name
	Msg    string
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Engine, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Engine, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrUnknownEngine marks a lookup with a key no adapter is registered under.
var ErrUnknownEngine = errors.New("unknown engine")

// ErrUnavailable marks an adapter whose runtime prerequisite (a driver, a
// platform library) is absent on this host. The adapter degrades gracefully
// at construction time instead of failing mid-request.
var ErrUnavailable = errors.New("engine unavailable on this host")
