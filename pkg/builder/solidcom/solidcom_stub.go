//go:build !windows

package solidcom

import (
	"fmt"
	"runtime"

	"partforge/pkg/builder"
)

// New always fails off Windows: COM automation does not exist here. The
// caller records the reason in the registry so requests selecting this
// engine receive a missing-capability result.
func New() (builder.Builder, error) {
	return nil, fmt.Errorf("%w (GOOS=%s)", ErrCOMUnavailable, runtime.GOOS)
}
