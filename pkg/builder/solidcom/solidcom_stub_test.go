//go:build !windows

package solidcom

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestNewUnavailableOffWindows(t *testing.T) {
	b, err := New()
	if err == nil {
		t.Fatal("New() succeeded, want error off Windows")
	}
	if b != nil {
		t.Errorf("New() returned a builder alongside the error: %v", b)
	}
	if !errors.Is(err, ErrCOMUnavailable) {
		t.Errorf("New() error = %v, want ErrCOMUnavailable", err)
	}
	if !strings.Contains(err.Error(), runtime.GOOS) {
		t.Errorf("error %q does not name the platform", err)
	}
}
