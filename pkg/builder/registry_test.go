package builder

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"partforge/pkg/intent"
)

type nopBuilder struct{ ext string }

func (n nopBuilder) Ext() string { return n.ext }

func (n nopBuilder) Build(intent.Part, string) error { return nil }

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	r.Register("primary", nopBuilder{ext: ".stl"})

	b, err := r.Get("primary")
	if err != nil {
		t.Fatalf("Get(primary): %v", err)
	}
	if got := b.Ext(); got != ".stl" {
		t.Errorf("Ext() = %q, want .stl", got)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	r.Register("primary", nopBuilder{})
	r.Register("secondary", nopBuilder{})

	_, err := r.Get("tertiary")
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("Get(tertiary) = %v, want ErrUnknownEngine", err)
	}
	// The error must name the valid choices so a caller can self-correct.
	for _, key := range []string{"primary", "secondary"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not list engine %q", err, key)
		}
	}
}

func TestRegistryGetUnavailable(t *testing.T) {
	reason := errors.New("COM runtime not present")
	r := NewRegistry()
	r.RegisterUnavailable("secondary", reason)

	_, err := r.Get("secondary")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Get(secondary) = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), reason.Error()) {
		t.Errorf("error %q does not carry the construction failure", err)
	}
}

func TestRegistryKeysSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", nopBuilder{})
	r.RegisterUnavailable("alpha", errors.New("down"))
	r.Register("mid", nopBuilder{})

	want := []string{"alpha", "mid", "zeta"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestRegistryAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register("primary", nopBuilder{})
	r.RegisterUnavailable("secondary", errors.New("down"))

	tests := []struct {
		key  string
		want bool
	}{
		{"primary", true},
		{"secondary", false},
		{"missing", false},
	}
	for _, tt := range tests {
		if got := r.Available(tt.key); got != tt.want {
			t.Errorf("Available(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
