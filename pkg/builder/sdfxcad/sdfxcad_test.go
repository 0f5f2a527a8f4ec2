package sdfxcad

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"partforge/pkg/intent"
)

// testCells keeps tessellation fast; geometry fidelity is not under test.
const testCells = 32

func boxPart() intent.Part {
	return intent.Part{
		Shape:      intent.ShapeBox,
		Dimensions: &intent.Dimensions{Length: 40, Width: 30, Height: 20},
	}
}

func buildToTemp(t *testing.T, part intent.Part) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part.stl")
	if err := NewWithResolution(testCells).Build(part, path); err != nil {
		t.Fatalf("Build: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("Build wrote an empty STL")
	}
	return path
}

func TestBuildPlainBox(t *testing.T) {
	buildToTemp(t, boxPart())
}

func TestBuildWithFeatures(t *testing.T) {
	tests := []struct {
		name string
		part func() intent.Part
	}{
		{
			"centered hole",
			func() intent.Part {
				p := boxPart()
				p.Holes = []intent.Hole{{Diameter: 8, Depth: 10}}
				return p
			},
		},
		{
			"offset hole",
			func() intent.Part {
				p := boxPart()
				p.Holes = []intent.Hole{{Diameter: 6, Depth: 15, Position: &intent.Position{X: 10, Y: -5}}}
				return p
			},
		},
		{
			"all-edge fillet",
			func() intent.Part {
				p := boxPart()
				p.Fillets = []intent.Fillet{{Radius: 3, Edges: intent.EdgeSelector{Scope: intent.EdgesAll}}}
				return p
			},
		},
		{
			"top-edge fillet",
			func() intent.Part {
				p := boxPart()
				p.Fillets = []intent.Fillet{{Radius: 3, Edges: intent.EdgeSelector{Scope: intent.EdgesTop}}}
				return p
			},
		},
		{
			"bottom-edge fillet",
			func() intent.Part {
				p := boxPart()
				p.Fillets = []intent.Fillet{{Radius: 3, Edges: intent.EdgeSelector{Scope: intent.EdgesBottom}}}
				return p
			},
		},
		{
			"hole and fillet together",
			func() intent.Part {
				p := boxPart()
				p.Holes = []intent.Hole{{Diameter: 8, Depth: 10}}
				p.Fillets = []intent.Fillet{{Radius: 2, Edges: intent.EdgeSelector{Scope: intent.EdgesAll}}}
				return p
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildToTemp(t, tt.part())
		})
	}
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name    string
		part    func() intent.Part
		wantMsg string
	}{
		{
			"unsupported shape",
			func() intent.Part {
				p := boxPart()
				p.Shape = "cylinder"
				return p
			},
			"unsupported shape",
		},
		{
			"missing dimensions",
			func() intent.Part {
				p := boxPart()
				p.Dimensions = nil
				return p
			},
			"dimensions are required",
		},
		{
			"explicit edge set",
			func() intent.Part {
				p := boxPart()
				p.Fillets = []intent.Fillet{{Radius: 2, Edges: intent.EdgeSelector{Edges: []string{"top-front"}}}}
				return p
			},
			"explicit edge sets are not supported",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "part.stl")
			err := NewWithResolution(testCells).Build(tt.part(), path)
			if err == nil {
				t.Fatal("Build succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
			if _, statErr := os.Stat(path); statErr == nil {
				t.Error("rejected build left an output file behind")
			}
		})
	}
}

func TestNewWithResolutionClampsInvalid(t *testing.T) {
	for _, cells := range []int{0, -5} {
		b := NewWithResolution(cells)
		if b.cells != defaultMeshCells {
			t.Errorf("NewWithResolution(%d).cells = %d, want %d", cells, b.cells, defaultMeshCells)
		}
	}
}

func TestExt(t *testing.T) {
	if got := New().Ext(); got != ".stl" {
		t.Errorf("Ext() = %q, want .stl", got)
	}
}
