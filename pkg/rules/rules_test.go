package rules

import (
	"reflect"
	"testing"

	"partforge/pkg/intent"
)

func dims(l, w, h float64) *intent.Dimensions {
	return &intent.Dimensions{Length: l, Width: w, Height: h}
}

func validPart() intent.Part {
	return intent.Part{
		Shape:      intent.ShapeBox,
		Dimensions: dims(100, 80, 40),
	}
}

func ruleNames(vs []Violation) []string {
	var names []string
	for _, v := range vs {
		names = append(names, v.Rule)
	}
	return names
}

func warningRules(ws []Warning) []string {
	var names []string
	for _, w := range ws {
		names = append(names, w.Rule)
	}
	return names
}

func TestValidateAcceptsWellFormedPart(t *testing.T) {
	p := validPart()
	p.Holes = []intent.Hole{{Diameter: 10, Depth: 20, Position: &intent.Position{}}}
	p.Fillets = []intent.Fillet{{Radius: 3, Edges: intent.EdgeSelector{Scope: intent.EdgesAll}}}

	res := Validate(p, DefaultLimits())
	if !res.Accepted() {
		t.Fatalf("expected acceptance, got violations %v", res.Messages())
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
}

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name  string
		shape string
		want  string
	}{
		{"missing shape", "", "shape-required"},
		{"unsupported shape", "cylinder", "shape-supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPart()
			p.Shape = tt.shape
			res := Validate(p, DefaultLimits())
			if got := ruleNames(res.Violations); !reflect.DeepEqual(got, []string{tt.want}) {
				t.Errorf("violations = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name string
		d    *intent.Dimensions
		want []string
	}{
		{"nil dimensions", nil, []string{"dimensions-required"}},
		{"zero length", dims(0, 50, 50), []string{"dimension-positive"}},
		{"negative height", dims(50, 50, -3), []string{"dimension-positive"}},
		{"below minimum", dims(0.5, 50, 50), []string{"dimension-bounds"}},
		{"above maximum", dims(50, 2500, 50), []string{"dimension-bounds"}},
		{"two bad axes", dims(0.5, 50, 3000), []string{"dimension-bounds", "dimension-bounds"}},
		{"in range", dims(1, 2000, 50), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPart()
			p.Dimensions = tt.d
			res := Validate(p, DefaultLimits())
			if got := ruleNames(res.Violations); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("violations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateHoles(t *testing.T) {
	tests := []struct {
		name string
		hole intent.Hole
		want []string
	}{
		{
			"zero diameter",
			intent.Hole{Diameter: 0, Depth: 10},
			[]string{"hole-diameter-positive"},
		},
		{
			"diameter below minimum",
			intent.Hole{Diameter: 0.5, Depth: 10},
			[]string{"hole-diameter-min"},
		},
		{
			"zero depth",
			intent.Hole{Diameter: 10, Depth: 0},
			[]string{"hole-depth-positive"},
		},
		{
			"depth exceeds height",
			intent.Hole{Diameter: 10, Depth: 60},
			[]string{"hole-depth-vs-height"},
		},
		{
			"diameter spans the cross-section",
			intent.Hole{Diameter: 80, Depth: 10},
			[]string{"hole-diameter-vs-cross-section"},
		},
		{
			"footprint past the length bound",
			intent.Hole{Diameter: 10, Depth: 10, Position: &intent.Position{X: 48}},
			[]string{"hole-footprint"},
		},
		{
			"footprint past the width bound",
			intent.Hole{Diameter: 10, Depth: 10, Position: &intent.Position{Y: -38}},
			[]string{"hole-footprint"},
		},
		{
			"position and location both set",
			intent.Hole{Diameter: 10, Depth: 10, Position: &intent.Position{}, Location: "center"},
			[]string{"hole-placement-conflict"},
		},
		{
			"valid hole",
			intent.Hole{Diameter: 10, Depth: 20, Position: &intent.Position{X: 20, Y: 10}},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPart()
			p.Holes = []intent.Hole{tt.hole}
			res := Validate(p, DefaultLimits())
			if got := ruleNames(res.Violations); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("violations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateHoleDepthVsHeightIsIndependent(t *testing.T) {
	// The depth check must fire even when the rest of the hole is broken.
	p := validPart()
	p.Holes = []intent.Hole{{Diameter: 0.2, Depth: 500}}

	res := Validate(p, DefaultLimits())
	want := []string{"hole-diameter-min", "hole-depth-vs-height"}
	if got := ruleNames(res.Violations); !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestValidateFillets(t *testing.T) {
	tests := []struct {
		name   string
		fillet intent.Fillet
		want   []string
	}{
		{
			"zero radius",
			intent.Fillet{Radius: 0},
			[]string{"fillet-radius-positive"},
		},
		{
			"radius below minimum",
			intent.Fillet{Radius: 0.2},
			[]string{"fillet-radius-min"},
		},
		{
			"radius reaches half the smallest dimension",
			intent.Fillet{Radius: 20},
			[]string{"fillet-radius-vs-dimension"},
		},
		{
			"unknown scope",
			intent.Fillet{Radius: 3, Edges: intent.EdgeSelector{Scope: "left"}},
			[]string{"fillet-edges"},
		},
		{
			"unknown explicit edge",
			intent.Fillet{Radius: 3, Edges: intent.EdgeSelector{Edges: []string{"top-front", "diagonal"}}},
			[]string{"fillet-edges"},
		},
		{
			"valid explicit edges",
			intent.Fillet{Radius: 3, Edges: intent.EdgeSelector{Edges: []string{"top-front", "bottom-back"}}},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPart()
			p.Fillets = []intent.Fillet{tt.fillet}
			res := Validate(p, DefaultLimits())
			if got := ruleNames(res.Violations); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("violations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateFeatureCounts(t *testing.T) {
	lim := DefaultLimits()
	p := validPart()
	for i := 0; i <= lim.MaxFeatures; i++ {
		p.Holes = append(p.Holes, intent.Hole{Diameter: 2, Depth: 5})
	}
	res := Validate(p, lim)
	found := false
	for _, v := range res.Violations {
		if v.Rule == "feature-count" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a feature-count violation for %d holes, got %v", len(p.Holes), ruleNames(res.Violations))
	}
}

func TestValidateMissingInformation(t *testing.T) {
	p := validPart()
	p.MissingInformation = []string{"material", "hole depth"}
	res := Validate(p, DefaultLimits())
	want := []string{"missing-information", "missing-information"}
	if got := ruleNames(res.Violations); !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestValidateCollectsAllViolationsInOrder(t *testing.T) {
	p := intent.Part{
		Shape:              "sphere",
		MissingInformation: []string{"material"},
		Dimensions:         dims(0.5, 50, 50),
		Holes:              []intent.Hole{{Diameter: 0, Depth: 0}},
		Fillets:            []intent.Fillet{{Radius: -1}},
	}

	res := Validate(p, DefaultLimits())
	want := []string{
		"shape-supported",
		"missing-information",
		"dimension-bounds",
		"hole-diameter-positive",
		"hole-depth-positive",
		"fillet-radius-positive",
	}
	if got := ruleNames(res.Violations); !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	p := validPart()
	p.Holes = []intent.Hole{{Diameter: 0.5, Depth: 100, Position: &intent.Position{X: 49}}}

	first := Validate(p, DefaultLimits())
	second := Validate(p, DefaultLimits())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestValidateWarnings(t *testing.T) {
	tests := []struct {
		name string
		part func() intent.Part
		want []string
	}{
		{
			"deep narrow hole",
			func() intent.Part {
				p := validPart()
				p.Holes = []intent.Hole{{Diameter: 2, Depth: 30}}
				return p
			},
			[]string{"hole-depth-ratio"},
		},
		{
			"thin floor under a hole",
			func() intent.Part {
				p := validPart()
				p.Holes = []intent.Hole{{Diameter: 10, Depth: 39}}
				return p
			},
			[]string{"hole-wall-thickness"},
		},
		{
			"hole near an edge",
			func() intent.Part {
				p := validPart()
				p.Holes = []intent.Hole{{Diameter: 4, Depth: 10, Position: &intent.Position{X: 47}}}
				return p
			},
			[]string{"hole-edge-distance"},
		},
		{
			"holes too close together",
			func() intent.Part {
				p := validPart()
				p.Holes = []intent.Hole{
					{Diameter: 10, Depth: 10, Position: &intent.Position{X: -5}},
					{Diameter: 10, Depth: 10, Position: &intent.Position{X: 5}},
				}
				return p
			},
			[]string{"hole-separation"},
		},
		{
			"slender part",
			func() intent.Part {
				p := validPart()
				p.Dimensions = dims(500, 20, 20)
				return p
			},
			[]string{"aspect-ratio"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.part(), DefaultLimits())
			if !res.Accepted() {
				t.Fatalf("unexpected violations %v", res.Messages())
			}
			if got := warningRules(res.Warnings); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("warnings = %v, want %v", got, tt.want)
			}
		})
	}
}
