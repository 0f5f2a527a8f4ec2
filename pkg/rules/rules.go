// Package rules checks a part intent against manufacturability constraints.
// Validation is pure: no I/O, no mutation of the input, deterministic for a
// given input. Every check runs even after one fails so that a rejection
// reports the complete set of violations in declaration order, letting a
// caller fix everything from a single response.
//
// The rules are backend-independent; nothing here knows which engine will
// eventually build the part.
package rules

import (
	"fmt"
	"math"

	"partforge/pkg/intent"
)

// Limits holds the configurable manufacturing constraints, in millimeters.
type Limits struct {
	MinDimension     float64 // smallest allowed outer dimension
	MaxDimension     float64 // largest allowed outer dimension
	MinHoleDiameter  float64 // smallest drillable hole
	MinFilletRadius  float64 // smallest cuttable fillet
	MinWallThickness float64 // advisory wall thickness around features
	MaxFeatures      int     // cap on holes and on fillets, each
}

// DefaultLimits are the constraints used when no configuration overrides them.
func DefaultLimits() Limits {
	return Limits{
		MinDimension:     1.0,
		MaxDimension:     2000.0,
		MinHoleDiameter:  1.0,
		MinFilletRadius:  0.5,
		MinWallThickness: 2.0,
		MaxFeatures:      32,
	}
}

// maxDepthDiameterRatio is the advisory limit on hole depth relative to
// diameter; deeper holes need special tooling.
const maxDepthDiameterRatio = 10.0

// maxAspectRatio is the advisory limit on part slenderness.
const maxAspectRatio = 20.0

// Violation is a single failed manufacturability constraint. Rule names a
// stable identifier for the constraint; Message carries enough context to
// correct the input.
type Violation struct {
	Rule    string
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// Warning is an advisory finding that does not block generation.
type Warning struct {
	Rule    string
	Message string
}

// Result is the outcome of validating a part: either accepted (no
// violations) or rejected with one violation per distinct failing
// constraint. Warnings are advisory in both cases.
type Result struct {
	Violations []Violation
	Warnings   []Warning
}

// Accepted reports whether the part passed every blocking check.
func (r Result) Accepted() bool {
	return len(r.Violations) == 0
}

// Messages returns the violation messages in order.
func (r Result) Messages() []string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// Validate runs the full battery of checks against a part. Checks run in
// declaration order and all of them run regardless of earlier failures. A
// check that cannot evaluate because a required field is absent records a
// violation rather than being skipped.
func Validate(p intent.Part, lim Limits) Result {
	var res Result

	res.Violations = append(res.Violations, checkShape(p)...)
	res.Violations = append(res.Violations, checkMissingInformation(p)...)
	res.Violations = append(res.Violations, checkDimensions(p, lim)...)
	res.Violations = append(res.Violations, checkFeatureCounts(p, lim)...)
	res.Violations = append(res.Violations, checkHoles(p, lim)...)
	res.Violations = append(res.Violations, checkFillets(p, lim)...)

	res.Warnings = append(res.Warnings, adviseHoleDepth(p)...)
	res.Warnings = append(res.Warnings, adviseWallThickness(p, lim)...)
	res.Warnings = append(res.Warnings, adviseEdgeDistance(p, lim)...)
	res.Warnings = append(res.Warnings, adviseHoleSeparation(p, lim)...)
	res.Warnings = append(res.Warnings, adviseAspectRatio(p)...)

	return res
}

func checkShape(p intent.Part) []Violation {
	switch p.Shape {
	case intent.ShapeBox:
		return nil
	case "":
		return []Violation{{
			Rule:    "shape-required",
			Message: "part shape is required",
		}}
	default:
		return []Violation{{
			Rule:    "shape-supported",
			Message: fmt.Sprintf("unsupported shape %q: only %q is supported", p.Shape, intent.ShapeBox),
		}}
	}
}

func checkMissingInformation(p intent.Part) []Violation {
	var errs []Violation
	for _, field := range p.MissingInformation {
		errs = append(errs, Violation{
			Rule:    "missing-information",
			Message: fmt.Sprintf("interpretation left %q unresolved; supply it explicitly", field),
		})
	}
	return errs
}

func checkDimensions(p intent.Part, lim Limits) []Violation {
	if p.Dimensions == nil {
		return []Violation{{
			Rule:    "dimensions-required",
			Message: "part dimensions are required",
		}}
	}

	var errs []Violation
	d := *p.Dimensions
	for _, axis := range []struct {
		name string
		val  float64
	}{
		{"length", d.Length},
		{"width", d.Width},
		{"height", d.Height},
	} {
		if axis.val <= 0 {
			errs = append(errs, Violation{
				Rule:    "dimension-positive",
				Message: fmt.Sprintf("%s is %.4gmm, must be positive", axis.name, axis.val),
			})
			continue
		}
		if axis.val < lim.MinDimension || axis.val > lim.MaxDimension {
			errs = append(errs, Violation{
				Rule: "dimension-bounds",
				Message: fmt.Sprintf("%s %.4gmm is outside the manufacturable range %.4g-%.4gmm",
					axis.name, axis.val, lim.MinDimension, lim.MaxDimension),
			})
		}
	}
	return errs
}

func checkFeatureCounts(p intent.Part, lim Limits) []Violation {
	var errs []Violation
	if n := len(p.Holes); n > lim.MaxFeatures {
		errs = append(errs, Violation{
			Rule:    "feature-count",
			Message: fmt.Sprintf("%d holes exceed the limit of %d", n, lim.MaxFeatures),
		})
	}
	if n := len(p.Fillets); n > lim.MaxFeatures {
		errs = append(errs, Violation{
			Rule:    "feature-count",
			Message: fmt.Sprintf("%d fillets exceed the limit of %d", n, lim.MaxFeatures),
		})
	}
	return errs
}

func checkHoles(p intent.Part, lim Limits) []Violation {
	var errs []Violation
	for i, h := range p.Holes {
		if h.Diameter <= 0 {
			errs = append(errs, Violation{
				Rule:    "hole-diameter-positive",
				Message: fmt.Sprintf("hole %d: diameter %.4gmm must be positive", i, h.Diameter),
			})
		} else if h.Diameter < lim.MinHoleDiameter {
			errs = append(errs, Violation{
				Rule: "hole-diameter-min",
				Message: fmt.Sprintf("hole %d: diameter %.4gmm is below the minimum %.4gmm for machining",
					i, h.Diameter, lim.MinHoleDiameter),
			})
		}

		if h.Depth <= 0 {
			errs = append(errs, Violation{
				Rule:    "hole-depth-positive",
				Message: fmt.Sprintf("hole %d: depth %.4gmm must be positive", i, h.Depth),
			})
		}

		if h.Position != nil && h.Location != "" {
			errs = append(errs, Violation{
				Rule:    "hole-placement-conflict",
				Message: fmt.Sprintf("hole %d: both position and location are set; supply exactly one", i),
			})
		}

		// The remaining checks need valid dimensions to evaluate against.
		if p.Dimensions == nil {
			continue
		}
		d := *p.Dimensions

		if h.Depth > 0 && h.Depth > d.Height {
			errs = append(errs, Violation{
				Rule: "hole-depth-vs-height",
				Message: fmt.Sprintf("hole %d: depth %.4gmm exceeds part height %.4gmm",
					i, h.Depth, d.Height),
			})
		}

		crossMin := math.Min(d.Length, d.Width)
		if h.Diameter > 0 && h.Diameter >= crossMin {
			errs = append(errs, Violation{
				Rule: "hole-diameter-vs-cross-section",
				Message: fmt.Sprintf("hole %d: diameter %.4gmm must be smaller than the %.4gmm cross-section",
					i, h.Diameter, crossMin),
			})
		}

		if h.Position != nil && h.Diameter > 0 {
			r := h.Diameter / 2
			if math.Abs(h.Position.X)+r > d.Length/2 {
				errs = append(errs, Violation{
					Rule: "hole-footprint",
					Message: fmt.Sprintf("hole %d: footprint at x=%.4g extends past the part length bound ±%.4gmm",
						i, h.Position.X, d.Length/2),
				})
			}
			if math.Abs(h.Position.Y)+r > d.Width/2 {
				errs = append(errs, Violation{
					Rule: "hole-footprint",
					Message: fmt.Sprintf("hole %d: footprint at y=%.4g extends past the part width bound ±%.4gmm",
						i, h.Position.Y, d.Width/2),
				})
			}
		}
	}
	return errs
}

func checkFillets(p intent.Part, lim Limits) []Violation {
	var errs []Violation
	for i, f := range p.Fillets {
		if f.Radius <= 0 {
			errs = append(errs, Violation{
				Rule:    "fillet-radius-positive",
				Message: fmt.Sprintf("fillet %d: radius %.4gmm must be positive", i, f.Radius),
			})
		} else if f.Radius < lim.MinFilletRadius {
			errs = append(errs, Violation{
				Rule: "fillet-radius-min",
				Message: fmt.Sprintf("fillet %d: radius %.4gmm is below the minimum %.4gmm for machining",
					i, f.Radius, lim.MinFilletRadius),
			})
		}

		if p.Dimensions != nil && f.Radius > 0 {
			smallest := p.Dimensions.Min()
			if f.Radius >= smallest/2 {
				errs = append(errs, Violation{
					Rule: "fillet-radius-vs-dimension",
					Message: fmt.Sprintf("fillet %d: radius %.4gmm must be smaller than half the smallest dimension %.4gmm to avoid self-intersecting geometry",
						i, f.Radius, smallest),
				})
			}
		}

		errs = append(errs, checkEdgeSelector(i, f.Edges)...)
	}
	return errs
}

func checkEdgeSelector(i int, sel intent.EdgeSelector) []Violation {
	if sel.IsScope() {
		switch sel.EffectiveScope() {
		case intent.EdgesAll, intent.EdgesTop, intent.EdgesBottom:
			return nil
		default:
			return []Violation{{
				Rule: "fillet-edges",
				Message: fmt.Sprintf("fillet %d: unknown edge scope %q; use %q, %q, %q or an explicit edge list",
					i, sel.Scope, intent.EdgesAll, intent.EdgesTop, intent.EdgesBottom),
			}}
		}
	}

	var errs []Violation
	for _, e := range sel.Edges {
		if !isKnownEdge(e) {
			errs = append(errs, Violation{
				Rule:    "fillet-edges",
				Message: fmt.Sprintf("fillet %d: unknown edge %q", i, e),
			})
		}
	}
	return errs
}

func isKnownEdge(name string) bool {
	for _, e := range intent.BoxEdges {
		if e == name {
			return true
		}
	}
	return false
}

func adviseHoleDepth(p intent.Part) []Warning {
	var ws []Warning
	for i, h := range p.Holes {
		if h.Diameter <= 0 || h.Depth <= 0 {
			continue
		}
		if ratio := h.Depth / h.Diameter; ratio > maxDepthDiameterRatio {
			ws = append(ws, Warning{
				Rule: "hole-depth-ratio",
				Message: fmt.Sprintf("hole %d: depth-to-diameter ratio %.1f exceeds %.0f; may require special tooling",
					i, ratio, maxDepthDiameterRatio),
			})
		}
	}
	return ws
}

func adviseWallThickness(p intent.Part, lim Limits) []Warning {
	if p.Dimensions == nil {
		return nil
	}
	var ws []Warning
	for i, h := range p.Holes {
		if h.Depth <= 0 || h.Depth > p.Dimensions.Height {
			continue
		}
		remaining := p.Dimensions.Height - h.Depth
		if remaining > 0 && remaining < lim.MinWallThickness {
			ws = append(ws, Warning{
				Rule: "hole-wall-thickness",
				Message: fmt.Sprintf("hole %d: %.1fmm of material remains below the hole, less than the recommended %.1fmm",
					i, remaining, lim.MinWallThickness),
			})
		}
	}
	return ws
}

func adviseEdgeDistance(p intent.Part, lim Limits) []Warning {
	if p.Dimensions == nil {
		return nil
	}
	var ws []Warning
	for i, h := range p.Holes {
		if h.Position == nil || h.Diameter <= 0 {
			continue
		}
		minDist := math.Max(h.Diameter, lim.MinWallThickness)
		edgeX := p.Dimensions.Length/2 - math.Abs(h.Position.X)
		edgeY := p.Dimensions.Width/2 - math.Abs(h.Position.Y)
		if edgeX >= 0 && edgeX < minDist {
			ws = append(ws, Warning{
				Rule:    "hole-edge-distance",
				Message: fmt.Sprintf("hole %d: %.1fmm from the length edge; %.1fmm recommended", i, edgeX, minDist),
			})
		}
		if edgeY >= 0 && edgeY < minDist {
			ws = append(ws, Warning{
				Rule:    "hole-edge-distance",
				Message: fmt.Sprintf("hole %d: %.1fmm from the width edge; %.1fmm recommended", i, edgeY, minDist),
			})
		}
	}
	return ws
}

// adviseHoleSeparation reports hole pairs closer than the sum of their radii
// plus the wall-thickness allowance. Overlap is advisory only; rejecting it
// is out of scope for the rules engine.
func adviseHoleSeparation(p intent.Part, lim Limits) []Warning {
	var ws []Warning
	for i := 0; i < len(p.Holes); i++ {
		a := p.Holes[i]
		if a.Position == nil {
			continue
		}
		for j := i + 1; j < len(p.Holes); j++ {
			b := p.Holes[j]
			if b.Position == nil {
				continue
			}
			dx := a.Position.X - b.Position.X
			dy := a.Position.Y - b.Position.Y
			dist := math.Hypot(dx, dy)
			minSep := (a.Diameter+b.Diameter)/2 + lim.MinWallThickness
			if dist < minSep {
				ws = append(ws, Warning{
					Rule: "hole-separation",
					Message: fmt.Sprintf("holes %d and %d are %.1fmm apart; %.1fmm separation recommended",
						i, j, dist, minSep),
				})
			}
		}
	}
	return ws
}

func adviseAspectRatio(p intent.Part) []Warning {
	if p.Dimensions == nil {
		return nil
	}
	d := *p.Dimensions
	if d.Length <= 0 || d.Width <= 0 || d.Height <= 0 {
		return nil
	}
	largest := math.Max(d.Length, math.Max(d.Width, d.Height))
	ratio := largest / d.Min()
	if ratio > maxAspectRatio {
		return []Warning{{
			Rule: "aspect-ratio",
			Message: fmt.Sprintf("aspect ratio %.1f:1 exceeds %.0f:1; the part may be unstable during machining",
				ratio, maxAspectRatio),
		}}
	}
	return nil
}
