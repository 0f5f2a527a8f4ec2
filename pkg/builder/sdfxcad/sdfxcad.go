// Package sdfxcad implements the builder contract using the
// github.com/deadsy/sdfx SDF-based CAD library. It is the cross-platform
// "primary" engine: the part is modeled as a signed distance field,
// tessellated with marching cubes, and written as a binary STL file.
package sdfxcad

import (
	"fmt"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"partforge/pkg/builder"
	"partforge/pkg/intent"
)

// Compile-time interface check.
var _ builder.Builder = (*Builder)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// holeOvershoot extends drill cylinders past the top face so the boolean
// difference leaves no membrane at the surface.
const holeOvershoot = 0.1

// Builder is the sdfx-backed CAD engine.
type Builder struct {
	cells int
}

// New returns a Builder at the default mesh resolution.
func New() *Builder {
	return &Builder{cells: defaultMeshCells}
}

// NewWithResolution returns a Builder with a specific marching cubes cell
// count. Lower values tessellate faster at the cost of surface quality.
func NewWithResolution(cells int) *Builder {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &Builder{cells: cells}
}

// Ext returns ".stl".
func (b *Builder) Ext() string { return ".stl" }

// Build models the part and writes a binary STL file to path.
func (b *Builder) Build(part intent.Part, path string) error {
	s, err := b.solid(part)
	if err != nil {
		return &builder.Error{Engine: "sdfx", Msg: "modeling failed", Err: err}
	}

	render.ToSTL(s, path, render.NewMarchingCubesUniform(b.cells))

	// ToSTL reports write failures on its own logger, so confirm the
	// artifact actually landed.
	info, err := os.Stat(path)
	if err != nil {
		return &builder.Error{Engine: "sdfx", Msg: "STL export produced no file", Err: err}
	}
	if info.Size() == 0 {
		return &builder.Error{Engine: "sdfx", Msg: "STL export produced an empty file"}
	}
	return nil
}

// solid models the part as an SDF3. The box is centered at the origin so
// hole positions are interpreted directly in part coordinates.
func (b *Builder) solid(part intent.Part) (sdf.SDF3, error) {
	if part.Shape != intent.ShapeBox {
		return nil, fmt.Errorf("unsupported shape %q", part.Shape)
	}
	if part.Dimensions == nil {
		return nil, fmt.Errorf("part dimensions are required")
	}
	d := *part.Dimensions
	size := v3.Vec{X: d.Length, Y: d.Width, Z: d.Height}

	// An all-edge fillet is expressed as the box round radius. With several
	// all-edge fillets the largest radius wins.
	var allRound float64
	for _, f := range part.Fillets {
		if f.Edges.IsScope() && f.Edges.EffectiveScope() == intent.EdgesAll && f.Radius > allRound {
			allRound = f.Radius
		}
	}

	s, err := sdf.Box3D(size, allRound)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}

	for i, f := range part.Fillets {
		if !f.Edges.IsScope() {
			// Single-edge fillets are not expressible on an SDF; the COM
			// engine handles explicit edge sets.
			return nil, fmt.Errorf("fillet %d: explicit edge sets are not supported by the sdfx engine", i)
		}
		switch f.Edges.EffectiveScope() {
		case intent.EdgesAll:
			// Already folded into the box round radius.
		case intent.EdgesTop:
			s, err = filletFace(s, size, f.Radius, +1)
		case intent.EdgesBottom:
			s, err = filletFace(s, size, f.Radius, -1)
		default:
			err = fmt.Errorf("unknown edge scope %q", f.Edges.Scope)
		}
		if err != nil {
			return nil, fmt.Errorf("fillet %d: %w", i, err)
		}
	}

	for i, h := range part.Holes {
		s, err = drill(s, d, h)
		if err != nil {
			return nil, fmt.Errorf("hole %d: %w", i, err)
		}
	}

	return s, nil
}

// filletFace rounds the edges bordering the top (sign=+1) or bottom
// (sign=-1) face: the solid is cut one radius short of the face and the gap
// is filled from an all-edge rounded box, whose rounding inside that slab is
// exactly the face-edge fillet. Vertical edges blend into the rounding
// within the slab, matching how a cutter finishes the corner.
func filletFace(s sdf.SDF3, size v3.Vec, radius float64, sign float64) (sdf.SDF3, error) {
	rounded, err := sdf.Box3D(size, radius)
	if err != nil {
		return nil, err
	}
	at := v3.Vec{X: 0, Y: 0, Z: sign * (size.Z/2 - radius)}
	away := v3.Vec{X: 0, Y: 0, Z: -sign}
	toward := v3.Vec{X: 0, Y: 0, Z: sign}

	kept := sdf.Cut3D(s, at, away)
	slab := sdf.Cut3D(rounded, at, toward)
	return sdf.Union3D(kept, slab), nil
}

// drill subtracts one hole cylinder. Holes are drilled downward from the
// top face; a symbolic location (or no placement at all) resolves to the
// center of the face.
func drill(s sdf.SDF3, d intent.Dimensions, h intent.Hole) (sdf.SDF3, error) {
	x, y := holeXY(h)

	height := h.Depth + holeOvershoot
	cyl, err := sdf.Cylinder3D(height, h.Diameter/2, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}

	// Span z from (top - depth) to (top + overshoot).
	zCenter := d.Height/2 + (holeOvershoot-h.Depth)/2
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: zCenter})
	return sdf.Difference3D(s, sdf.Transform3D(cyl, m)), nil
}

// holeXY resolves a hole's placement in the cross-section. Only the
// "center" tag carries meaning today; unrecognized tags and absent
// placement both fall back to the center of the top face.
func holeXY(h intent.Hole) (x, y float64) {
	if h.Position != nil {
		return h.Position.X, h.Position.Y
	}
	return 0, 0
}
