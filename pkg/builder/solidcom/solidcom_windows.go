//go:build windows

package solidcom

import (
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"partforge/pkg/builder"
	"partforge/pkg/intent"
)

// Compile-time interface check.
var _ builder.Builder = (*Builder)(nil)

// mm converts millimeters to the meters the SolidWorks API expects.
func mm(v float64) float64 { return v / 1000.0 }

// Builder drives SolidWorks through its COM automation interface.
type Builder struct{}

// New verifies the SldWorks.Application ProgID is registered without
// launching the application. A missing registration wraps
// ErrCOMUnavailable so the registry can degrade gracefully.
func New() (builder.Builder, error) {
	if err := ole.CoInitialize(0); err != nil {
		return nil, fmt.Errorf("%w: COM initialization failed: %v", ErrCOMUnavailable, err)
	}
	defer ole.CoUninitialize()

	if _, err := ole.CLSIDFromProgID(progID); err != nil {
		return nil, fmt.Errorf("%w: %s is not registered: %v", ErrCOMUnavailable, progID, err)
	}
	return &Builder{}, nil
}

// Ext returns ".sldprt".
func (b *Builder) Ext() string { return ".sldprt" }

// Build creates the part in a fresh SolidWorks document and saves it to
// path. COM apartments are per-thread, so the OS thread is pinned for the
// duration of the call.
func (b *Builder) Build(part intent.Part, path string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitialize(0); err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "COM initialization failed", Err: err}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "could not start SolidWorks", Err: err}
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "SolidWorks exposes no automation interface", Err: err}
	}
	defer app.Release()

	// Headless generation; the UI only slows the build down.
	if _, err := oleutil.PutProperty(app, "Visible", false); err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "could not hide the application window", Err: err}
	}

	model, err := b.newPartDocument(app)
	if err != nil {
		return err
	}
	defer func() {
		if title, terr := oleutil.GetProperty(model, "GetTitle"); terr == nil {
			oleutil.CallMethod(app, "CloseDoc", title.ToString())
		}
		model.Release()
	}()

	if err := b.extrudeBox(model, *part.Dimensions); err != nil {
		return err
	}
	for i, h := range part.Holes {
		if err := b.cutHole(model, h); err != nil {
			return &builder.Error{Engine: "solidworks", Msg: fmt.Sprintf("hole %d failed", i), Err: err}
		}
	}
	for i, f := range part.Fillets {
		if err := b.fillet(model, f); err != nil {
			return &builder.Error{Engine: "solidworks", Msg: fmt.Sprintf("fillet %d failed", i), Err: err}
		}
	}

	saved, err := oleutil.CallMethod(model, "SaveAs", path)
	if err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "SaveAs failed", Err: err}
	}
	if ok, _ := saved.Value().(bool); !ok {
		return &builder.Error{Engine: "solidworks", Msg: fmt.Sprintf("SolidWorks refused to save %s", path)}
	}
	return nil
}

// newPartDocument creates an empty part document from the default template.
func (b *Builder) newPartDocument(app *ole.IDispatch) (*ole.IDispatch, error) {
	tmpl, err := oleutil.CallMethod(app, "GetUserPreferenceStringValue", 0)
	if err != nil {
		return nil, &builder.Error{Engine: "solidworks", Msg: "no default part template", Err: err}
	}
	doc, err := oleutil.CallMethod(app, "NewDocument", tmpl.ToString(), 0, 0, 0)
	if err != nil {
		return nil, &builder.Error{Engine: "solidworks", Msg: "NewDocument failed", Err: err}
	}
	model := doc.ToIDispatch()
	if model == nil {
		return nil, &builder.Error{Engine: "solidworks", Msg: "NewDocument returned no model"}
	}
	return model, nil
}

// extrudeBox sketches a centered rectangle on the top plane and extrudes it
// downward to the part height.
func (b *Builder) extrudeBox(model *ole.IDispatch, d intent.Dimensions) error {
	ext, err := oleutil.GetProperty(model, "Extension")
	if err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "no model extension", Err: err}
	}
	extension := ext.ToIDispatch()
	defer extension.Release()

	if _, err := oleutil.CallMethod(extension, "SelectByID2",
		"Top Plane", "PLANE", 0, 0, 0, false, 0, nil, 0); err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "could not select Top Plane", Err: err}
	}

	if _, err := oleutil.CallMethod(model, "InsertSketch2", true); err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "could not open box sketch", Err: err}
	}
	if _, err := oleutil.CallMethod(model, "CreateCenterRectangle",
		0.0, 0.0, 0.0, mm(d.Length)/2, mm(d.Width)/2, 0.0); err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "could not sketch the base rectangle", Err: err}
	}
	if _, err := oleutil.CallMethod(model, "InsertSketch2", true); err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "could not close box sketch", Err: err}
	}

	if _, err := oleutil.CallMethod(model, "FeatureExtrusion2",
		true, false, false, 0, 0, mm(d.Height), 0,
		false, false, false, false, 0, 0,
		false, false, 0, 0, false, false, false); err != nil {
		return &builder.Error{Engine: "solidworks", Msg: "box extrusion failed", Err: err}
	}
	return nil
}

// cutHole sketches a circle on the top face and cut-extrudes it to depth.
func (b *Builder) cutHole(model *ole.IDispatch, h intent.Hole) error {
	x, y := 0.0, 0.0
	if h.Position != nil {
		x, y = h.Position.X, h.Position.Y
	}

	ext, err := oleutil.GetProperty(model, "Extension")
	if err != nil {
		return err
	}
	extension := ext.ToIDispatch()
	defer extension.Release()

	if _, err := oleutil.CallMethod(extension, "SelectByID2",
		"", "FACE", 0, 0, mm(1), false, 0, nil, 0); err != nil {
		return fmt.Errorf("selecting the top face: %w", err)
	}
	if _, err := oleutil.CallMethod(model, "InsertSketch2", true); err != nil {
		return fmt.Errorf("opening hole sketch: %w", err)
	}
	if _, err := oleutil.CallMethod(model, "CreateCircle",
		mm(x), mm(y), 0.0, mm(x), mm(y)+mm(h.Diameter)/2, 0.0); err != nil {
		return fmt.Errorf("sketching hole circle: %w", err)
	}
	if _, err := oleutil.CallMethod(model, "InsertSketch2", true); err != nil {
		return fmt.Errorf("closing hole sketch: %w", err)
	}

	if _, err := oleutil.CallMethod(model, "FeatureCut3",
		true, false, false, 0, 0, mm(h.Depth), 0,
		false, false, false, false, 0, 0,
		false, false, 0, 0, false); err != nil {
		return fmt.Errorf("cut extrusion: %w", err)
	}
	return nil
}

// fillet selects the requested edges and applies a constant-radius fillet.
func (b *Builder) fillet(model *ole.IDispatch, f intent.Fillet) error {
	ext, err := oleutil.GetProperty(model, "Extension")
	if err != nil {
		return err
	}
	extension := ext.ToIDispatch()
	defer extension.Release()

	for _, name := range edgeNames(f.Edges) {
		if _, err := oleutil.CallMethod(extension, "SelectByID2",
			name, "EDGE", 0, 0, 0, true, 0, nil, 0); err != nil {
			return fmt.Errorf("selecting edge %s: %w", name, err)
		}
	}

	if _, err := oleutil.CallMethod(model, "FeatureFillet",
		2, mm(f.Radius), 0, 0, 0, 0,
		false, false, false, false, false, false, false); err != nil {
		return fmt.Errorf("fillet feature: %w", err)
	}
	return nil
}

// edgeNames maps an edge selector onto SolidWorks edge identifiers. The
// base extrusion yields twelve edges numbered in creation order: 1-4 around
// the top face, 5-8 vertical, 9-12 around the bottom face.
func edgeNames(sel intent.EdgeSelector) []string {
	if !sel.IsScope() {
		names := make([]string, 0, len(sel.Edges))
		for i := range sel.Edges {
			names = append(names, fmt.Sprintf("Edge%d", i+1))
		}
		return names
	}
	switch sel.EffectiveScope() {
	case intent.EdgesTop:
		return []string{"Edge1", "Edge2", "Edge3", "Edge4"}
	case intent.EdgesBottom:
		return []string{"Edge9", "Edge10", "Edge11", "Edge12"}
	default: // all
		names := make([]string, 0, 12)
		for i := 1; i <= 12; i++ {
			names = append(names, fmt.Sprintf("Edge%d", i))
		}
		return names
	}
}
