package intent

import (
	"encoding/json"
	"fmt"
)

// ShapeBox is the only base shape currently supported.
const ShapeBox = "box"

// Dimensions are the outer dimensions of a part in millimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Min returns the smallest of the three dimensions.
func (d Dimensions) Min() float64 {
	m := d.Length
	if d.Width < m {
		m = d.Width
	}
	if d.Height < m {
		m = d.Height
	}
	return m
}

// Position is a point relative to the part origin. The part is centered at
// the origin, so the cross-section spans ±Length/2 in X and ±Width/2 in Y.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hole is a drilled feature. Either Position (explicit coordinates) or
// Location (a symbolic tag such as "center" left by the interpreter) places
// it; setting both is rejected during validation. With neither, backends
// drill at the center of the top face.
type Hole struct {
	Diameter float64   `json:"diameter"`
	Depth    float64   `json:"depth"`
	Position *Position `json:"position,omitempty"`
	Location string    `json:"location,omitempty"`
}

// EdgeScope selects a named group of box edges.
type EdgeScope string

const (
	EdgesAll    EdgeScope = "all"
	EdgesTop    EdgeScope = "top"
	EdgesBottom EdgeScope = "bottom"
)

// BoxEdges names the twelve edges of a box as pairs of adjacent faces.
var BoxEdges = []string{
	"top-front", "top-back", "top-left", "top-right",
	"bottom-front", "bottom-back", "bottom-left", "bottom-right",
	"front-left", "front-right", "back-left", "back-right",
}

// EdgeSelector selects which edges a fillet applies to: a scope (all, top,
// bottom) or an explicit set of named edges. On the wire a scope is a plain
// string and an explicit set is an array of edge names.
type EdgeSelector struct {
	Scope EdgeScope
	Edges []string
}

// IsScope reports whether the selector is scope-based (explicit set empty).
func (s EdgeSelector) IsScope() bool {
	return len(s.Edges) == 0
}

// EffectiveScope returns the selector's scope, defaulting an unset scope-based
// selector to EdgesAll. Explicit edge sets have no scope.
func (s EdgeSelector) EffectiveScope() EdgeScope {
	if !s.IsScope() {
		return ""
	}
	if s.Scope == "" {
		return EdgesAll
	}
	return s.Scope
}

// String renders the selector for messages and logs.
func (s EdgeSelector) String() string {
	if s.IsScope() {
		return string(s.Scope)
	}
	return fmt.Sprintf("%v", s.Edges)
}

// UnmarshalJSON accepts either a scope string ("all") or an array of edge
// names (["top-front","top-back"]).
func (s *EdgeSelector) UnmarshalJSON(data []byte) error {
	var scope string
	if err := json.Unmarshal(data, &scope); err == nil {
		s.Scope = EdgeScope(scope)
		s.Edges = nil
		return nil
	}
	var edges []string
	if err := json.Unmarshal(data, &edges); err != nil {
		return fmt.Errorf("edges: expected a scope string or an array of edge names")
	}
	s.Scope = ""
	s.Edges = edges
	return nil
}

// MarshalJSON emits the same wire forms UnmarshalJSON accepts.
func (s EdgeSelector) MarshalJSON() ([]byte, error) {
	if s.IsScope() {
		return json.Marshal(string(s.Scope))
	}
	return json.Marshal(s.Edges)
}

// Fillet rounds a set of edges with the given radius in millimeters.
type Fillet struct {
	Radius float64      `json:"radius"`
	Edges  EdgeSelector `json:"edges"`
}

// Part is the structured specification of a mechanical part, independent of
// how it was produced. It is constructed once per request, passed by value
// through validation and generation, and discarded afterwards.
//
// MissingInformation lists fields the upstream interpreter could not resolve
// from the source text; a non-empty list fails validation.
type Part struct {
	Shape              string      `json:"shape"`
	Dimensions         *Dimensions `json:"dimensions,omitempty"`
	Holes              []Hole      `json:"holes,omitempty"`
	Fillets            []Fillet    `json:"fillets,omitempty"`
	Material           string      `json:"material,omitempty"`
	MissingInformation []string    `json:"missing_information,omitempty"`
}
