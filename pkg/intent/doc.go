// Package intent defines the canonical data shapes flowing through the
// generation pipeline: part dimensions, hole and fillet features, and the
// aggregate Part produced by the natural-language interpreter or supplied
// directly by a caller. The types here carry no behavior beyond JSON
// marshaling; manufacturability checks live in pkg/rules.
package intent
