package interaction

import "recipechain/internal/geom"

// TargetKind tells nodes and edges apart
type TargetKind string

const (
	TargetNone TargetKind = ""
	TargetNode TargetKind = "node"
	TargetEdge TargetKind = "edge"
)

// Target is the node or edge under the pointer, hovered or selected
type Target struct {
	Kind TargetKind `json:"kind" validate:"omitempty,oneof=node edge"`
	ID   string     `json:"id,omitempty"`
}

// NodeTarget targets a node
func NodeTarget(id string) Target {
	return Target{Kind: TargetNode, ID: id}
}

// EdgeTarget targets an edge
func EdgeTarget(id string) Target {
	return Target{Kind: TargetEdge, ID: id}
}

// IsZero reports whether t targets nothing
func (t Target) IsZero() bool {
	return t.Kind == TargetNone
}

// IsNode reports whether t targets a node
func (t Target) IsNode() bool {
	return t.Kind == TargetNode
}

// IsEdge reports whether t targets an edge
func (t Target) IsEdge() bool {
	return t.Kind == TargetEdge
}

// EventKind identifies an input event
type EventKind string

const (
	PointerMove  EventKind = "pointer_move"
	PointerDown  EventKind = "pointer_down"
	PointerUp    EventKind = "pointer_up"
	PointerLeave EventKind = "pointer_leave"
	Click        EventKind = "click"
	DoubleClick  EventKind = "double_click"
	Wheel        EventKind = "wheel"
	PinchStart   EventKind = "pinch_start"
	Pinch        EventKind = "pinch"
	PinchEnd     EventKind = "pinch_end"
)

// Event is one pointer or gesture input in screen coordinates. Target is
// optional; when nil the controller hit-tests the pointer position.
// Scale is the pinch factor relative to the start of the pinch.
type Event struct {
	Kind   EventKind `json:"kind" validate:"required,oneof=pointer_move pointer_down pointer_up pointer_leave click double_click wheel pinch_start pinch pinch_end"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	DeltaY float64   `json:"delta_y,omitempty"`
	Scale  float64   `json:"scale,omitempty"`
	Target *Target   `json:"target,omitempty"`
}

// Point returns the event position
func (e Event) Point() geom.Point {
	return geom.Pt(e.X, e.Y)
}

// Change reports which parts of the interaction state an operation touched
type Change uint8

const (
	ChangeView Change = 1 << iota
	ChangeHover
	ChangeSelection
	ChangeLayout
)

// Has reports whether c includes flag
func (c Change) Has(flag Change) bool {
	return c&flag != 0
}
