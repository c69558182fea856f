// Package interaction turns pointer and gesture input into hover,
// selection, drag and pan/zoom state for a chain view.
package interaction

import (
	"math"
	"time"

	"recipechain/internal/geom"
)

const (
	MinZoom = 0.1
	MaxZoom = 3

	// ZoomStep is the factor applied by ZoomIn and ZoomOut
	ZoomStep = 1.5

	// DragThreshold is how far, in screen pixels, a press must travel
	// before it becomes a drag or pan
	DragThreshold = 3

	// FitPadding is the total margin left around the graph by FitToScreen
	FitPadding = 100
	// FitMaxZoom caps how far FitToScreen zooms in
	FitMaxZoom = 2

	// WheelIdle is how long after the last wheel event the view still
	// counts as zooming
	WheelIdle = 150 * time.Millisecond

	wheelSensitivity = 0.002
)

// State is the coarse interaction state
type State int

const (
	Idle State = iota
	Hovering
	Selected
	Dragging
	Panning
	Zooming
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	case Panning:
		return "panning"
	case Zooming:
		return "zooming"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Layout is the part of the simulation the controller drives while dragging
type Layout interface {
	Position(id string) (geom.Point, bool)
	Pin(id string, p geom.Point) bool
	Release(id string) bool
	Reheat()
	Cool()
}

// HitTester finds the node or edge at a world position
type HitTester interface {
	TargetAt(world geom.Point) Target
}

type gesture int

const (
	gestureNone gesture = iota
	gesturePressNode
	gesturePressCanvas
	gestureDrag
	gesturePan
	gesturePinch
)

// Snapshot is a read-only copy of the controller state
type Snapshot struct {
	State     State          `json:"state"`
	Hover     Target         `json:"hover"`
	Selection Target         `json:"selection"`
	Transform geom.Transform `json:"transform"`
	Viewport  geom.Size      `json:"viewport"`
}

// Controller holds the interaction state of one view. It is not safe for
// concurrent use.
type Controller struct {
	layout Layout
	hit    HitTester

	viewport  geom.Size
	transform geom.Transform

	hover     Target
	selection Target

	gesture       gesture
	pressScreen   geom.Point
	pressTarget   Target
	lastScreen    geom.Point
	grabOffset    geom.Point
	pinchBase     geom.Transform
	suppressClick bool
	wheelUntil    time.Time

	now func() time.Time
}

// NewController creates an idle controller for a viewport
func NewController(viewport geom.Size) *Controller {
	return &Controller{
		viewport:  viewport,
		transform: geom.Identity,
		now:       time.Now,
	}
}

// Attach connects the controller to the current layout and its hit
// tester. Either may be nil when no graph is shown.
func (c *Controller) Attach(layout Layout, hit HitTester) {
	c.layout = layout
	c.hit = hit
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:     c.State(),
		Hover:     c.hover,
		Selection: c.selection,
		Transform: c.transform,
		Viewport:  c.viewport,
	}
}

// State derives the coarse state from the active gesture and targets
func (c *Controller) State() State {
	switch c.gesture {
	case gestureDrag:
		return Dragging
	case gesturePan:
		return Panning
	case gesturePinch:
		return Zooming
	}
	if c.now().Before(c.wheelUntil) {
		return Zooming
	}
	if !c.selection.IsZero() {
		return Selected
	}
	if !c.hover.IsZero() {
		return Hovering
	}
	return Idle
}

// Hover returns the hovered target
func (c *Controller) Hover() Target { return c.hover }

// Selection returns the selected target
func (c *Controller) Selection() Target { return c.selection }

// Transform returns the view transform
func (c *Controller) Transform() geom.Transform { return c.transform }

// Viewport returns the screen size
func (c *Controller) Viewport() geom.Size { return c.viewport }

// Panel returns the target the info panel describes: the selection if
// there is one, otherwise the hover. selected tells which it is.
func (c *Controller) Panel() (t Target, selected bool) {
	if !c.selection.IsZero() {
		return c.selection, true
	}
	return c.hover, false
}

// Handle applies one input event
func (c *Controller) Handle(ev Event) Change {
	p := ev.Point()
	switch ev.Kind {
	case PointerMove:
		return c.move(ev, p)
	case PointerDown:
		return c.down(ev, p)
	case PointerUp:
		return c.up()
	case PointerLeave:
		return c.leave()
	case Click:
		if c.gesture != gestureNone {
			return 0
		}
		if c.suppressClick {
			c.suppressClick = false
			return 0
		}
		return c.click(c.resolve(ev, p))
	case DoubleClick:
		return 0
	case Wheel:
		if c.gesture != gestureNone {
			return 0
		}
		c.wheelUntil = c.now().Add(WheelIdle)
		return c.zoomAt(math.Pow(2, -ev.DeltaY*wheelSensitivity), p)
	case PinchStart:
		if c.gesture != gestureNone {
			return 0
		}
		c.gesture = gesturePinch
		c.pinchBase = c.transform
		return 0
	case Pinch:
		if c.gesture != gesturePinch || ev.Scale <= 0 {
			return 0
		}
		c.transform = c.pinchBase.ScaleAt(ev.Scale, p, MinZoom, MaxZoom)
		return ChangeView
	case PinchEnd:
		if c.gesture == gesturePinch {
			c.gesture = gestureNone
		}
		return 0
	}
	return 0
}

func (c *Controller) resolve(ev Event, p geom.Point) Target {
	if ev.Target != nil {
		return *ev.Target
	}
	if c.hit == nil {
		return Target{}
	}
	return c.hit.TargetAt(c.transform.Invert(p))
}

func (c *Controller) move(ev Event, p geom.Point) Change {
	defer func() { c.lastScreen = p }()

	switch c.gesture {
	case gesturePressNode:
		if p.Dist(c.pressScreen) <= DragThreshold {
			return 0
		}
		return c.startDrag(p)
	case gestureDrag:
		return c.dragTo(p)
	case gesturePressCanvas:
		if p.Dist(c.pressScreen) <= DragThreshold {
			return 0
		}
		c.gesture = gesturePan
		c.transform = c.transform.Translate(p.X-c.pressScreen.X, p.Y-c.pressScreen.Y)
		return ChangeView
	case gesturePan:
		c.transform = c.transform.Translate(p.X-c.lastScreen.X, p.Y-c.lastScreen.Y)
		return ChangeView
	case gesturePinch:
		return 0
	}

	t := c.resolve(ev, p)
	if t.IsNode() && t == c.selection {
		t = Target{}
	}
	return c.setHover(t)
}

func (c *Controller) down(ev Event, p geom.Point) Change {
	if c.gesture != gestureNone {
		return 0
	}
	c.suppressClick = false
	c.pressScreen = p
	c.lastScreen = p
	c.pressTarget = c.resolve(ev, p)
	if c.pressTarget.IsNode() && c.layout != nil {
		c.gesture = gesturePressNode
	} else {
		c.gesture = gesturePressCanvas
	}
	return 0
}

func (c *Controller) up() Change {
	if c.gesture == gesturePinch {
		return 0
	}
	g := c.gesture
	target := c.pressTarget
	c.gesture = gestureNone
	c.pressTarget = Target{}

	switch g {
	case gestureDrag:
		c.suppressClick = true
		return c.endDrag(target)
	case gesturePan:
		c.suppressClick = true
		return 0
	case gesturePressNode, gesturePressCanvas:
		return c.click(target)
	}
	return 0
}

func (c *Controller) leave() Change {
	var ch Change
	switch c.gesture {
	case gestureDrag:
		ch |= c.endDrag(c.pressTarget)
		c.gesture = gestureNone
		c.pressTarget = Target{}
	case gesturePressNode, gesturePressCanvas, gesturePan:
		c.gesture = gestureNone
		c.pressTarget = Target{}
	}
	return ch | c.setHover(Target{})
}

func (c *Controller) startDrag(p geom.Point) Change {
	pos, ok := c.layout.Position(c.pressTarget.ID)
	if !ok {
		c.gesture = gesturePressCanvas
		return 0
	}
	c.gesture = gestureDrag
	c.grabOffset = pos.Sub(c.transform.Invert(c.pressScreen))
	c.layout.Reheat()
	return c.dragTo(p)
}

func (c *Controller) dragTo(p geom.Point) Change {
	world := c.transform.Invert(p).Add(c.grabOffset)
	c.layout.Pin(c.pressTarget.ID, world)
	return ChangeLayout
}

func (c *Controller) endDrag(t Target) Change {
	if c.layout == nil {
		return 0
	}
	c.layout.Release(t.ID)
	c.layout.Cool()
	return ChangeLayout
}

func (c *Controller) click(t Target) Change {
	switch t.Kind {
	case TargetNode:
		return c.SelectNode(t.ID)
	case TargetEdge:
		return c.SelectEdge(t.ID)
	default:
		return c.ClearSelection()
	}
}

func (c *Controller) setHover(t Target) Change {
	if c.hover == t {
		return 0
	}
	c.hover = t
	return ChangeHover
}

func (c *Controller) setSelection(t Target) Change {
	if c.selection == t {
		return 0
	}
	c.selection = t
	return ChangeSelection
}

// SelectNode selects a node, replacing any selected edge, and clears hover
func (c *Controller) SelectNode(id string) Change {
	return c.setSelection(NodeTarget(id)) | c.setHover(Target{})
}

// SelectEdge selects an edge, replacing any selected node, and clears hover
func (c *Controller) SelectEdge(id string) Change {
	return c.setSelection(EdgeTarget(id)) | c.setHover(Target{})
}

// ClearSelection drops the selection
func (c *Controller) ClearSelection() Change {
	return c.setSelection(Target{})
}

// Pan shifts the view by a screen offset
func (c *Controller) Pan(dx, dy float64) Change {
	if dx == 0 && dy == 0 {
		return 0
	}
	c.transform = c.transform.Translate(dx, dy)
	return ChangeView
}

// ZoomBy scales the view about the viewport centre
func (c *Controller) ZoomBy(factor float64) Change {
	if factor <= 0 {
		return 0
	}
	return c.zoomAt(factor, c.viewport.Center())
}

// ZoomIn zooms in one step
func (c *Controller) ZoomIn() Change { return c.ZoomBy(ZoomStep) }

// ZoomOut zooms out one step
func (c *Controller) ZoomOut() Change { return c.ZoomBy(1 / ZoomStep) }

// ResetView restores the identity transform
func (c *Controller) ResetView() Change {
	return c.setTransform(geom.Identity)
}

// FitToScreen centres bounds in the viewport. An empty graph leaves the
// view unchanged.
func (c *Controller) FitToScreen(bounds geom.Rect, ok bool) Change {
	if !ok {
		return 0
	}
	t := geom.Fit(bounds, c.viewport, FitPadding, FitMaxZoom)
	if k := geom.Clamp(t.K, MinZoom, MaxZoom); k != t.K {
		center := bounds.Center()
		t = geom.Transform{
			X: c.viewport.Width/2 - center.X*k,
			Y: c.viewport.Height/2 - center.Y*k,
			K: k,
		}
	}
	return c.setTransform(t)
}

// SetTransform replaces the view transform, clamping its scale
func (c *Controller) SetTransform(t geom.Transform) Change {
	t.K = geom.Clamp(t.K, MinZoom, MaxZoom)
	return c.setTransform(t)
}

// Resize updates the viewport
func (c *Controller) Resize(viewport geom.Size) Change {
	if c.viewport == viewport {
		return 0
	}
	c.viewport = viewport
	return ChangeView
}

// Reset clears hover, selection and any gesture in progress and restores
// the identity view. It is called when the target recipe changes.
func (c *Controller) Reset() Change {
	var ch Change
	if c.gesture == gestureDrag {
		ch |= c.endDrag(c.pressTarget)
	}
	c.gesture = gestureNone
	c.pressTarget = Target{}
	c.suppressClick = false
	c.wheelUntil = time.Time{}
	ch |= c.setHover(Target{})
	ch |= c.setSelection(Target{})
	ch |= c.setTransform(geom.Identity)
	return ch
}

func (c *Controller) zoomAt(factor float64, anchor geom.Point) Change {
	return c.setTransform(c.transform.ScaleAt(factor, anchor, MinZoom, MaxZoom))
}

func (c *Controller) setTransform(t geom.Transform) Change {
	if c.transform == t {
		return 0
	}
	c.transform = t
	return ChangeView
}
