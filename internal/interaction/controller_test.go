package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechain/internal/geom"
)

type fakeLayout struct {
	positions map[string]geom.Point
	pinned    map[string]bool
	reheats   int
	cools     int
}

func newFakeLayout() *fakeLayout {
	return &fakeLayout{
		positions: map[string]geom.Point{
			"1": geom.Pt(100, 100),
			"2": geom.Pt(400, 100),
		},
		pinned: map[string]bool{},
	}
}

func (f *fakeLayout) Position(id string) (geom.Point, bool) {
	p, ok := f.positions[id]
	return p, ok
}

func (f *fakeLayout) Pin(id string, p geom.Point) bool {
	f.positions[id] = p
	f.pinned[id] = true
	return true
}

func (f *fakeLayout) Release(id string) bool {
	delete(f.pinned, id)
	return true
}

func (f *fakeLayout) Reheat() { f.reheats++ }
func (f *fakeLayout) Cool()   { f.cools++ }

// hitter reports node "1" within 50 units of (100,100) and edge "e" on the
// segment y=300
type hitter struct{}

func (hitter) TargetAt(p geom.Point) Target {
	if p.Dist(geom.Pt(100, 100)) < 50 {
		return NodeTarget("1")
	}
	if p.Y > 295 && p.Y < 305 {
		return EdgeTarget("e")
	}
	return Target{}
}

func newTestController() (*Controller, *fakeLayout) {
	l := newFakeLayout()
	c := NewController(geom.Size{Width: 1000, Height: 600})
	c.Attach(l, hitter{})
	return c, l
}

func ev(kind EventKind, x, y float64) Event {
	return Event{Kind: kind, X: x, Y: y}
}

func click(c *Controller, x, y float64) Change {
	return c.Handle(ev(PointerDown, x, y)) | c.Handle(ev(PointerUp, x, y))
}

func TestHover(t *testing.T) {
	c, _ := newTestController()

	ch := c.Handle(ev(PointerMove, 105, 100))
	assert.True(t, ch.Has(ChangeHover))
	assert.Equal(t, NodeTarget("1"), c.Hover())
	assert.Equal(t, Hovering, c.State())

	c.Handle(ev(PointerMove, 600, 300))
	assert.Equal(t, EdgeTarget("e"), c.Hover())

	c.Handle(ev(PointerMove, 600, 500))
	assert.True(t, c.Hover().IsZero())
	assert.Equal(t, Idle, c.State())

	c.Handle(ev(PointerMove, 100, 100))
	c.Handle(ev(PointerLeave, 0, 0))
	assert.True(t, c.Hover().IsZero())
}

func TestSelectionExclusivity(t *testing.T) {
	c, _ := newTestController()

	c.Handle(ev(PointerMove, 100, 100))
	ch := click(c, 100, 100)
	assert.True(t, ch.Has(ChangeSelection))
	assert.Equal(t, NodeTarget("1"), c.Selection())
	assert.True(t, c.Hover().IsZero(), "selecting a node clears hover")
	assert.Equal(t, Selected, c.State())

	click(c, 600, 300)
	assert.Equal(t, EdgeTarget("e"), c.Selection())

	click(c, 100, 100)
	assert.Equal(t, NodeTarget("1"), c.Selection())

	click(c, 800, 500)
	assert.True(t, c.Selection().IsZero(), "background click clears selection")
	assert.Equal(t, Idle, c.State())
}

func TestHoverAndSelectionIndependent(t *testing.T) {
	c, _ := newTestController()
	click(c, 100, 100)

	c.Handle(ev(PointerMove, 100, 100))
	assert.True(t, c.Hover().IsZero(), "hovering the selected node does not set hover")

	c.Handle(ev(PointerMove, 600, 300))
	assert.Equal(t, EdgeTarget("e"), c.Hover())
	assert.Equal(t, NodeTarget("1"), c.Selection())

	panel, selected := c.Panel()
	assert.Equal(t, NodeTarget("1"), panel)
	assert.True(t, selected)

	c.ClearSelection()
	panel, selected = c.Panel()
	assert.Equal(t, EdgeTarget("e"), panel)
	assert.False(t, selected)
}

func TestHoverOnSelectedEdge(t *testing.T) {
	c, _ := newTestController()
	click(c, 600, 300)
	require.Equal(t, EdgeTarget("e"), c.Selection())

	c.Handle(ev(PointerMove, 600, 300))
	assert.Equal(t, EdgeTarget("e"), c.Hover(), "only a selected node suppresses hover")

	panel, selected := c.Panel()
	assert.Equal(t, EdgeTarget("e"), panel)
	assert.True(t, selected)
}

func TestDragPinsAndReleases(t *testing.T) {
	c, l := newTestController()

	c.Handle(ev(PointerDown, 110, 100))
	ch := c.Handle(ev(PointerMove, 112, 100))
	assert.Equal(t, Change(0), ch, "movement under the threshold is not a drag")

	ch = c.Handle(ev(PointerMove, 210, 150))
	assert.True(t, ch.Has(ChangeLayout))
	assert.Equal(t, Dragging, c.State())
	assert.Equal(t, 1, l.reheats)
	assert.True(t, l.pinned["1"])
	assert.Equal(t, geom.Pt(200, 150), l.positions["1"], "grab offset is kept")

	c.Handle(ev(PointerMove, 310, 250))
	assert.Equal(t, geom.Pt(300, 250), l.positions["1"])

	// presses during a drag are ignored
	assert.Equal(t, Change(0), c.Handle(ev(PointerDown, 600, 500)))

	ch = c.Handle(ev(PointerUp, 310, 250))
	assert.True(t, ch.Has(ChangeLayout))
	assert.False(t, ch.Has(ChangeSelection), "a drag is not a click")
	assert.False(t, l.pinned["1"])
	assert.Equal(t, 1, l.cools)
	assert.Equal(t, geom.Pt(300, 250), l.positions["1"])
	assert.True(t, c.Selection().IsZero())

	assert.Equal(t, Change(0), c.Handle(ev(Click, 310, 250)), "click after a drag is suppressed")
	assert.True(t, c.Selection().IsZero())
}

func TestDragUnderZoom(t *testing.T) {
	c, l := newTestController()
	c.SetTransform(geom.Transform{X: 0, Y: 0, K: 2})

	c.Handle(ev(PointerDown, 200, 200))
	c.Handle(ev(PointerMove, 300, 200))

	assert.Equal(t, geom.Pt(150, 100), l.positions["1"])
}

func TestPan(t *testing.T) {
	c, _ := newTestController()
	c.Handle(ev(PointerDown, 700, 500))
	ch := c.Handle(ev(PointerMove, 720, 510))
	assert.True(t, ch.Has(ChangeView))
	assert.Equal(t, Panning, c.State())

	c.Handle(ev(PointerMove, 730, 530))
	assert.Equal(t, geom.Transform{X: 30, Y: 30, K: 1}, c.Transform())

	ch = c.Handle(ev(PointerUp, 730, 530))
	assert.False(t, ch.Has(ChangeSelection))
	assert.Equal(t, Idle, c.State())
}

func TestDoubleClickNeverZooms(t *testing.T) {
	c, _ := newTestController()

	ch := c.Handle(ev(DoubleClick, 500, 300))

	assert.Equal(t, Change(0), ch)
	assert.Equal(t, geom.Identity, c.Transform())
}

func TestWheelZoomClamped(t *testing.T) {
	c, _ := newTestController()

	c.Handle(Event{Kind: Wheel, X: 500, Y: 300, DeltaY: -500})
	assert.InDelta(t, 2, c.Transform().K, 1e-9)
	assert.Equal(t, geom.Pt(500, 300), c.Transform().Invert(geom.Pt(500, 300)), "point under the cursor stays put")

	for i := 0; i < 20; i++ {
		c.Handle(Event{Kind: Wheel, X: 500, Y: 300, DeltaY: -500})
	}
	assert.Equal(t, 3.0, c.Transform().K)

	for i := 0; i < 40; i++ {
		c.ZoomOut()
	}
	assert.Equal(t, 0.1, c.Transform().K)
}

func TestWheelReportsZoomingUntilIdle(t *testing.T) {
	c, _ := newTestController()
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	c.Handle(Event{Kind: Wheel, X: 500, Y: 300, DeltaY: -100})
	assert.Equal(t, Zooming, c.State())

	now = now.Add(WheelIdle / 2)
	c.Handle(Event{Kind: Wheel, X: 500, Y: 300, DeltaY: -100})
	now = now.Add(WheelIdle - time.Millisecond)
	assert.Equal(t, Zooming, c.State(), "each wheel event extends the gesture")

	now = now.Add(time.Millisecond)
	assert.Equal(t, Idle, c.State())

	c.Handle(Event{Kind: Wheel, X: 500, Y: 300, DeltaY: -100})
	c.Reset()
	assert.Equal(t, Idle, c.State())
}

func TestPinch(t *testing.T) {
	c, _ := newTestController()

	c.Handle(ev(PinchStart, 500, 300))
	assert.Equal(t, Zooming, c.State())
	assert.Equal(t, Change(0), c.Handle(ev(PointerDown, 100, 100)), "one gesture at a time")

	c.Handle(Event{Kind: Pinch, X: 500, Y: 300, Scale: 1.5})
	c.Handle(Event{Kind: Pinch, X: 500, Y: 300, Scale: 2})
	assert.InDelta(t, 2, c.Transform().K, 1e-9)

	c.Handle(ev(PinchEnd, 500, 300))
	assert.Equal(t, Idle, c.State())
}

func TestViewControls(t *testing.T) {
	c, _ := newTestController()

	c.ZoomIn()
	assert.InDelta(t, 1.5, c.Transform().K, 1e-9)
	c.ZoomOut()
	assert.InDelta(t, 1, c.Transform().K, 1e-9)

	before := c.Transform()
	c.Pan(10, 20)
	assert.InDelta(t, before.X+10, c.Transform().X, 1e-9)
	assert.InDelta(t, before.Y+20, c.Transform().Y, 1e-9)

	c.ResetView()
	assert.Equal(t, geom.Identity, c.Transform())
}

func TestFitToScreen(t *testing.T) {
	c, _ := newTestController()

	bounds, ok := geom.Bounds([]geom.Rect{{MinX: 0, MinY: 0, MaxX: 450, MaxY: 250}})
	require.True(t, ok)
	c.FitToScreen(bounds, ok)
	tr := c.Transform()
	assert.InDelta(t, 2, tr.K, 1e-9)
	center := tr.Apply(bounds.Center())
	assert.InDelta(t, 500, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)

	c.FitToScreen(geom.Rect{MinX: 0, MinY: 0, MaxX: 1800, MaxY: 100}, true)
	assert.InDelta(t, 0.5, c.Transform().K, 1e-9)

	before := c.Transform()
	assert.Equal(t, Change(0), c.FitToScreen(geom.Rect{}, false))
	assert.Equal(t, before, c.Transform())
}

func TestReset(t *testing.T) {
	c, l := newTestController()
	click(c, 100, 100)
	c.Handle(ev(PointerMove, 600, 300))
	c.ZoomIn()
	node := NodeTarget("1")
	c.Handle(Event{Kind: PointerDown, X: 100, Y: 100, Target: &node})
	c.Handle(Event{Kind: PointerMove, X: 150, Y: 150, Target: &node})
	require.Equal(t, Dragging, c.State())

	c.Reset()

	assert.Equal(t, Idle, c.State())
	assert.True(t, c.Hover().IsZero())
	assert.True(t, c.Selection().IsZero())
	assert.Equal(t, geom.Identity, c.Transform())
	assert.False(t, l.pinned["1"])
}

func TestEventTargetOverridesHitTest(t *testing.T) {
	c, _ := newTestController()
	target := EdgeTarget("x")

	c.Handle(Event{Kind: Click, X: 100, Y: 100, Target: &target})

	assert.Equal(t, target, c.Selection())
}

func TestNoLayoutAttached(t *testing.T) {
	c := NewController(geom.Size{Width: 100, Height: 100})

	click(c, 10, 10)
	c.Handle(ev(PointerMove, 20, 20))

	assert.Equal(t, Idle, c.State())
}
