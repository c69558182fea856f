package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformApplyInvert(t *testing.T) {
	tr := Transform{X: 40, Y: -10, K: 2}

	p := Pt(5, 7)
	screen := tr.Apply(p)
	assert.Equal(t, Pt(50, 4), screen)
	assert.Equal(t, p, tr.Invert(screen))
}

func TestTransformScaleAt(t *testing.T) {
	t.Run("keeps anchor fixed", func(t *testing.T) {
		tr := Identity
		anchor := Pt(100, 50)
		before := tr.Invert(anchor)

		scaled := tr.ScaleAt(2, anchor, 0.1, 3)

		assert.InDelta(t, 2, scaled.K, 1e-9)
		after := scaled.Invert(anchor)
		assert.InDelta(t, before.X, after.X, 1e-9)
		assert.InDelta(t, before.Y, after.Y, 1e-9)
	})

	t.Run("clamps scale", func(t *testing.T) {
		assert.Equal(t, 3.0, Identity.ScaleAt(100, Pt(0, 0), 0.1, 3).K)
		assert.Equal(t, 0.1, Identity.ScaleAt(0.0001, Pt(0, 0), 0.1, 3).K)
	})
}

func TestFit(t *testing.T) {
	t.Run("centres and scales bounds", func(t *testing.T) {
		bounds := Rect{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 500}
		tr := Fit(bounds, Size{Width: 600, Height: 400}, 100, 2)

		assert.InDelta(t, 0.5, tr.K, 1e-9)
		c := tr.Apply(bounds.Center())
		assert.InDelta(t, 300, c.X, 1e-9)
		assert.InDelta(t, 200, c.Y, 1e-9)
	})

	t.Run("caps zoom for small bounds", func(t *testing.T) {
		bounds := RectAround(Pt(10, 10), Size{Width: 160, Height: 100})
		tr := Fit(bounds, Size{Width: 2000, Height: 2000}, 100, 2)
		assert.Equal(t, 2.0, tr.K)
	})
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)

	b, ok := Bounds([]Rect{{0, 0, 1, 1}, {-5, 2, 3, 9}})
	assert.True(t, ok)
	assert.Equal(t, Rect{MinX: -5, MinY: 0, MaxX: 3, MaxY: 9}, b)
}

func TestArcBetween(t *testing.T) {
	a := ArcBetween(Pt(0, 0), Pt(2, 0))

	assert.InDelta(t, 2, a.Radius, 1e-9)
	assert.InDelta(t, 2, a.Center.Dist(a.Source), 1e-9)
	assert.InDelta(t, 2, a.Center.Dist(a.Target), 1e-9)

	apex := a.Apex()
	assert.Less(t, apex.Y, 0.0, "arc bends upward for a left-to-right edge")
	assert.InDelta(t, 0, a.Distance(apex), 1e-9)
	assert.InDelta(t, 0, a.Distance(a.Source), 1e-9)

	far := Pt(1, 50)
	assert.Greater(t, a.Distance(far), 10.0)
}

func TestArcDegenerate(t *testing.T) {
	a := ArcBetween(Pt(3, 3), Pt(3, 3))
	assert.Equal(t, 0.0, a.Radius)
	assert.Equal(t, Pt(3, 3), a.Apex())
	assert.False(t, math.IsNaN(a.Distance(Pt(4, 3))))
}
