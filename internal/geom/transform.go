package geom

import "math"

// Transform maps world coordinates to screen coordinates:
// screen = world*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves coordinates unchanged
var Identity = Transform{K: 1}

// Apply maps a world point to the screen
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to world coordinates
func (t Transform) Invert(p Point) Point {
	k := t.K
	if k == 0 {
		k = 1
	}
	return Point{X: (p.X - t.X) / k, Y: (p.Y - t.Y) / k}
}

// Translate shifts the view by a screen-space offset
func (t Transform) Translate(dx, dy float64) Transform {
	return Transform{X: t.X + dx, Y: t.Y + dy, K: t.K}
}

// ScaleAt multiplies the scale by factor, clamped to [min, max], keeping
// the world point under the screen anchor fixed
func (t Transform) ScaleAt(factor float64, anchor Point, min, max float64) Transform {
	k := Clamp(t.K*factor, min, max)
	world := t.Invert(anchor)
	return Transform{
		X: anchor.X - world.X*k,
		Y: anchor.Y - world.Y*k,
		K: k,
	}
}

// Fit returns the transform that centres bounds in the viewport with the
// given total padding, never zooming in past maxScale
func Fit(bounds Rect, viewport Size, padding, maxScale float64) Transform {
	w, h := bounds.Width(), bounds.Height()
	scale := maxScale
	if w > 0 {
		scale = math.Min(scale, (viewport.Width-padding)/w)
	}
	if h > 0 {
		scale = math.Min(scale, (viewport.Height-padding)/h)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	c := bounds.Center()
	return Transform{
		X: viewport.Width/2 - c.X*scale,
		Y: viewport.Height/2 - c.Y*scale,
		K: scale,
	}
}

// Clamp bounds v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
