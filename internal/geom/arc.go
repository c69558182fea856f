package geom

import "math"

// Arc is the circular connector drawn between two node centres. The radius
// equals the chord length and the arc bends clockwise from source to target
// in screen orientation (y down), matching an SVG "A r,r 0 0,1" segment.
type Arc struct {
	Source Point
	Target Point
	Center Point
	Radius float64
}

// maxArcHalfAngle is half the angle subtended by a chord equal to the radius
const maxArcHalfAngle = math.Pi / 6

// ArcBetween computes the connector arc from s to t
func ArcBetween(s, t Point) Arc {
	d := s.Dist(t)
	a := Arc{Source: s, Target: t, Radius: d}
	if d == 0 {
		a.Center = s
		return a
	}
	h := d * math.Sqrt(3) / 2
	dir := t.Sub(s).Scale(1 / d)
	normal := Point{X: -dir.Y, Y: dir.X}
	a.Center = s.Mid(t).Add(normal.Scale(h))
	return a
}

// ChordMid is the midpoint of the straight segment between the endpoints
func (a Arc) ChordMid() Point {
	return a.Source.Mid(a.Target)
}

// Apex is the point of the arc farthest from the chord
func (a Arc) Apex() Point {
	if a.Radius == 0 {
		return a.Source
	}
	v := a.ChordMid().Sub(a.Center)
	l := v.Len()
	if l == 0 {
		return a.ChordMid()
	}
	return a.Center.Add(v.Scale(a.Radius / l))
}

// Distance returns how far p is from the arc
func (a Arc) Distance(p Point) float64 {
	if a.Radius == 0 {
		return p.Dist(a.Source)
	}
	v := p.Sub(a.Center)
	apex := a.Apex().Sub(a.Center)
	angle := math.Abs(angleBetween(v, apex))
	if angle <= maxArcHalfAngle {
		return math.Abs(v.Len() - a.Radius)
	}
	return math.Min(p.Dist(a.Source), p.Dist(a.Target))
}

func angleBetween(u, v Point) float64 {
	return math.Atan2(u.X*v.Y-u.Y*v.X, u.X*v.X+u.Y*v.Y)
}
