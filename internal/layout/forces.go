package layout

import "math"

// applyLinks pulls linked nodes toward LinkDistance. The correction is
// split by degree so that well-connected nodes move less.
func (s *Simulation) applyLinks() {
	strength := s.cfg.LinkStrength
	for _, l := range s.links {
		src, dst := &s.bodies[l.source], &s.bodies[l.target]
		x := dst.x + dst.vx - src.x - src.vx
		y := dst.y + dst.vy - src.y - src.vy
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		if d == 0 {
			continue
		}
		k := (d - s.cfg.LinkDistance) / d * s.alpha * strength
		x *= k
		y *= k
		dst.vx -= x * l.bias
		dst.vy -= y * l.bias
		src.vx += x * (1 - l.bias)
		src.vy += y * (1 - l.bias)
	}
}

// applyCharge applies the pairwise inverse-distance force. Charge is
// negative for repulsion.
func (s *Simulation) applyCharge() {
	if s.cfg.Charge == 0 {
		return
	}
	min2 := s.cfg.DistanceMin * s.cfg.DistanceMin
	for i := range s.bodies {
		b := &s.bodies[i]
		for j := range s.bodies {
			if i == j {
				continue
			}
			o := &s.bodies[j]
			x := o.x - b.x
			y := o.y - b.y
			l := x*x + y*y
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			if l == 0 {
				continue
			}
			if l < min2 {
				l = math.Sqrt(min2 * l)
			}
			w := s.cfg.Charge * s.alpha / l
			b.vx += x * w
			b.vy += y * w
		}
	}
}

// applyCenter translates every node so the centroid moves toward the centre
func (s *Simulation) applyCenter() {
	n := float64(len(s.bodies))
	if n == 0 || s.cfg.CenterStrength == 0 {
		return
	}
	var sx, sy float64
	for _, b := range s.bodies {
		sx += b.x
		sy += b.y
	}
	sx = (sx/n - s.center.X) * s.cfg.CenterStrength
	sy = (sy/n - s.center.Y) * s.cfg.CenterStrength
	for i := range s.bodies {
		s.bodies[i].x -= sx
		s.bodies[i].y -= sy
	}
}

// applyCollide pushes apart nodes whose predicted positions are closer
// than two radii. Radii are equal so each node takes half the correction.
func (s *Simulation) applyCollide() {
	r := s.cfg.CollideRadius * 2
	if r == 0 || s.cfg.CollideStrength == 0 {
		return
	}
	r2 := r * r
	for i := range s.bodies {
		b := &s.bodies[i]
		xi := b.x + b.vx
		yi := b.y + b.vy
		for j := i + 1; j < len(s.bodies); j++ {
			o := &s.bodies[j]
			x := xi - o.x - o.vx
			y := yi - o.y - o.vy
			l := x*x + y*y
			if l >= r2 {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			d := math.Sqrt(l)
			if d == 0 {
				continue
			}
			k := (r - d) / d * s.cfg.CollideStrength
			x *= k
			y *= k
			b.vx += x * 0.5
			b.vy += y * 0.5
			o.vx -= x * 0.5
			o.vy -= y * 0.5
		}
	}
}
