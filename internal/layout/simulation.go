// Package layout implements the force-directed simulation that positions
// chain nodes: spring links, pairwise repulsion, centring and collision.
package layout

import (
	"math/rand/v2"

	"recipechain/internal/domain"
	"recipechain/internal/geom"
)

type body struct {
	id     string
	x, y   float64
	vx, vy float64
	fx, fy float64
	fixed  bool
}

type link struct {
	source, target int
	bias           float64
}

// Simulation advances node positions one tick at a time. It is not safe
// for concurrent use; a session drives it from a single goroutine.
type Simulation struct {
	cfg    Config
	bodies []body
	index  map[string]int
	links  []link
	center geom.Point
	rng    *rand.Rand

	alpha       float64
	alphaTarget float64
	alphaDecay  float64
	settled     bool
	stopped     bool
	ticks       int
}

// New creates a simulation over the nodes and edges of g, starting from
// the positions the graph was seeded with. Edges whose endpoints are not
// in the graph are ignored.
func New(g *domain.Graph, cfg Config) *Simulation {
	s := &Simulation{
		cfg:        cfg,
		index:      make(map[string]int),
		center:     geom.Pt(cfg.Width/2, cfg.Height/2),
		rng:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1)),
		alpha:      1,
		alphaDecay: cfg.decay(),
	}
	if g == nil {
		s.settled = true
		return s
	}

	s.bodies = make([]body, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := s.index[n.ID]; dup {
			continue
		}
		b := body{id: n.ID, x: n.X, y: n.Y}
		if n.FixedX != nil && n.FixedY != nil {
			b.fx, b.fy, b.fixed = *n.FixedX, *n.FixedY, true
		}
		s.index[n.ID] = len(s.bodies)
		s.bodies = append(s.bodies, b)
	}

	count := make([]int, len(s.bodies))
	for _, e := range g.Edges {
		si, ok1 := s.index[e.Source]
		ti, ok2 := s.index[e.Target]
		if !ok1 || !ok2 || si == ti {
			continue
		}
		s.links = append(s.links, link{source: si, target: ti})
		count[si]++
		count[ti]++
	}
	for i := range s.links {
		l := &s.links[i]
		l.bias = float64(count[l.source]) / float64(count[l.source]+count[l.target])
	}

	if len(s.bodies) == 0 {
		s.settled = true
	}
	return s
}

// Step runs one tick and reports whether the simulation is still active
func (s *Simulation) Step() bool {
	if !s.Active() {
		return false
	}
	s.tick()
	if s.alpha < s.cfg.AlphaMin {
		s.settled = true
		return false
	}
	return true
}

// Run ticks until the simulation settles or maxIterations is reached and
// returns the number of ticks run
func (s *Simulation) Run(maxIterations int) int {
	n := 0
	for n < maxIterations && s.Active() {
		s.Step()
		n++
	}
	return n
}

// Active reports whether further ticks will move nodes
func (s *Simulation) Active() bool {
	return !s.stopped && !s.settled && len(s.bodies) > 0
}

// Stop halts the simulation for good. Positions are never mutated again.
func (s *Simulation) Stop() {
	s.stopped = true
}

// Stopped reports whether Stop has been called
func (s *Simulation) Stopped() bool {
	return s.stopped
}

// Reheat keeps the simulation warm while a node is dragged
func (s *Simulation) Reheat() {
	s.alphaTarget = 0.3
	s.settled = false
}

// Cool lets the simulation settle again
func (s *Simulation) Cool() {
	s.alphaTarget = 0
}

// Alpha returns the current temperature
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Ticks returns the number of ticks run so far
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Len returns the number of nodes
func (s *Simulation) Len() int {
	return len(s.bodies)
}

// Resize moves the centre of attraction to the middle of the new canvas
func (s *Simulation) Resize(width, height float64) {
	s.center = geom.Pt(width/2, height/2)
	s.settled = false
}

// Pin fixes a node at p. A pinned node still pushes and pulls the others.
func (s *Simulation) Pin(id string, p geom.Point) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	b := &s.bodies[i]
	b.fx, b.fy, b.fixed = p.X, p.Y, true
	b.x, b.y = p.X, p.Y
	b.vx, b.vy = 0, 0
	return true
}

// Release unpins a node, leaving it free at the last pinned position
func (s *Simulation) Release(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	b := &s.bodies[i]
	if b.fixed {
		b.x, b.y = b.fx, b.fy
	}
	b.fixed = false
	return true
}

// Pinned reports whether a node is currently fixed
func (s *Simulation) Pinned(id string) bool {
	i, ok := s.index[id]
	return ok && s.bodies[i].fixed
}

// Position returns a node's current position
func (s *Simulation) Position(id string) (geom.Point, bool) {
	i, ok := s.index[id]
	if !ok {
		return geom.Point{}, false
	}
	return geom.Pt(s.bodies[i].x, s.bodies[i].y), true
}

// SetPosition moves a free node without pinning it
func (s *Simulation) SetPosition(id string, p geom.Point) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	b := &s.bodies[i]
	b.x, b.y = p.X, p.Y
	b.vx, b.vy = 0, 0
	if b.fixed {
		b.fx, b.fy = p.X, p.Y
	}
	return true
}

// Positions returns every node position in graph order
func (s *Simulation) Positions() []domain.NodePosition {
	out := make([]domain.NodePosition, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = domain.NodePosition{NodeID: b.id, X: b.x, Y: b.y, Pinned: b.fixed}
	}
	return out
}

// PositionMap returns every node position keyed by node id
func (s *Simulation) PositionMap() map[string]geom.Point {
	out := make(map[string]geom.Point, len(s.bodies))
	for _, b := range s.bodies {
		out[b.id] = geom.Pt(b.x, b.y)
	}
	return out
}

// Apply copies the simulation state onto the matching graph nodes
func (s *Simulation) Apply(g *domain.Graph) {
	if g == nil {
		return
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		j, ok := s.index[n.ID]
		if !ok {
			continue
		}
		b := s.bodies[j]
		n.X, n.Y = b.x, b.y
		n.FixedX, n.FixedY = nil, nil
		if b.fixed {
			fx, fy := b.fx, b.fy
			n.FixedX, n.FixedY = &fx, &fy
		}
	}
}

func (s *Simulation) tick() {
	s.ticks++
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.applyCollide()

	keep := 1 - s.cfg.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.fixed {
			b.x, b.vx = b.fx, 0
			b.y, b.vy = b.fy, 0
			continue
		}
		b.vx *= keep
		b.vy *= keep
		b.x += b.vx
		b.y += b.vy
	}
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
