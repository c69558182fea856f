package render

import (
	"recipechain/internal/domain"
	"recipechain/internal/geom"
	"recipechain/internal/interaction"
)

// EdgeHitTolerance is how close, in world units, a point must be to an
// arc to hit the edge
const EdgeHitTolerance = 6

// HitTester resolves world positions to cards and connectors using the
// same geometry Build draws
type HitTester struct {
	graph *domain.Graph
	pos   Positioner
}

// NewHitTester creates a hit tester reading live positions from pos
func NewHitTester(g *domain.Graph, pos Positioner) *HitTester {
	return &HitTester{graph: g, pos: pos}
}

// TargetAt returns the topmost card under p, or else the closest edge
// within EdgeHitTolerance. Cards are drawn above edges and win.
func (h *HitTester) TargetAt(p geom.Point) interaction.Target {
	if h.graph.IsEmpty() {
		return interaction.Target{}
	}

	centers := make(map[string]geom.Point, len(h.graph.Nodes))
	for _, n := range h.graph.Nodes {
		centers[n.ID] = nodeCenter(n, h.pos)
	}
	for i := len(h.graph.Nodes) - 1; i >= 0; i-- {
		n := h.graph.Nodes[i]
		if geom.RectAround(centers[n.ID], CardSize).Contains(p) {
			return interaction.NodeTarget(n.ID)
		}
	}

	best := interaction.Target{}
	bestDist := float64(EdgeHitTolerance)
	for _, e := range h.graph.Edges {
		src, ok1 := centers[e.Source]
		dst, ok2 := centers[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		if d := geom.ArcBetween(src, dst).Distance(p); d <= bestDist {
			best, bestDist = interaction.EdgeTarget(e.ID), d
		}
	}
	return best
}
