package domain

import (
	"time"

	"recipechain/internal/geom"
)

// NodePosition is the saved position and pin state of one chain node
type NodePosition struct {
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned"`
}

// NewNodePosition creates an unpinned node position
func NewNodePosition(nodeID string, x, y float64) *NodePosition {
	return &NodePosition{
		NodeID: nodeID,
		X:      x,
		Y:      y,
		Pinned: false,
	}
}

// SavedView is a named layout for one target recipe: the view transform and
// the node positions at the moment it was saved
type SavedView struct {
	ID        string         `json:"id"`
	RecipeID  int            `json:"recipe_id"`
	Name      string         `json:"name"`
	Transform geom.Transform `json:"transform"`
	Positions []NodePosition `json:"positions"`
	CreatedAt time.Time      `json:"created_at"`
}

// PositionMap indexes the view's positions by node id
func (v *SavedView) PositionMap() map[string]NodePosition {
	m := make(map[string]NodePosition, len(v.Positions))
	for _, p := range v.Positions {
		m[p.NodeID] = p
	}
	return m
}
