package domain

import "strconv"

// Graph is the derived chain view for one target recipe. It is rebuilt
// from scratch whenever the target or the dataset changes.
type Graph struct {
	Target int         `json:"target"`
	Nodes  []GraphNode `json:"nodes"`
	Edges  []GraphEdge `json:"edges"`
}

// GraphNode is one recipe in the chain. X and Y are simulation state;
// FixedX and FixedY are set only while the node is pinned.
type GraphNode struct {
	ID          string   `json:"id"`
	Recipe      Recipe   `json:"recipe"`
	Placeholder bool     `json:"placeholder,omitempty"` // recipe id not present in the dataset
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	FixedX      *float64 `json:"fx,omitempty"`
	FixedY      *float64 `json:"fy,omitempty"`
}

// GraphEdge is one item flowing from a producing recipe to a consuming
// recipe. Endpoints are node ids, never node references.
type GraphEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	ItemID int     `json:"item_id"`
	Amount float64 `json:"amount"`
}

// NewGraph creates an empty graph for the given target recipe
func NewGraph(target int) *Graph {
	return &Graph{
		Target: target,
		Nodes:  make([]GraphNode, 0),
		Edges:  make([]GraphEdge, 0),
	}
}

// NodeID converts a recipe id to the node id used in the graph
func NodeID(recipeID int) string {
	return strconv.Itoa(recipeID)
}

// AddNode appends a node
func (g *Graph) AddNode(node GraphNode) {
	g.Nodes = append(g.Nodes, node)
}

// AddEdge appends an edge
func (g *Graph) AddEdge(edge GraphEdge) {
	g.Edges = append(g.Edges, edge)
}

// Node finds a node by id
func (g *Graph) Node(id string) (*GraphNode, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Edge finds an edge by id
func (g *Graph) Edge(id string) (*GraphEdge, bool) {
	for i := range g.Edges {
		if g.Edges[i].ID == id {
			return &g.Edges[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether the graph has no nodes
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0
}
