// Package render turns a chain graph, its layout and the interaction state
// into a frame description and serialises frames as SVG.
package render

import (
	"fmt"
	"math"
	"strconv"

	"recipechain/internal/domain"
	"recipechain/internal/format"
	"recipechain/internal/geom"
	"recipechain/internal/interaction"
)

const (
	CardWidth  = 160
	CardHeight = 100

	// titleLimit is the longest title shown in full on a card
	titleLimit = 18
	titleKeep  = 15
)

// CardSize is the size of a node card in world units
var CardSize = geom.Size{Width: CardWidth, Height: CardHeight}

// Positioner reports the current world position of a node
type Positioner interface {
	Position(id string) (geom.Point, bool)
}

// Input is everything a frame is derived from
type Input struct {
	Catalog *domain.Catalog
	Picker  []PickerOption
	// Target is the selected recipe, zero when none is selected
	Target int
	// Graph is nil when no recipe is selected
	Graph *domain.Graph
	// Positions overrides the node coordinates stored in Graph
	Positions Positioner
	View      interaction.Snapshot
}

// EmptyState is shown instead of a canvas
type EmptyState struct {
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

var (
	NoRecipes = EmptyState{
		Icon:     "🧪",
		Title:    "No Recipes Available",
		Subtitle: "Add some recipes to visualize their connections",
	}
	NoSelection = EmptyState{
		Icon:     "🔗",
		Title:    "Select a Recipe to Visualize",
		Subtitle: "Choose a recipe to see its input dependency chain",
	}
)

// Control is a view button
type Control struct {
	Op    string `json:"op"`
	Label string `json:"label"`
	Title string `json:"title"`
}

// ViewControls are the buttons shown next to a chain
var ViewControls = []Control{
	{Op: "zoom_in", Label: "+", Title: "Zoom In"},
	{Op: "zoom_out", Label: "−", Title: "Zoom Out"},
	{Op: "reset", Label: "🎯 Reset", Title: "Reset View"},
	{Op: "fit", Label: "📐 Fit All", Title: "Fit to Screen"},
}

// NodeView is a recipe card
type NodeView struct {
	ID          string     `json:"id"`
	RecipeID    int        `json:"recipe_id"`
	Center      geom.Point `json:"center"`
	Card        geom.Rect  `json:"card"`
	Title       string     `json:"title"`
	Name        string     `json:"name"`
	Building    string     `json:"building"`
	Stats       string     `json:"stats"`
	Time        string     `json:"time"`
	Placeholder bool       `json:"placeholder,omitempty"`
	Pinned      bool       `json:"pinned,omitempty"`
	Hovered     bool       `json:"hovered,omitempty"`
	Selected    bool       `json:"selected,omitempty"`
}

// EdgeView is an item flow connector
type EdgeView struct {
	ID       string     `json:"id"`
	Source   string     `json:"source"`
	Target   string     `json:"target"`
	Path     string     `json:"path"`
	Label    string     `json:"label"`
	LabelAt  geom.Point `json:"label_at"`
	Arc      geom.Arc   `json:"-"`
	Hovered  bool       `json:"hovered,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// Scene is one frame
type Scene struct {
	Viewport  geom.Size      `json:"viewport"`
	Transform geom.Transform `json:"transform"`
	State     string         `json:"state"`
	Target    int            `json:"target,omitempty"`
	Picker    []PickerOption `json:"picker,omitempty"`
	Empty     *EmptyState    `json:"empty,omitempty"`
	Controls  []Control      `json:"controls,omitempty"`
	Nodes     []NodeView     `json:"nodes"`
	Edges     []EdgeView     `json:"edges"`
	Bounds    *geom.Rect     `json:"bounds,omitempty"`
	Panel     *Panel         `json:"panel,omitempty"`
}

// Build derives a frame. It has no side effects and never fails: missing
// names and dangling references fall back to placeholder labels.
func Build(in Input) *Scene {
	cat := in.Catalog
	if cat == nil {
		cat = domain.NewCatalog(nil)
	}
	s := &Scene{
		Viewport:  in.View.Viewport,
		Transform: in.View.Transform,
		State:     in.View.State.String(),
		Target:    in.Target,
		Nodes:     make([]NodeView, 0),
		Edges:     make([]EdgeView, 0),
	}

	if cat.RecipeCount() == 0 {
		s.Empty = &NoRecipes
		return s
	}
	s.Picker = in.Picker
	if in.Graph.IsEmpty() {
		s.Empty = &NoSelection
		return s
	}
	s.Controls = ViewControls

	centers := make(map[string]geom.Point, len(in.Graph.Nodes))
	rects := make([]geom.Rect, 0, len(in.Graph.Nodes))
	for _, n := range in.Graph.Nodes {
		c := nodeCenter(n, in.Positions)
		centers[n.ID] = c
		card := geom.RectAround(c, CardSize)
		rects = append(rects, card)
		s.Nodes = append(s.Nodes, NodeView{
			ID:          n.ID,
			RecipeID:    n.Recipe.RecipeID,
			Center:      c,
			Card:        card,
			Title:       TruncateTitle(n.Recipe.RecipeName),
			Name:        n.Recipe.RecipeName,
			Building:    cat.BuildingName(n.Recipe.BuildingID),
			Stats:       fmt.Sprintf("⚡%s 💧%s", format.NormalizeSI(n.Recipe.Power, "Wh"), format.NormalizeSI(n.Recipe.Water, "L")),
			Time:        "⏱️" + format.Duration(n.Recipe.Time),
			Placeholder: n.Placeholder,
			Pinned:      n.FixedX != nil,
			Hovered:     in.View.Hover == interaction.NodeTarget(n.ID),
			Selected:    in.View.Selection == interaction.NodeTarget(n.ID),
		})
	}
	if b, ok := geom.Bounds(rects); ok {
		s.Bounds = &b
	}

	for _, e := range in.Graph.Edges {
		src, ok1 := centers[e.Source]
		dst, ok2 := centers[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		arc := geom.ArcBetween(src, dst)
		s.Edges = append(s.Edges, EdgeView{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Path:     ArcPath(arc),
			Label:    cat.ItemName(e.ItemID),
			LabelAt:  arc.ChordMid(),
			Arc:      arc,
			Hovered:  in.View.Hover == interaction.EdgeTarget(e.ID),
			Selected: in.View.Selection == interaction.EdgeTarget(e.ID),
		})
	}

	s.Panel = buildPanel(in.View, in.Graph, cat)
	return s
}

func nodeCenter(n domain.GraphNode, pos Positioner) geom.Point {
	if pos != nil {
		if p, ok := pos.Position(n.ID); ok {
			return p
		}
	}
	return geom.Pt(n.X, n.Y)
}

// TruncateTitle shortens long recipe names for a card
func TruncateTitle(name string) string {
	r := []rune(name)
	if len(r) > titleLimit {
		return string(r[:titleKeep]) + "..."
	}
	return name
}

// ArcPath renders the SVG path of an edge arc
func ArcPath(a geom.Arc) string {
	return fmt.Sprintf("M%s,%s A%s,%s 0 0,1 %s,%s",
		num(a.Source.X), num(a.Source.Y),
		num(a.Radius), num(a.Radius),
		num(a.Target.X), num(a.Target.Y))
}

// CardBounds returns the bounding box of every card in the graph
func CardBounds(g *domain.Graph, pos Positioner) (geom.Rect, bool) {
	if g.IsEmpty() {
		return geom.Rect{}, false
	}
	rects := make([]geom.Rect, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		rects = append(rects, geom.RectAround(nodeCenter(n, pos), CardSize))
	}
	return geom.Bounds(rects)
}

// num formats a coordinate with at most two decimals
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
