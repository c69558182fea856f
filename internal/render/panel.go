package render

import (
	"strconv"
	"strings"

	"recipechain/internal/domain"
	"recipechain/internal/format"
	"recipechain/internal/interaction"
)

const (
	SelectedAccent = "rgba(76, 205, 196, 1)"
	HoverAccent    = "rgba(255, 183, 77, 1)"
)

// Stat is one labelled value in the info panel
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Panel describes the hovered or selected node or edge
type Panel struct {
	Kind        interaction.TargetKind `json:"kind"`
	ID          string                 `json:"id"`
	Selected    bool                   `json:"selected"`
	Accent      string                 `json:"accent"`
	Title       string                 `json:"title"`
	Heading     string                 `json:"heading"`
	Description string                 `json:"description,omitempty"`
	Stats       []Stat                 `json:"stats,omitempty"`
	Inputs      []string               `json:"inputs,omitempty"`
	Outputs     []string               `json:"outputs,omitempty"`
}

func buildPanel(view interaction.Snapshot, g *domain.Graph, cat *domain.Catalog) *Panel {
	t := view.Selection
	selected := true
	if t.IsZero() {
		t, selected = view.Hover, false
	}

	var p *Panel
	switch t.Kind {
	case interaction.TargetNode:
		n, ok := g.Node(t.ID)
		if !ok {
			return nil
		}
		p = recipePanel(&n.Recipe, cat)
	case interaction.TargetEdge:
		e, ok := g.Edge(t.ID)
		if !ok {
			return nil
		}
		p = flowPanel(e, cat)
	default:
		return nil
	}

	p.Kind = t.Kind
	p.ID = t.ID
	p.Selected = selected
	p.Accent = HoverAccent
	p.Heading = p.Title
	if selected {
		p.Accent = SelectedAccent
		p.Heading = "📌 " + p.Title + " (Selected)"
	}
	return p
}

func recipePanel(r *domain.Recipe, cat *domain.Catalog) *Panel {
	p := &Panel{
		Title:       r.RecipeName,
		Description: r.RecipeDescription,
	}
	if r.BuildingID != 0 {
		p.Stats = []Stat{
			{Label: "Building", Value: cat.BuildingName(r.BuildingID)},
			{Label: "Power", Value: format.NormalizeSI(r.Power, "Wh")},
			{Label: "Water", Value: format.NormalizeSI(r.Water, "L")},
			{Label: "Time", Value: format.Duration(r.Time)},
		}
	}
	for _, in := range r.Inputs {
		p.Inputs = append(p.Inputs, ioLine(in, cat))
	}
	for _, out := range r.Outputs {
		p.Outputs = append(p.Outputs, ioLine(out, cat))
	}
	return p
}

func flowPanel(e *domain.GraphEdge, cat *domain.Catalog) *Panel {
	return &Panel{
		Title:       cat.ItemName(e.ItemID) + " Flow",
		Description: quantity(e.Amount, cat.UnitName(e.ItemID)),
	}
}

func ioLine(a domain.ItemAmount, cat *domain.Catalog) string {
	return cat.ItemName(a.ItemID) + ": " + quantity(a.Amount, cat.UnitName(a.ItemID))
}

func quantity(amount float64, unit string) string {
	return strings.TrimSpace(strconv.FormatFloat(amount, 'f', -1, 64) + " " + unit)
}
