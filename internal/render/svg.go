package render

import (
	"fmt"
	"html"
	"io"
	"strings"
)

const (
	background = "#1e1e1e"
	cardFill   = "rgba(40, 40, 40, 0.95)"
	cardStroke = "rgba(255, 255, 255, 0.3)"
	flowStroke = "rgba(255, 255, 255, 0.4)"
	labelFill  = "rgba(255, 255, 255, 0.8)"
	textFill   = "#ffffff"
	mutedFill  = "rgba(255, 255, 255, 0.6)"
)

// WriteSVG serialises a scene as a standalone SVG document
func WriteSVG(w io.Writer, s *Scene) error {
	var b strings.Builder
	width, height := s.Viewport.Width, s.Viewport.Height
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" font-family="sans-serif">`+"\n",
		num(width), num(height), num(width), num(height))
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", background)

	if s.Empty != nil {
		writeEmpty(&b, s)
		b.WriteString("</svg>\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, `<defs><marker id="arrowhead" viewBox="0 -5 10 10" refX="25" refY="0" markerWidth="8" markerHeight="8" orient="auto"><path d="M0,-5L10,0L0,5" fill="%s"/></marker></defs>`+"\n", flowStroke)
	fmt.Fprintf(&b, `<g transform="translate(%s,%s) scale(%s)">`+"\n", num(s.Transform.X), num(s.Transform.Y), num(s.Transform.K))

	b.WriteString("<g class=\"links\">\n")
	for _, e := range s.Edges {
		class := "item-flow-line"
		strokeWidth := "2"
		if e.Selected || e.Hovered {
			class += " highlighted"
			strokeWidth = "3"
		}
		fmt.Fprintf(&b, `<path id="edge-%s" data-edge="%s" class="%s" d="%s" fill="none" stroke="%s" stroke-width="%s" marker-end="url(#arrowhead)"/>`+"\n",
			esc(e.ID), esc(e.ID), class, e.Path, flowStroke, strokeWidth)
	}
	b.WriteString("</g>\n<g class=\"link-labels\">\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&b, `<text class="link-label" x="%s" y="%s" dy="-5" text-anchor="middle" font-size="10" fill="%s">%s</text>`+"\n",
			num(e.LabelAt.X), num(e.LabelAt.Y), labelFill, esc(e.Label))
	}
	b.WriteString("</g>\n<g class=\"nodes\">\n")
	for _, n := range s.Nodes {
		writeNode(&b, n)
	}
	b.WriteString("</g>\n</g>\n")

	if s.Panel != nil {
		writePanel(&b, s)
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeNode(b *strings.Builder, n NodeView) {
	class := "recipe-node"
	stroke := cardStroke
	switch {
	case n.Selected:
		class += " selected"
		stroke = SelectedAccent
	case n.Hovered:
		stroke = HoverAccent
	}
	fmt.Fprintf(b, `<g class="node-group" id="node-%s" data-node="%s" transform="translate(%s,%s)">`+"\n", esc(n.ID), esc(n.ID), num(n.Center.X), num(n.Center.Y))
	fmt.Fprintf(b, `<rect class="%s" x="-80" y="-50" width="%d" height="%d" rx="8" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		class, CardWidth, CardHeight, cardFill, stroke)
	fmt.Fprintf(b, `<text class="recipe-node-text title" y="-25" text-anchor="middle" font-size="12" font-weight="bold" fill="%s">%s</text>`+"\n", textFill, esc(n.Title))
	fmt.Fprintf(b, `<text class="recipe-node-text subtitle" y="-10" text-anchor="middle" font-size="10" fill="%s">%s</text>`+"\n", mutedFill, esc(n.Building))
	fmt.Fprintf(b, `<text class="recipe-node-text stats" y="5" text-anchor="middle" font-size="10" fill="%s">%s</text>`+"\n", mutedFill, esc(n.Stats))
	fmt.Fprintf(b, `<text class="recipe-node-text stats" y="18" text-anchor="middle" font-size="10" fill="%s">%s</text>`+"\n", mutedFill, esc(n.Time))
	b.WriteString("</g>\n")
}

func writeEmpty(b *strings.Builder, s *Scene) {
	c := s.Viewport.Center()
	fmt.Fprintf(b, `<g class="empty-state" text-anchor="middle" fill="%s">`+"\n", textFill)
	fmt.Fprintf(b, `<text x="%s" y="%s" font-size="48">%s</text>`+"\n", num(c.X), num(c.Y-40), esc(s.Empty.Icon))
	fmt.Fprintf(b, `<text class="empty-state-title" x="%s" y="%s" font-size="18">%s</text>`+"\n", num(c.X), num(c.Y+10), esc(s.Empty.Title))
	fmt.Fprintf(b, `<text class="empty-state-subtitle" x="%s" y="%s" font-size="12" fill="%s">%s</text>`+"\n", num(c.X), num(c.Y+34), mutedFill, esc(s.Empty.Subtitle))
	b.WriteString("</g>\n")
}

func writePanel(b *strings.Builder, s *Scene) {
	p := s.Panel
	lines := make([]string, 0, 8)
	if p.Description != "" {
		lines = append(lines, p.Description)
	}
	for _, st := range p.Stats {
		lines = append(lines, st.Label+": "+st.Value)
	}
	if len(p.Inputs) > 0 {
		lines = append(lines, "Inputs")
		lines = append(lines, p.Inputs...)
	}
	if len(p.Outputs) > 0 {
		lines = append(lines, "Outputs")
		lines = append(lines, p.Outputs...)
	}

	x := s.Viewport.Width - 270
	height := 40 + 16*len(lines)
	fmt.Fprintf(b, `<g class="recipe-info-panel" transform="translate(%s,10)">`+"\n", num(x))
	fmt.Fprintf(b, `<rect width="260" height="%d" rx="6" fill="%s" stroke="%s"/>`+"\n", height, cardFill, p.Accent)
	fmt.Fprintf(b, `<text x="12" y="24" font-size="13" font-weight="bold" fill="%s">%s</text>`+"\n", p.Accent, esc(p.Heading))
	for i, line := range lines {
		fmt.Fprintf(b, `<text x="12" y="%d" font-size="11" fill="%s">%s</text>`+"\n", 44+16*i, mutedFill, esc(line))
	}
	b.WriteString("</g>\n")
}

func esc(s string) string {
	return html.EscapeString(s)
}
