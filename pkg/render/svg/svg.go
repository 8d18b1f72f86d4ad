// Package svg renders mind-map scenes as standalone SVG documents.
//
// The document mirrors what an interactive host draws: a white background
// rectangle (id "background-rect"), the stage chain as solid connectors, the
// expanded stage's children with dashed connectors, rounded node rectangles,
// and wrapped labels. The whole scene sits in one group carrying the view
// transform, so a frame captured mid-session renders exactly as on screen.
//
// Every node group carries data-node-id and data-kind attributes so a browser
// host can map DOM events back to scene ids without sniffing tags.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
)

// Stroke and text colours.
const (
	SelectedStroke = "#1F2937"
	StageStroke    = "white"
	ChildFill      = "white"
	StageText      = "#1F2937"
	ChildText      = "#374151"
	DashArray      = "5,5"
)

const interactionCSS = `
    .node { cursor: pointer; }
    .node.stage rect { transition: filter 0.3s ease; }
    .node.stage:hover rect { filter: brightness(1.1); }
    .node.child:hover rect { fill: #F9FAFB; }
    #background-rect { cursor: move; }`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	transform   viewport.Transform
	width       float64
	height      float64
	interactive bool
	compact     bool
}

// WithTransform draws the scene under t instead of the identity.
func WithTransform(t viewport.Transform) Option { return func(r *renderer) { r.transform = t } }

// WithSize sets the document size. A zero dimension is derived from the
// scene and the minimum canvas size.
func WithSize(w, h float64) Option { return func(r *renderer) { r.width, r.height = w, h } }

// WithInteraction embeds hover styles for browser hosts.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// WithCompact uses the smaller child font of narrow layouts.
func WithCompact() Option { return func(r *renderer) { r.compact = true } }

// Render returns the SVG document for s.
func Render(s *layout.Scene, opts ...Option) []byte {
	r := renderer{transform: viewport.Identity()}
	for _, opt := range opts {
		opt(&r)
	}
	w, h := r.size(s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(w), num(h), num(w), num(h))
	if s.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(s.Title))
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
	}

	t := r.transform
	fmt.Fprintf(&buf, `  <g transform="translate(%s, %s) scale(%s)">`+"\n", num(t.X), num(t.Y), num(t.Scale))
	buf.WriteString(`    <rect id="background-rect" width="100%" height="100%" fill="white"/>` + "\n")

	for _, e := range s.Edges {
		renderEdge(&buf, e)
	}
	for _, n := range s.Nodes {
		r.renderNode(&buf, n, n.ID == s.Selected)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r renderer) size(s *layout.Scene) (float64, float64) {
	w, h := viewport.CanvasSize(r.width, r.height, r.compact)
	if r.width > 0 {
		w = r.width
	}
	if r.height > 0 {
		h = r.height
	}
	if r.width == 0 || r.height == 0 {
		b := s.Bounds()
		if r.width == 0 {
			w = max(w, b.X+b.Width+b.X)
		}
		if r.height == 0 {
			h = max(h, b.Y+b.Height+b.Y)
		}
	}
	return w, h
}

func renderEdge(buf *bytes.Buffer, e layout.Edge) {
	if e.Kind.Dashed() {
		fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2" stroke-dasharray="%s"/>`+"\n",
			num(e.X1), num(e.Y1), num(e.X2), num(e.Y2), escape(e.Color), DashArray)
		return
	}
	fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="3"/>`+"\n",
		num(e.X1), num(e.Y1), num(e.X2), num(e.Y2), escape(e.Color))
}

func (r renderer) renderNode(buf *bytes.Buffer, n layout.Node, selected bool) {
	class, fill, stroke, strokeW := "child", ChildFill, n.Color, "2"
	textFill, fontSize, weight := ChildText, "12", "500"
	if r.compact {
		fontSize = "11"
	}
	if n.IsStage() {
		class, fill, stroke = "stage", n.Color, StageStroke
		textFill, fontSize, weight = StageText, "13", "600"
		if selected {
			stroke, strokeW = SelectedStroke, "3"
		}
	}

	fmt.Fprintf(buf, `    <g class="node %s" data-node-id="%s" data-kind="%s">`+"\n", class, escape(n.ID), n.Kind)
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		num(n.X), num(n.Y), num(n.Width), num(n.Height), num(n.Radius), escape(fill), escape(stroke), strokeW)
	for _, l := range n.Lines {
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="%s" font-weight="%s" fill="%s">%s</text>`+"\n",
			num(l.X), num(l.Y), fontSize, weight, textFill, escape(l.Text))
	}
	buf.WriteString("    </g>\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
