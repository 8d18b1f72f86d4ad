package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
)

// pointsPerInch converts scene pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Free drops node positions and lets Graphviz lay the graph out with
	// dot, top to bottom. By default nodes are pinned at their scene
	// positions and neato only routes the edges.
	Free bool
}

// ToDOT converts a scene to Graphviz DOT.
//
// Stage nodes are filled with their stage colour, the selected one with a
// thick dark outline. Child nodes are white with a stage-coloured outline and
// dashed connectors, as on screen.
func ToDOT(s *layout.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Free {
		buf.WriteString("  rankdir=TB;\n")
	} else {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=line;\n")
	}
	buf.WriteString("  bgcolor=\"white\";\n")
	if s.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", s.Title)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fixedsize=true];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		attrs := nodeAttrs(n, n.ID == s.Selected, opts.Free)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		attrs := []string{fmt.Sprintf("color=%q", e.Color)}
		if e.Kind.Dashed() {
			attrs = append(attrs, "style=dashed", "penwidth=2")
		} else {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n layout.Node, selected, free bool) []string {
	label := n.Label
	if len(n.Lines) > 0 {
		parts := make([]string, len(n.Lines))
		for i, l := range n.Lines {
			parts[i] = l.Text
		}
		label = strings.Join(parts, "\n")
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		"width=" + inches(n.Width),
		"height=" + inches(n.Height),
	}
	if !free {
		cx, cy := n.Center()
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", inches(cx), inches(-cy)))
	}

	if n.IsStage() {
		stroke, pen := "white", "2"
		if selected {
			stroke, pen = "#1F2937", "3"
		}
		return append(attrs,
			fmt.Sprintf("fillcolor=%q", n.Color),
			fmt.Sprintf("color=%q", stroke),
			"penwidth="+pen,
			"fontsize=13",
			"fontcolor=\"#1F2937\"")
	}
	return append(attrs,
		"fillcolor=white",
		fmt.Sprintf("color=%q", n.Color),
		"penwidth=2",
		"fontsize=12",
		"fontcolor=\"#374151\"")
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 3, 64)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if strings.Contains(dot, "layout=neato;") {
		gv.SetLayout(graphviz.NEATO)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
