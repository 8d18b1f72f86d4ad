// Package dot exports mind-map scenes as Graphviz graphs.
//
// # Overview
//
// [ToDOT] turns a [layout.Scene] into DOT source. By default every node is
// pinned at its scene position (neato with "pos=x,y!"), so Graphviz only
// draws what the layout engine already placed; with Options.Free the
// positions are dropped and Graphviz's dot engine arranges the graph.
//
//	src := dot.ToDOT(scene, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//	png, err := dot.RenderPNG(ctx, src)
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz as
// WebAssembly in-process. No system Graphviz install is needed.
//
// [layout.Scene]: github.com/yolcu/mindmap/pkg/mindmap/layout.Scene
package dot
