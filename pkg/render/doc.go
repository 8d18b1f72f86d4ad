// Package render holds the output backends for mind-map scenes.
//
// # Overview
//
// The engine produces a [layout.Scene] plus a view transform; the
// subpackages turn that into something a host can show:
//
//   - [svg]: a standalone SVG document, the same picture a browser host draws
//   - [dot]: Graphviz DOT export, rendered in-process to SVG or PNG
//   - [term]: a terminal cell grid with box nodes and braille connectors
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Both return an UNSUPPORTED error when it is not installed.
//
//	doc := svg.Render(scene)
//	pdf, err := render.ToPDF(ctx, doc)
//
// [layout.Scene]: github.com/yolcu/mindmap/pkg/mindmap/layout.Scene
// [svg]: github.com/yolcu/mindmap/pkg/render/svg
// [dot]: github.com/yolcu/mindmap/pkg/render/dot
// [term]: github.com/yolcu/mindmap/pkg/render/term
package render
