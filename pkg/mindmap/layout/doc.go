// Package layout turns roadmap content into a positioned mind-map scene.
//
// # Overview
//
// A roadmap is drawn as a vertical chain of stage nodes. Exactly zero or one
// stage is expanded at a time; the expanded stage fans its topics out into
// two columns of child nodes, one on each side, connected back to the stage
// with dashed edges.
//
//	           [ stage-0 ]
//	                |
//	[child]- - [ stage-1 ] - -[child]
//	[child]- -/          \- -[child]
//	                |
//	           [ stage-2 ]
//
// [Layout] is a pure function of (content, selected stage id, options): the
// same arguments always give the same node positions and edge list. Callers
// that redraw on every pan or zoom wrap it in a [Memo] so the scene is only
// rebuilt when the selection changes.
//
// # Geometry
//
// Stage i is placed at (CenterX - StageWidth/2, StartY + i*StageSpacing) and
// coloured Palette[i mod len(Palette)]. Stage edges join node centres.
//
// The expanded stage's topics are flattened in source order: for every
// sub-group its central topic, then its left items, then its right items.
// The first ceil(n/2) topics form the left column and the rest the right
// column. Each column is a fixed-pitch stack centred on the stage's vertical
// centre and separated from it by ColumnGap.
//
// Labels are wrapped with [textwrap] at layout time. Wrapping positions text
// only and never changes node geometry.
//
// # Hit testing
//
// [Scene.NodeAt] tests points in scene space against node rectangles in
// reverse paint order, so children drawn over a stage win.
//
// [textwrap]: github.com/yolcu/mindmap/pkg/mindmap/textwrap
package layout
