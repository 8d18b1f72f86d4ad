// Package mindmap is the roadmap mind-map engine: one [View] per diagram
// session, tying together layout, viewport and input routing.
//
// # Overview
//
// The engine is split into leaf packages, each usable on its own:
//
//   - [textwrap]: fixed-advance greedy word wrap for node labels.
//   - [layout]: pure (content, selection) -> scene layout, plus a memo.
//   - [viewport]: pan/zoom transform with anchor-preserving zoom.
//   - [interact]: hit-test classification and event dispatch.
//
// A View owns one of each and exposes what a host needs each frame:
//
//	v := mindmap.New(content, mindmap.Options{RoadmapID: 12, OnActivate: open})
//	v.Resize(1280, 800)
//	v.Handle(interact.Event{Type: interact.PointerDown, X: 640, Y: 175})
//	f := v.Frame() // scene + transform, ready to draw
//
// Views are single-threaded. Hosts serving several clients keep one View per
// client and serialize access to it.
//
// [textwrap]: github.com/yolcu/mindmap/pkg/mindmap/textwrap
// [layout]: github.com/yolcu/mindmap/pkg/mindmap/layout
// [viewport]: github.com/yolcu/mindmap/pkg/mindmap/viewport
// [interact]: github.com/yolcu/mindmap/pkg/mindmap/interact
package mindmap

import (
	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/interact"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

// DefaultSelection is the stage expanded when a view opens.
const DefaultSelection = "stage-0"

// DefaultFitPadding is the margin Fit leaves around the diagram.
const DefaultFitPadding = 40

// Options configures a View. The zero value is usable.
type Options struct {
	// Layout defaults to layout.DefaultOptions().
	Layout *layout.Options

	// Viewport limits and size. Zero fields take viewport defaults.
	Viewport viewport.Options

	// InitialSelection is the stage expanded on open; empty means
	// DefaultSelection. Set Collapsed to open with nothing expanded.
	InitialSelection string
	Collapsed        bool

	// RoadmapID and Mode resolve the path passed to OnActivate.
	RoadmapID int64
	Mode      interact.Mode

	// OnActivate is called when a child node is pressed.
	OnActivate func(nodeID, path string)
}

// Frame is everything a host needs to draw the current state.
type Frame struct {
	Scene      *layout.Scene      `json:"scene"`
	Transform  viewport.Transform `json:"transform"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Selected   string             `json:"selected,omitempty"`
	Dragging   bool               `json:"dragging"`
	Zoom       int                `json:"zoom"` // percent
	CanZoomIn  bool               `json:"can_zoom_in"`
	CanZoomOut bool               `json:"can_zoom_out"`
}

// View is one diagram view session.
type View struct {
	opts Options
	memo *layout.Memo
	vp   *viewport.Controller
	sel  *interact.Selection
	d    *interact.Dispatcher
}

// New opens a view of content.
func New(content roadmap.Content, opts Options) *View {
	lopts := layout.DefaultOptions()
	if opts.Layout != nil {
		lopts = *opts.Layout
	}

	initial := opts.InitialSelection
	if initial == "" {
		initial = DefaultSelection
	}
	if opts.Collapsed {
		initial = ""
	}

	v := &View{
		opts: opts,
		memo: layout.NewMemo(content, lopts),
		vp:   viewport.New(opts.Viewport),
		sel:  interact.NewSelection(initial),
	}
	v.d = interact.NewDispatcher(v.scene, v.vp, v.sel, v.activate)
	return v
}

func (v *View) scene() *layout.Scene {
	return v.memo.Scene(v.sel.Selected())
}

func (v *View) activate(nodeID string) {
	if v.opts.OnActivate != nil {
		v.opts.OnActivate(nodeID, v.opts.Mode.Path(v.opts.RoadmapID, nodeID))
	}
}

// Frame returns the render-ready state. The scene is shared with later
// frames and must not be modified.
func (v *View) Frame() Frame {
	s := v.scene()
	t := v.vp.Transform()
	w, h := v.vp.Size()
	return Frame{
		Scene:      s,
		Transform:  t,
		Width:      w,
		Height:     h,
		Selected:   s.Selected,
		Dragging:   v.vp.Dragging(),
		Zoom:       t.Percent(),
		CanZoomIn:  v.vp.CanZoomIn(),
		CanZoomOut: v.vp.CanZoomOut(),
	}
}

// Handle routes one input event.
func (v *View) Handle(e interact.Event) interact.Result {
	return v.d.Dispatch(e)
}

// ZoomIn zooms one step towards the viewport centre.
func (v *View) ZoomIn() { v.vp.ZoomIn() }

// ZoomOut zooms one step away from the viewport centre.
func (v *View) ZoomOut() { v.vp.ZoomOut() }

// ResetView restores the identity transform. The selection is kept.
func (v *View) ResetView() { v.vp.Reset() }

// Resize updates the viewport size only.
func (v *View) Resize(w, h float64) { v.vp.Resize(w, h) }

// Fit scales the current scene to fill the viewport.
func (v *View) Fit(padding float64) {
	v.vp.FitTo(v.scene().Bounds(), padding)
}

// Focus centres the viewport on a node of the current scene.
func (v *View) Focus(nodeID string) bool {
	n, ok := v.scene().Node(nodeID)
	if !ok {
		return false
	}
	v.vp.CenterOn(n.Center())
	return true
}

// SetTransform replaces the view transform; hosts use it to step animations.
func (v *View) SetTransform(t viewport.Transform) { v.vp.SetTransform(t) }

// Transform returns the current view transform.
func (v *View) Transform() viewport.Transform { return v.vp.Transform() }

// Selected returns the expanded stage id, or "".
func (v *View) Selected() string { return v.sel.Selected() }

// Select expands the stage with the given id, or collapses all for "".
func (v *View) Select(id string) error {
	if id != "" && v.memo.Content().StageIndex(id) < 0 {
		return errors.New(errors.ErrCodeInvalidSelection, "no stage %q", id)
	}
	v.sel.Set(id)
	return nil
}

// Content returns the roadmap content being viewed.
func (v *View) Content() roadmap.Content { return v.memo.Content() }

// LayoutOptions returns the layout options in use.
func (v *View) LayoutOptions() layout.Options { return v.memo.Options() }
