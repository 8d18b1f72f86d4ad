package viewport

import (
	"fmt"
	"math"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
)

// Defaults.
const (
	DefaultMinScale         = 0.3
	DefaultMaxScale         = 5.0
	DefaultZoomStep         = 1.2
	DefaultWheelSensitivity = 0.002
)

// scaleEpsilon absorbs float error when comparing against the scale limits.
const scaleEpsilon = 1e-9

// State is the pointer state of a Controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a Controller.
type Options struct {
	MinScale         float64
	MaxScale         float64
	ZoomStep         float64 // button zoom factor; zoom out divides by it
	WheelSensitivity float64 // scale change per wheel delta unit

	// Width and Height are the viewport size; button zoom anchors at its centre.
	Width  float64
	Height float64
}

// DefaultOptions returns the standard limits for a viewport of w by h.
func DefaultOptions(w, h float64) Options {
	return Options{
		MinScale:         DefaultMinScale,
		MaxScale:         DefaultMaxScale,
		ZoomStep:         DefaultZoomStep,
		WheelSensitivity: DefaultWheelSensitivity,
		Width:            w,
		Height:           h,
	}
}

// Validate reports inconsistent limits.
func (o Options) Validate() error {
	if o.MinScale <= 0 || o.MaxScale < o.MinScale {
		return fmt.Errorf("invalid scale range [%v, %v]", o.MinScale, o.MaxScale)
	}
	if o.ZoomStep <= 1 {
		return fmt.Errorf("zoom step must be greater than 1, got %v", o.ZoomStep)
	}
	if o.WheelSensitivity <= 0 {
		return fmt.Errorf("wheel sensitivity must be positive, got %v", o.WheelSensitivity)
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("viewport size must not be negative, got %vx%v", o.Width, o.Height)
	}
	return nil
}

// Controller owns the view transform of one diagram session.
// It is not safe for concurrent use.
type Controller struct {
	opts  Options
	t     Transform
	state State

	// Drag anchor: pointer position minus translate at drag start.
	anchorX, anchorY float64
}

// New returns an Idle controller at the identity transform. Zero-valued
// option fields take their defaults.
func New(opts Options) *Controller {
	d := DefaultOptions(opts.Width, opts.Height)
	if opts.MinScale <= 0 {
		opts.MinScale = d.MinScale
	}
	if opts.MaxScale <= 0 {
		opts.MaxScale = d.MaxScale
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = opts.MinScale
	}
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = d.ZoomStep
	}
	if opts.WheelSensitivity <= 0 {
		opts.WheelSensitivity = d.WheelSensitivity
	}
	return &Controller{opts: opts, t: Identity()}
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.t }

// SetTransform replaces the transform, clamping its scale.
func (c *Controller) SetTransform(t Transform) {
	t.Scale = c.clamp(t.Scale)
	c.t = t
}

// State returns the pointer state.
func (c *Controller) State() State { return c.state }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.state == Dragging }

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// Size returns the viewport size.
func (c *Controller) Size() (float64, float64) { return c.opts.Width, c.opts.Height }

// clamp bounds s to the scale limits. NaN keeps the current scale.
func (c *Controller) clamp(s float64) float64 {
	if math.IsNaN(s) {
		return c.t.Scale
	}
	return max(c.opts.MinScale, min(c.opts.MaxScale, s))
}

// =============================================================================
// Drag
// =============================================================================

// BeginDrag enters Dragging with the pointer at (px, py).
func (c *Controller) BeginDrag(px, py float64) {
	c.anchorX = px - c.t.X
	c.anchorY = py - c.t.Y
	c.state = Dragging
}

// Drag re-bases the translate on the drag anchor. It returns false, and does
// nothing, when no drag is in progress.
func (c *Controller) Drag(px, py float64) bool {
	if c.state != Dragging {
		return false
	}
	c.t.X = px - c.anchorX
	c.t.Y = py - c.anchorY
	return true
}

// EndDrag returns to Idle. Pointer up and pointer leave both end a drag.
func (c *Controller) EndDrag() {
	c.state = Idle
}

// =============================================================================
// Zoom
// =============================================================================

// Zoom adds delta to the scale, anchored at (fx, fy).
func (c *Controller) Zoom(delta, fx, fy float64) {
	c.zoomTo(c.t.Scale+delta, fx, fy)
}

// ZoomBy multiplies the scale by factor, anchored at (fx, fy).
func (c *Controller) ZoomBy(factor, fx, fy float64) {
	if factor <= 0 {
		return
	}
	c.zoomTo(c.t.Scale*factor, fx, fy)
}

// zoomTo commits the clamped scale anchored at (fx, fy). A zoom that the
// limits absorb entirely leaves the transform untouched.
func (c *Controller) zoomTo(scale, fx, fy float64) {
	scale = c.clamp(scale)
	if scale == c.t.Scale {
		return
	}
	c.t = c.t.ZoomAt(scale, fx, fy)
}

// Wheel zooms for a wheel event with vertical delta deltaY at the cursor.
// Scrolling up (negative deltaY) zooms in.
func (c *Controller) Wheel(deltaY, fx, fy float64) {
	c.Zoom(-deltaY*c.opts.WheelSensitivity, fx, fy)
}

// ZoomIn zooms one step in towards the viewport centre.
func (c *Controller) ZoomIn() {
	c.ZoomBy(c.opts.ZoomStep, c.opts.Width/2, c.opts.Height/2)
}

// ZoomOut zooms one step out from the viewport centre.
func (c *Controller) ZoomOut() {
	c.ZoomBy(1/c.opts.ZoomStep, c.opts.Width/2, c.opts.Height/2)
}

// CanZoomIn reports whether the scale is below the maximum.
func (c *Controller) CanZoomIn() bool { return c.t.Scale < c.opts.MaxScale-scaleEpsilon }

// CanZoomOut reports whether the scale is above the minimum.
func (c *Controller) CanZoomOut() bool { return c.t.Scale > c.opts.MinScale+scaleEpsilon }

// =============================================================================
// View controls
// =============================================================================

// Reset returns to the identity transform.
func (c *Controller) Reset() {
	c.t = Identity()
}

// Resize changes the viewport size. The transform and drag state are kept.
func (c *Controller) Resize(w, h float64) {
	c.opts.Width = max(0, w)
	c.opts.Height = max(0, h)
}

// FitTo scales and centres r inside the viewport, leaving padding on every
// side. It does nothing for an empty rectangle or viewport.
func (c *Controller) FitTo(r layout.Rect, padding float64) {
	if r.Empty() || c.opts.Width <= 0 || c.opts.Height <= 0 {
		return
	}
	availW := max(1, c.opts.Width-2*padding)
	availH := max(1, c.opts.Height-2*padding)
	s := c.clamp(min(availW/r.Width, availH/r.Height))
	c.t = Transform{
		X:     (c.opts.Width-r.Width*s)/2 - r.X*s,
		Y:     (c.opts.Height-r.Height*s)/2 - r.Y*s,
		Scale: s,
	}
}

// CenterOn pans so the scene point (x, y) sits at the viewport centre,
// keeping the current scale.
func (c *Controller) CenterOn(x, y float64) {
	c.t.X = c.opts.Width/2 - x*c.t.Scale
	c.t.Y = c.opts.Height/2 - y*c.t.Scale
}
