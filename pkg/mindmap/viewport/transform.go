// Package viewport implements pan and zoom for a mind-map scene.
//
// A [Transform] maps scene coordinates to screen coordinates:
//
//	screen = scene*Scale + (X, Y)
//
// The [Controller] owns the current transform and a two-state machine
// (Idle, Dragging). Every zoom is anchored: the scene point under the focal
// point (the cursor for wheel zoom, the viewport centre for button zoom)
// stays under it. Scale is always clamped to [MinScale, MaxScale]; out of
// range requests are clamped silently, never reported as errors.
package viewport

import "math"

// Transform is a uniform-scale 2-D affine transform.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the untransformed view.
func Identity() Transform { return Transform{Scale: 1} }

// ToWorld maps a screen point to scene coordinates.
func (t Transform) ToWorld(sx, sy float64) (float64, float64) {
	return (sx - t.X) / t.Scale, (sy - t.Y) / t.Scale
}

// ToScreen maps a scene point to screen coordinates.
func (t Transform) ToScreen(wx, wy float64) (float64, float64) {
	return wx*t.Scale + t.X, wy*t.Scale + t.Y
}

// ZoomAt returns t rescaled to scale with the scene point under (fx, fy)
// kept in place. The caller clamps scale.
func (t Transform) ZoomAt(scale, fx, fy float64) Transform {
	wx, wy := t.ToWorld(fx, fy)
	return Transform{X: fx - wx*scale, Y: fy - wy*scale, Scale: scale}
}

// Percent returns the scale as a rounded percentage, as shown next to the
// zoom buttons.
func (t Transform) Percent() int { return int(math.Round(t.Scale * 100)) }

// Interpolate blends from towards to with cubic ease-in-out; p is clamped
// to [0, 1]. Hosts call it once per frame to animate button zoom and reset.
func Interpolate(from, to Transform, p float64) Transform {
	p = max(0, min(1, p))
	var e float64
	if p < 0.5 {
		e = 4 * p * p * p
	} else {
		f := -2*p + 2
		e = 1 - f*f*f/2
	}
	lerp := func(a, b float64) float64 { return a + (b-a)*e }
	return Transform{X: lerp(from.X, to.X), Y: lerp(from.Y, to.Y), Scale: lerp(from.Scale, to.Scale)}
}

// Canvas minimums keep the whole diagram reachable on small hosts.
const (
	MinCanvasWidth         = 1600
	MinCanvasHeight        = 2000
	MinCompactCanvasWidth  = 1000
	MinCompactCanvasHeight = 1200
)

// CanvasSize returns the drawing surface size for a host of w by h pixels.
// The surface is taller than the host so long roadmaps can be scrolled into
// view.
func CanvasSize(w, h float64, compact bool) (float64, float64) {
	if compact {
		return max(MinCompactCanvasWidth, w), max(MinCompactCanvasHeight, h*1.2)
	}
	return max(MinCanvasWidth, w), max(MinCanvasHeight, h*1.5)
}
