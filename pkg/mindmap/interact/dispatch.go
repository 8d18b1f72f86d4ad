package interact

import (
	"fmt"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
)

// EventType is the kind of raw input event.
type EventType int

const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	PointerLeave
	Wheel
)

var eventNames = [...]string{"pointerdown", "pointermove", "pointerup", "pointerleave", "wheel"}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(t))
	}
	return eventNames[t]
}

func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *EventType) UnmarshalText(b []byte) error {
	for i, n := range eventNames {
		if n == string(b) {
			*t = EventType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", b)
}

// Event is a pointer or wheel event in viewport (screen) coordinates.
type Event struct {
	Type   EventType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	DeltaY float64   `json:"delta_y,omitempty"`
}

// Result describes what Dispatch did with an event.
type Result struct {
	// Target is set for pointer-down events.
	Target Target `json:"target"`

	// PreventDefault asks the host to suppress its default handling
	// (page scroll for wheel events).
	PreventDefault bool `json:"prevent_default,omitempty"`

	// Transformed is set when the view transform changed.
	Transformed bool `json:"transformed,omitempty"`

	// SelectionChanged is set when a stage press toggled the selection.
	SelectionChanged bool `json:"selection_changed,omitempty"`

	// Activated is the child node id passed to the activation callback.
	Activated string `json:"activated,omitempty"`
}

// Dispatcher routes events to the viewport controller, the selection, or the
// activation callback. It is not safe for concurrent use.
type Dispatcher struct {
	scene    func() *layout.Scene
	vp       *viewport.Controller
	sel      *Selection
	activate ActivateFunc
}

// NewDispatcher creates a dispatcher. scene returns the scene currently on
// screen; it is consulted on every pointer-down. activate may be nil.
func NewDispatcher(scene func() *layout.Scene, vp *viewport.Controller, sel *Selection, activate ActivateFunc) *Dispatcher {
	return &Dispatcher{scene: scene, vp: vp, sel: sel, activate: activate}
}

// SetActivate replaces the activation callback.
func (d *Dispatcher) SetActivate(fn ActivateFunc) { d.activate = fn }

// Dispatch handles one event.
func (d *Dispatcher) Dispatch(e Event) Result {
	switch e.Type {
	case PointerDown:
		return d.pointerDown(e)

	case PointerMove:
		return Result{Transformed: d.vp.Drag(e.X, e.Y)}

	case PointerUp, PointerLeave:
		d.vp.EndDrag()
		return Result{}

	case Wheel:
		before := d.vp.Transform()
		d.vp.Wheel(e.DeltaY, e.X, e.Y)
		return Result{PreventDefault: true, Transformed: d.vp.Transform() != before}
	}
	return Result{}
}

func (d *Dispatcher) pointerDown(e Event) Result {
	var s *layout.Scene
	if d.scene != nil {
		s = d.scene()
	}
	target := Classify(s, d.vp.Transform(), e.X, e.Y)
	res := Result{Target: target}

	switch target.Kind {
	case Background:
		d.vp.BeginDrag(e.X, e.Y)
	case StageNode:
		d.sel.Toggle(target.ID)
		res.SelectionChanged = true
	case ChildNode:
		if d.activate != nil {
			d.activate(target.ID)
		}
		res.Activated = target.ID
	}
	return res
}
