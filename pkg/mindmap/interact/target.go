// Package interact routes pointer and wheel input for a mind-map view.
//
// Input is classified against the layout's own geometry, not against whatever
// the host happened to draw: a screen point is mapped into scene space with
// the current transform and hit-tested with [layout.Scene.NodeAt]. Presses on
// the background pan, presses on a stage toggle the selection, and presses on
// a child node fire an external activation callback.
package interact

import (
	"fmt"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
)

// TargetKind is what a screen point landed on.
type TargetKind int

const (
	Background TargetKind = iota
	StageNode
	ChildNode
)

var targetNames = [...]string{"background", "stage", "child"}

func (k TargetKind) String() string {
	if k < 0 || int(k) >= len(targetNames) {
		return fmt.Sprintf("target(%d)", int(k))
	}
	return targetNames[k]
}

func (k TargetKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Target is the result of classifying a point. ID is empty for Background.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// Classify hit-tests the screen point (sx, sy) against scene s drawn under t.
// A nil scene is all background.
func Classify(s *layout.Scene, t viewport.Transform, sx, sy float64) Target {
	if s == nil || t.Scale == 0 {
		return Target{Kind: Background}
	}
	wx, wy := t.ToWorld(sx, sy)
	n, ok := s.NodeAt(wx, wy)
	switch {
	case !ok:
		return Target{Kind: Background}
	case n.IsStage():
		return Target{Kind: StageNode, ID: n.ID}
	default:
		return Target{Kind: ChildNode, ID: n.ID}
	}
}
