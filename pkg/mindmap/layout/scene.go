package layout

import (
	"fmt"

	"github.com/yolcu/mindmap/pkg/mindmap/textwrap"
)

// Kind classifies scene nodes.
type Kind int

const (
	KindStage   Kind = iota // top-level stage
	KindCentral             // synthetic central topic of a sub-group
	KindLeaf                // leaf item
)

var kindNames = [...]string{"stage", "central", "leaf"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", b)
}

// Side is the column a child node sits in.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

var sideNames = [...]string{"", "left", "right"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("side(%d)", int(s))
	}
	return sideNames[s]
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	for i, n := range sideNames {
		if n == string(b) {
			*s = Side(i)
			return nil
		}
	}
	return fmt.Errorf("unknown side %q", b)
}

// EdgeKind distinguishes the solid stage chain from dashed child connectors.
type EdgeKind int

const (
	EdgeStage EdgeKind = iota
	EdgeChild
)

func (k EdgeKind) String() string {
	if k == EdgeChild {
		return "child"
	}
	return "stage"
}

func (k EdgeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *EdgeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "stage":
		*k = EdgeStage
	case "child":
		*k = EdgeChild
	default:
		return fmt.Errorf("unknown edge kind %q", b)
	}
	return nil
}

// Dashed reports whether the edge is drawn dashed.
func (k EdgeKind) Dashed() bool { return k == EdgeChild }

// TextLine is a wrapped label line centred on its point.
type TextLine = textwrap.Line

// Child is an entry in a stage's synthesized topic list.
type Child struct {
	ID    string `json:"id" msgpack:"id"`
	Label string `json:"label" msgpack:"label"`
	Kind  Kind   `json:"kind" msgpack:"kind"`
}

// Node is a positioned rectangle. (X, Y) is the top-left corner.
type Node struct {
	ID     string  `json:"id" msgpack:"id"`
	Label  string  `json:"label" msgpack:"label"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Width  float64 `json:"width" msgpack:"w"`
	Height float64 `json:"height" msgpack:"h"`
	Radius float64 `json:"radius" msgpack:"r"`
	Color  string  `json:"color" msgpack:"color"`
	Kind   Kind    `json:"kind" msgpack:"kind"`

	// Children lists the topics a stage expands into, positioned or not.
	Children []Child `json:"children,omitempty" msgpack:"children,omitempty"`

	// Parent and Side are set on positioned child nodes.
	Parent string `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Side   Side   `json:"side,omitempty" msgpack:"side,omitempty"`

	Lines []TextLine `json:"lines,omitempty" msgpack:"lines,omitempty"`
}

// IsStage reports whether n is a top-level stage node.
func (n Node) IsStage() bool { return n.Kind == KindStage }

// Center returns the centre point of the node.
func (n Node) Center() (float64, float64) { return n.X + n.Width/2, n.Y + n.Height/2 }

// Contains reports whether the point lies inside the node's rectangle.
// Edges are inclusive.
func (n Node) Contains(x, y float64) bool {
	return x >= n.X && x <= n.X+n.Width && y >= n.Y && y <= n.Y+n.Height
}

// Edge is a straight connector between two nodes, with resolved endpoints.
type Edge struct {
	From  string   `json:"from" msgpack:"from"`
	To    string   `json:"to" msgpack:"to"`
	Kind  EdgeKind `json:"kind" msgpack:"kind"`
	X1    float64  `json:"x1" msgpack:"x1"`
	Y1    float64  `json:"y1" msgpack:"y1"`
	X2    float64  `json:"x2" msgpack:"x2"`
	Y2    float64  `json:"y2" msgpack:"y2"`
	Color string   `json:"color" msgpack:"color"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.Width, o.X+o.Width), max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Scene is the output of [Layout]. Nodes are in paint order: stages first,
// then the expanded stage's children. Edges are painted before nodes.
type Scene struct {
	Title    string `json:"title" msgpack:"title"`
	Selected string `json:"selected,omitempty" msgpack:"selected,omitempty"`
	Nodes    []Node `json:"nodes" msgpack:"nodes"`
	Edges    []Edge `json:"edges" msgpack:"edges"`
}

// Node returns the node with the given id.
func (s *Scene) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeAt returns the topmost node containing the scene point (x, y).
func (s *Scene) NodeAt(x, y float64) (Node, bool) {
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		if s.Nodes[i].Contains(x, y) {
			return s.Nodes[i], true
		}
	}
	return Node{}, false
}

// Stages returns the stage nodes in order.
func (s *Scene) Stages() []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.IsStage() {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the positioned child nodes of the expanded stage.
func (s *Scene) Children() []Node {
	var out []Node
	for _, n := range s.Nodes {
		if !n.IsStage() {
			out = append(out, n)
		}
	}
	return out
}

// Bounds returns the union of all node rectangles.
func (s *Scene) Bounds() Rect {
	var r Rect
	for _, n := range s.Nodes {
		r = r.Union(Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height})
	}
	return r
}
