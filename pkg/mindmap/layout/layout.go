package layout

import (
	"github.com/yolcu/mindmap/pkg/mindmap/textwrap"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

// Layout positions every stage of c and, if selected names an existing
// stage, that stage's children. An unknown selection lays out no children
// and leaves Scene.Selected empty.
//
// Nil slices anywhere in c are treated as empty.
func Layout(c roadmap.Content, selected string, opts Options) *Scene {
	s := &Scene{
		Title: c.Title,
		Nodes: make([]Node, 0, len(c.Stages)),
		Edges: make([]Edge, 0, max(0, len(c.Stages)-1)),
	}

	for i, st := range c.Stages {
		n := stageNode(i, st, opts)
		if i > 0 {
			prev := s.Nodes[i-1]
			x1, y1 := prev.Center()
			x2, y2 := n.Center()
			s.Edges = append(s.Edges, Edge{
				From: prev.ID, To: n.ID, Kind: EdgeStage,
				X1: x1, Y1: y1, X2: x2, Y2: y2,
				Color: StageEdgeColor,
			})
		}
		s.Nodes = append(s.Nodes, n)
	}

	idx := c.StageIndex(selected)
	if idx < 0 {
		return s
	}
	s.Selected = selected
	expand(s, s.Nodes[idx], opts)
	return s
}

func stageNode(i int, st roadmap.Stage, opts Options) Node {
	n := Node{
		ID:       roadmap.StageID(i),
		Label:    st.Name,
		X:        opts.CenterX - opts.StageWidth/2,
		Y:        opts.StartY + float64(i)*opts.StageSpacing,
		Width:    opts.StageWidth,
		Height:   opts.StageHeight,
		Radius:   opts.StageRadius,
		Color:    opts.color(i),
		Kind:     KindStage,
		Children: flatten(i, st),
	}
	cx, cy := n.Center()
	n.Lines = textwrap.Place(textwrap.Wrap(n.Label, opts.StageLabelWidth, opts.Wrap), cx, cy, opts.StageLineHeight)
	return n
}

// flatten lists a stage's topics in source order: per sub-group the central
// topic, then left items, then right items.
func flatten(stageIndex int, st roadmap.Stage) []Child {
	if st.ItemCount() == 0 {
		return nil
	}
	out := make([]Child, 0, st.ItemCount())
	for _, g := range st.SubGroups {
		out = append(out, Child{
			ID:    roadmap.CentralID(stageIndex, g.CentralTitle),
			Label: g.CentralTitle,
			Kind:  KindCentral,
		})
		for _, it := range g.Left {
			out = append(out, Child{ID: it.ID, Label: it.Name, Kind: KindLeaf})
		}
		for _, it := range g.Right {
			out = append(out, Child{ID: it.ID, Label: it.Name, Kind: KindLeaf})
		}
	}
	return out
}

// expand appends the two child columns of parent and their dashed edges.
func expand(s *Scene, parent Node, opts Options) {
	if len(parent.Children) == 0 {
		return
	}
	half := (len(parent.Children) + 1) / 2
	column(s, parent, parent.Children[:half], SideLeft, opts)
	column(s, parent, parent.Children[half:], SideRight, opts)
}

func column(s *Scene, parent Node, children []Child, side Side, opts Options) {
	if len(children) == 0 {
		return
	}

	_, cy := parent.Center()
	span := float64(len(children)-1)*opts.ChildSpacing + opts.ChildHeight
	top := cy - span/2

	x := parent.X + parent.Width + opts.ColumnGap
	ex := parent.X + parent.Width
	if side == SideLeft {
		x = parent.X - opts.ColumnGap - opts.ChildWidth
		ex = parent.X
	}

	for i, ch := range children {
		n := Node{
			ID:     ch.ID,
			Label:  ch.Label,
			X:      x,
			Y:      top + float64(i)*opts.ChildSpacing,
			Width:  opts.ChildWidth,
			Height: opts.ChildHeight,
			Radius: opts.ChildRadius,
			Color:  parent.Color,
			Kind:   ch.Kind,
			Parent: parent.ID,
			Side:   side,
		}
		ncx, ncy := n.Center()
		n.Lines = textwrap.Place(textwrap.Wrap(n.Label, opts.ChildLabelWidth, opts.Wrap), ncx, ncy, opts.ChildLineHeight)

		// Connect the parent's facing side to the child's near side.
		nx := n.X
		if side == SideLeft {
			nx = n.X + n.Width
		}
		s.Edges = append(s.Edges, Edge{
			From: parent.ID, To: n.ID, Kind: EdgeChild,
			X1: ex, Y1: cy, X2: nx, Y2: ncy,
			Color: parent.Color,
		})
		s.Nodes = append(s.Nodes, n)
	}
}
