package layout

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/yolcu/mindmap/pkg/roadmap"
)

// threeStages has 3 stages; the middle one holds 2 sub-groups of 3 topics
// each (central plus one left and one right item).
func threeStages() roadmap.Content {
	return roadmap.Content{
		Title: "Backend",
		Stages: []roadmap.Stage{
			{Name: "Foundations"},
			{Name: "Core Skills", SubGroups: []roadmap.SubGroup{
				{
					CentralTitle: "Web Basics",
					Left:         []roadmap.Item{{ID: "http", Name: "HTTP"}},
					Right:        []roadmap.Item{{ID: "dns", Name: "DNS"}},
				},
				{
					CentralTitle: "Data Stores",
					Left:         []roadmap.Item{{ID: "sql", Name: "SQL"}},
					Right:        []roadmap.Item{{ID: "nosql", Name: "NoSQL"}},
				},
			}},
			{Name: "Deployment", SubGroups: []roadmap.SubGroup{
				{CentralTitle: "Containers", Left: []roadmap.Item{{ID: "docker", Name: "Docker"}}},
			}},
		},
	}
}

func countEdges(s *Scene, kind EdgeKind) int {
	n := 0
	for _, e := range s.Edges {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestLayoutThreeStageScenario(t *testing.T) {
	c := threeStages()
	opts := DefaultOptions()

	s := Layout(c, "stage-1", opts)
	if got := len(s.Stages()); got != 3 {
		t.Fatalf("stages = %d, want 3", got)
	}
	if got := countEdges(s, EdgeStage); got != 2 {
		t.Errorf("stage edges = %d, want 2", got)
	}
	children := s.Children()
	if len(children) != 6 {
		t.Fatalf("children = %d, want 6", len(children))
	}
	var left, right, central int
	for _, n := range children {
		switch n.Side {
		case SideLeft:
			left++
		case SideRight:
			right++
		}
		if n.Kind == KindCentral {
			central++
		}
		if n.Parent != "stage-1" {
			t.Errorf("child %s parent = %q", n.ID, n.Parent)
		}
	}
	if left != 3 || right != 3 {
		t.Errorf("split = %d/%d, want 3/3", left, right)
	}
	if central != 2 {
		t.Errorf("central topics = %d, want 2", central)
	}
	if got := countEdges(s, EdgeChild); got != 6 {
		t.Errorf("dashed edges = %d, want 6", got)
	}
	for _, e := range s.Edges {
		if e.Kind.Dashed() != (e.Kind == EdgeChild) {
			t.Errorf("edge %s->%s dashed mismatch", e.From, e.To)
		}
	}

	none := Layout(c, "", opts)
	if len(none.Stages()) != 3 || countEdges(none, EdgeStage) != 2 {
		t.Errorf("unselected scene = %d stages, %d edges", len(none.Stages()), countEdges(none, EdgeStage))
	}
	if len(none.Children()) != 0 || countEdges(none, EdgeChild) != 0 {
		t.Errorf("unselected scene has %d children", len(none.Children()))
	}
	if none.Selected != "" {
		t.Errorf("Selected = %q, want empty", none.Selected)
	}
}

func TestLayoutGeometry(t *testing.T) {
	s := Layout(threeStages(), "stage-1", DefaultOptions())

	for i, n := range s.Stages() {
		wantY := 150 + float64(i)*300
		if n.X != 700 || n.Y != wantY || n.Width != 200 || n.Height != 50 {
			t.Errorf("stage %d rect = (%v,%v,%v,%v)", i, n.X, n.Y, n.Width, n.Height)
		}
		if n.Color != DefaultPalette[i] {
			t.Errorf("stage %d color = %s", i, n.Color)
		}
	}

	e := s.Edges[0]
	if e.X1 != 800 || e.Y1 != 175 || e.X2 != 800 || e.Y2 != 475 || e.Color != StageEdgeColor {
		t.Errorf("stage edge = %+v", e)
	}

	tests := []struct {
		id   string
		x, y float64
		side Side
	}{
		{"stage-1-central-web-basics", 430, 407.5, SideLeft},
		{"http", 430, 457.5, SideLeft},
		{"dns", 430, 507.5, SideLeft},
		{"stage-1-central-data-stores", 920, 407.5, SideRight},
		{"sql", 920, 457.5, SideRight},
		{"nosql", 920, 507.5, SideRight},
	}
	for _, tt := range tests {
		n, ok := s.Node(tt.id)
		if !ok {
			t.Errorf("node %s missing", tt.id)
			continue
		}
		if n.X != tt.x || n.Y != tt.y || n.Side != tt.side {
			t.Errorf("%s at (%v,%v) side %v, want (%v,%v) %v", tt.id, n.X, n.Y, n.Side, tt.x, tt.y, tt.side)
		}
		if n.Width != 250 || n.Height != 35 || n.Color != DefaultPalette[1] {
			t.Errorf("%s size/color = %v x %v %s", tt.id, n.Width, n.Height, n.Color)
		}
	}

	// Columns are centred on the parent's vertical centre.
	parent, _ := s.Node("stage-1")
	_, pcy := parent.Center()
	first, _ := s.Node("stage-1-central-web-basics")
	last, _ := s.Node("dns")
	if mid := (first.Y + last.Y + last.Height) / 2; mid != pcy {
		t.Errorf("left column centre = %v, want %v", mid, pcy)
	}

	for _, e := range s.Edges {
		if e.To != "http" {
			continue
		}
		if e.X1 != 700 || e.Y1 != 475 || e.X2 != 680 || e.Y2 != 475 || e.Color != DefaultPalette[1] {
			t.Errorf("child edge = %+v", e)
		}
	}
}

func TestLayoutOddSplit(t *testing.T) {
	c := roadmap.Content{Stages: []roadmap.Stage{{Name: "Only", SubGroups: []roadmap.SubGroup{
		{CentralTitle: "A", Left: []roadmap.Item{{ID: "a1"}, {ID: "a2"}}, Right: []roadmap.Item{{ID: "a3"}, {ID: "a4"}}},
	}}}}
	s := Layout(c, "stage-0", DefaultOptions())

	var order []string
	for _, n := range s.Children() {
		order = append(order, fmt.Sprintf("%s:%s", n.Side, n.ID))
	}
	want := []string{"left:stage-0-central-a", "left:a1", "left:a2", "right:a3", "right:a4"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	c := threeStages()
	for _, sel := range []string{"", "stage-0", "stage-1", "stage-2", "stage-9"} {
		a := Layout(c, sel, DefaultOptions())
		b := Layout(c, sel, DefaultOptions())
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Layout(%q) differs between calls", sel)
		}
		ea, _ := Encode(a)
		eb, _ := Encode(b)
		if string(ea) != string(eb) {
			t.Errorf("Layout(%q) encodings differ", sel)
		}
	}
}

func TestLayoutSelectionExclusive(t *testing.T) {
	c := threeStages()
	first := Layout(c, "stage-1", DefaultOptions())
	second := Layout(c, "stage-2", DefaultOptions())

	for _, n := range second.Children() {
		if n.Parent != "stage-2" {
			t.Errorf("child %s of %s present after selecting stage-2", n.ID, n.Parent)
		}
	}
	if len(second.Children()) != 2 {
		t.Errorf("stage-2 children = %d, want 2", len(second.Children()))
	}
	if _, ok := second.Node("http"); ok {
		t.Error("stage-1 child still laid out")
	}
	if _, ok := first.Node("docker"); ok {
		t.Error("stage-2 child laid out while stage-1 selected")
	}
}

func TestLayoutEdgeCases(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		s := Layout(roadmap.Content{}, "stage-0", DefaultOptions())
		if len(s.Nodes) != 0 || len(s.Edges) != 0 || s.Selected != "" {
			t.Errorf("scene = %+v", s)
		}
		if !s.Bounds().Empty() {
			t.Errorf("Bounds() = %+v, want empty", s.Bounds())
		}
	})

	t.Run("stage without sub-groups", func(t *testing.T) {
		s := Layout(threeStages(), "stage-0", DefaultOptions())
		if s.Selected != "stage-0" {
			t.Errorf("Selected = %q", s.Selected)
		}
		if len(s.Children()) != 0 {
			t.Errorf("children = %d, want 0", len(s.Children()))
		}
		st, _ := s.Node("stage-0")
		if st.Children != nil {
			t.Errorf("Children = %v, want nil", st.Children)
		}
	})

	t.Run("unknown selection", func(t *testing.T) {
		for _, sel := range []string{"stage-3", "stage-x", "http", "stage-01"} {
			s := Layout(threeStages(), sel, DefaultOptions())
			if len(s.Children()) != 0 || s.Selected != "" {
				t.Errorf("Layout(%q) expanded %d children", sel, len(s.Children()))
			}
		}
	})

	t.Run("nil item slices", func(t *testing.T) {
		c := roadmap.Content{Stages: []roadmap.Stage{{Name: "S", SubGroups: []roadmap.SubGroup{{CentralTitle: "Only Central"}}}}}
		s := Layout(c, "stage-0", DefaultOptions())
		ch := s.Children()
		if len(ch) != 1 || ch[0].ID != "stage-0-central-only-central" || ch[0].Side != SideLeft {
			t.Errorf("children = %+v", ch)
		}
	})

	t.Run("palette wraps", func(t *testing.T) {
		c := roadmap.Content{Stages: make([]roadmap.Stage, 12)}
		s := Layout(c, "", DefaultOptions())
		if s.Nodes[10].Color != DefaultPalette[0] || s.Nodes[11].Color != DefaultPalette[1] {
			t.Errorf("colors = %s, %s", s.Nodes[10].Color, s.Nodes[11].Color)
		}
	})

	t.Run("empty palette falls back", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Palette = nil
		s := Layout(threeStages(), "", opts)
		if s.Nodes[2].Color != DefaultPalette[2] {
			t.Errorf("color = %s", s.Nodes[2].Color)
		}
	})
}

func TestLayoutCompact(t *testing.T) {
	s := Layout(threeStages(), "stage-1", CompactOptions())
	left, _ := s.Node("http")
	right, _ := s.Node("sql")
	if left.Width != 200 || left.X != 700-20-200 {
		t.Errorf("left child = x %v w %v", left.X, left.Width)
	}
	if right.X != 920 {
		t.Errorf("right child x = %v, want 920", right.X)
	}
	central, _ := s.Node("stage-1-central-web-basics")
	if left.Y-central.Y != 40 {
		t.Errorf("pitch = %v, want 40", left.Y-central.Y)
	}
}

func TestLayoutWrapsLabels(t *testing.T) {
	c := roadmap.Content{Stages: []roadmap.Stage{{Name: "Introduction to Distributed Systems Design And More Words Here"}}}
	s := Layout(c, "", DefaultOptions())
	n := s.Nodes[0]
	if len(n.Lines) != 3 {
		t.Fatalf("lines = %d, want capped at 3", len(n.Lines))
	}
	cx, cy := n.Center()
	if n.Lines[1].X != cx || n.Lines[1].Y != cy {
		t.Errorf("middle line at (%v,%v), want node centre (%v,%v)", n.Lines[1].X, n.Lines[1].Y, cx, cy)
	}
	if n.Width != 200 || n.Height != 50 {
		t.Errorf("wrapping changed geometry: %v x %v", n.Width, n.Height)
	}
}

func TestSceneNodeAt(t *testing.T) {
	s := Layout(threeStages(), "stage-1", DefaultOptions())

	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{"stage centre", 800, 175, "stage-0"},
		{"stage corner", 700, 150, "stage-0"},
		{"left child", 500, 470, "http"},
		{"right child", 1000, 520, "nosql"},
		{"gap between stages", 800, 300, ""},
		{"column gap", 690, 475, ""},
		{"far away", -100, -100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := s.NodeAt(tt.x, tt.y)
			if tt.want == "" {
				if ok {
					t.Errorf("NodeAt = %s, want none", n.ID)
				}
				return
			}
			if !ok || n.ID != tt.want {
				t.Errorf("NodeAt = %q (%v), want %q", n.ID, ok, tt.want)
			}
		})
	}
}

func TestSceneBounds(t *testing.T) {
	s := Layout(threeStages(), "stage-1", DefaultOptions())
	b := s.Bounds()
	want := Rect{X: 430, Y: 150, Width: 1170 - 430, Height: 800 - 150}
	if b != want {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}
}

func TestEncodeDecode(t *testing.T) {
	s := Layout(threeStages(), "stage-1", DefaultOptions())
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Errorf("decoded scene differs:\n got %+v\nwant %+v", got, s)
	}
	if _, err := Decode([]byte{0xc1}); err == nil {
		t.Error("Decode of garbage should fail")
	}
}

func TestMemo(t *testing.T) {
	m := NewMemo(threeStages(), DefaultOptions())

	a := m.Scene("stage-1")
	b := m.Scene("stage-1")
	if a != b {
		t.Error("same selection should return the cached scene")
	}
	if m.Misses() != 1 {
		t.Errorf("misses = %d, want 1", m.Misses())
	}

	if m.Scene("bogus") != m.Scene("") {
		t.Error("unknown selections should share the unselected scene")
	}
	if m.Misses() != 2 {
		t.Errorf("misses = %d, want 2", m.Misses())
	}

	m.Reset(roadmap.Content{Stages: []roadmap.Stage{{Name: "New"}}}, CompactOptions())
	if s := m.Scene("stage-1"); len(s.Nodes) != 1 {
		t.Errorf("after Reset nodes = %d, want 1", len(s.Nodes))
	}
	if !m.Options().Compact {
		t.Error("Reset should replace options")
	}
}

func TestMemoConcurrent(t *testing.T) {
	m := NewMemo(threeStages(), DefaultOptions())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Scene(roadmap.StageID(i % 3))
		}(i)
	}
	wg.Wait()
	if m.Misses() != 3 {
		t.Errorf("misses = %d, want 3", m.Misses())
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("DefaultOptions invalid: %v", err)
	}
	if err := CompactOptions().Validate(); err != nil {
		t.Errorf("CompactOptions invalid: %v", err)
	}
	bad := DefaultOptions()
	bad.ChildHeight = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero child height should be invalid")
	}
	bad = DefaultOptions()
	bad.ColumnGap = -1
	if err := bad.Validate(); err == nil {
		t.Error("negative column gap should be invalid")
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindStage, KindCentral, KindLeaf} {
		b, _ := k.MarshalText()
		var got Kind
		if err := got.UnmarshalText(b); err != nil || got != k {
			t.Errorf("Kind %v round trip = %v, %v", k, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("unknown kind should fail")
	}
}
