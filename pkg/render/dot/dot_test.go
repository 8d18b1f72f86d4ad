package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

func scene(selected string) *layout.Scene {
	c := roadmap.Content{
		Title: "Backend",
		Stages: []roadmap.Stage{
			{Name: "Languages", SubGroups: []roadmap.SubGroup{{
				CentralTitle: "Compiled",
				Left:         []roadmap.Item{{ID: "go", Name: "Go"}},
				Right:        []roadmap.Item{{ID: "rust", Name: "Rust"}},
			}}},
			{Name: "Databases"},
		},
	}
	return layout.Layout(c, selected, layout.DefaultOptions())
}

func TestToDOT(t *testing.T) {
	src := ToDOT(scene("stage-0"), Options{})

	tests := []struct {
		name string
		want string
	}{
		{"pinned layout", "layout=neato;"},
		{"title", `label="Backend";`},
		{"stage pinned", `pos="11.111,-2.431!"`},
		{"selected outline", `color="#1F2937", penwidth=3`},
		{"unselected outline", `"stage-1" [label="Databases"`},
		{"stage chain", `"stage-0" -> "stage-1" [color="#D1D5DB", penwidth=3];`},
		{"dashed child", `"stage-0" -> "go" [`},
		{"child style", `fillcolor=white`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(src, tt.want) {
				t.Errorf("DOT missing %s\n%s", tt.want, src)
			}
		})
	}
	if got := strings.Count(src, "style=dashed"); got != 3 {
		t.Errorf("dashed edges = %d, want 3", got)
	}
}

func TestToDOTFree(t *testing.T) {
	src := ToDOT(scene(""), Options{Free: true})
	if strings.Contains(src, "pos=") || strings.Contains(src, "neato") {
		t.Error("free layout should not pin positions")
	}
	if !strings.Contains(src, "rankdir=TB;") {
		t.Error("free layout should run top to bottom")
	}
}

func TestToDOTEscapesLabels(t *testing.T) {
	s := &layout.Scene{Nodes: []layout.Node{{ID: `a"b`, Label: `say "hi"`, Width: 10, Height: 10}}}
	src := ToDOT(s, Options{})
	if !strings.Contains(src, `"a\"b" [label="say \"hi\""`) {
		t.Errorf("quotes not escaped:\n%s", src)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz render in short mode")
	}
	out, err := RenderSVG(context.Background(), ToDOT(scene("stage-0"), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(out, []byte("<svg")) || !bytes.Contains(out, []byte("Languages")) {
		t.Errorf("unexpected SVG output:\n%s", out)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("input without viewBox should pass through")
	}
}
