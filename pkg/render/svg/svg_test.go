package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

func scene(selected string) *layout.Scene {
	c := roadmap.Content{
		Title: "Web & Mobile",
		Stages: []roadmap.Stage{
			{Name: "Basics", SubGroups: []roadmap.SubGroup{{
				CentralTitle: "Markup",
				Left:         []roadmap.Item{{ID: "html", Name: "HTML <5>"}},
				Right:        []roadmap.Item{{ID: "css", Name: "CSS"}},
			}}},
			{Name: "Frameworks"},
		},
	}
	return layout.Layout(c, selected, layout.DefaultOptions())
}

func TestRenderWellFormed(t *testing.T) {
	out := Render(scene("stage-0"), WithInteraction())
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderStructure(t *testing.T) {
	out := string(Render(scene("stage-0")))

	tests := []struct {
		name string
		want string
	}{
		{"background", `<rect id="background-rect" width="100%" height="100%" fill="white"/>`},
		{"transform", `<g transform="translate(0, 0) scale(1)">`},
		{"title escaped", `<title>Web &amp; Mobile</title>`},
		{"stage edge", `<line x1="800" y1="175" x2="800" y2="475" stroke="#D1D5DB" stroke-width="3"/>`},
		{"dashed child edge", `stroke-width="2" stroke-dasharray="5,5"/>`},
		{"selected stage stroke", `stroke="#1F2937" stroke-width="3"/>`},
		{"unselected stage stroke", `stroke="white" stroke-width="2"/>`},
		{"node hook", `data-node-id="stage-0" data-kind="stage"`},
		{"leaf hook", `data-node-id="html" data-kind="leaf"`},
		{"label escaped", `HTML &lt;5&gt;</text>`},
		{"stage font", `font-size="13"`},
		{"child font", `font-size="12"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %s", tt.want)
			}
		})
	}

	if strings.Contains(out, "<style>") {
		t.Error("style block should need WithInteraction")
	}
}

func TestRenderCollapsed(t *testing.T) {
	out := string(Render(scene("")))
	if strings.Contains(out, "stroke-dasharray") {
		t.Error("collapsed scene should draw no child connectors")
	}
	if strings.Contains(out, `stroke="#1F2937"`) {
		t.Error("collapsed scene should highlight no stage")
	}
	if got := strings.Count(out, `class="node stage"`); got != 2 {
		t.Errorf("stage groups = %d, want 2", got)
	}
}

func TestRenderOptions(t *testing.T) {
	tr := viewport.Transform{X: 12.5, Y: -40, Scale: 1.44}
	out := string(Render(scene("stage-0"), WithTransform(tr), WithSize(800, 600), WithCompact()))

	for _, want := range []string{
		`<g transform="translate(12.5, -40) scale(1.44)">`,
		`viewBox="0 0 800 600" width="800" height="600"`,
		`font-size="11"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestRenderDefaultSize(t *testing.T) {
	out := string(Render(scene("")))
	if !strings.Contains(out, `viewBox="0 0 1600 2000"`) {
		t.Errorf("default canvas should be the desktop minimum:\n%s", out[:120])
	}

	out = string(Render(scene(""), WithCompact()))
	if !strings.Contains(out, `viewBox="0 0 1000 1200"`) {
		t.Errorf("compact canvas should be the mobile minimum:\n%s", out[:120])
	}
}

func TestRenderEmpty(t *testing.T) {
	out := string(Render(&layout.Scene{}))
	if !strings.Contains(out, "background-rect") || strings.Contains(out, "<line") {
		t.Errorf("empty scene should draw only the background:\n%s", out)
	}
}

func TestRenderEscapesPalette(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.Palette = []string{`red" onload="alert(1)`}
	c := roadmap.Content{Stages: []roadmap.Stage{
		{Name: "One", SubGroups: []roadmap.SubGroup{{CentralTitle: "Core"}}},
		{Name: "Two"},
	}}
	out := string(Render(layout.Layout(c, "stage-0", opts)))

	if strings.Contains(out, `" onload="`) {
		t.Fatalf("palette colour broke out of its attribute:\n%s", out)
	}
	if !strings.Contains(out, `fill="red&#34; onload=&#34;alert(1)"`) {
		t.Errorf("stage fill not escaped:\n%s", out)
	}
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		if _, err := dec.Token(); err != nil {
			if err != io.EOF {
				t.Errorf("invalid XML: %v", err)
			}
			break
		}
	}
}
