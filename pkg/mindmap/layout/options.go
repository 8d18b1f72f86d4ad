package layout

import (
	"fmt"

	"github.com/yolcu/mindmap/pkg/mindmap/textwrap"
)

// DefaultPalette colours stages in order, wrapping around.
var DefaultPalette = []string{
	"#4ECDC4", "#FF6B6B", "#45B7D1", "#F7DC6F", "#96CEB4",
	"#DDA0DD", "#98D8C8", "#FFEAA7", "#FF7675", "#74B9FF",
}

// StageEdgeColor is the stroke of stage-to-stage connectors.
const StageEdgeColor = "#D1D5DB"

// Options holds the layout constants. All lengths are scene pixels.
type Options struct {
	StartY       float64
	CenterX      float64
	StageSpacing float64

	StageWidth  float64
	StageHeight float64
	StageRadius float64

	ChildWidth   float64
	ChildHeight  float64
	ChildRadius  float64
	ChildSpacing float64 // vertical pitch between child tops
	ColumnGap    float64 // horizontal gap between a stage and its child columns

	StageLabelWidth float64
	ChildLabelWidth float64
	StageLineHeight float64
	ChildLineHeight float64

	Palette []string
	Wrap    textwrap.Options

	Compact bool
}

// DefaultOptions returns the desktop layout.
func DefaultOptions() Options {
	return Options{
		StartY:       150,
		CenterX:      800,
		StageSpacing: 300,

		StageWidth:  200,
		StageHeight: 50,
		StageRadius: 25,

		ChildWidth:   250,
		ChildHeight:  35,
		ChildRadius:  17,
		ChildSpacing: 50,
		ColumnGap:    20,

		StageLabelWidth: 180,
		ChildLabelWidth: 230,
		StageLineHeight: 16,
		ChildLineHeight: 14,

		Palette: DefaultPalette,
		Wrap:    textwrap.Navigation(),
	}
}

// CompactOptions returns the layout for narrow viewports: slimmer children
// packed closer together.
func CompactOptions() Options {
	o := DefaultOptions()
	o.ChildWidth = 200
	o.ChildSpacing = 40
	o.ChildLabelWidth = 180
	o.Compact = true
	return o
}

// Validate reports options that would produce a degenerate scene.
func (o Options) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"stage width", o.StageWidth},
		{"stage height", o.StageHeight},
		{"child width", o.ChildWidth},
		{"child height", o.ChildHeight},
		{"stage spacing", o.StageSpacing},
		{"child spacing", o.ChildSpacing},
	} {
		if f.v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", f.name, f.v)
		}
	}
	if o.ColumnGap < 0 {
		return fmt.Errorf("column gap must not be negative, got %v", o.ColumnGap)
	}
	return nil
}

func (o Options) color(i int) string {
	p := o.Palette
	if len(p) == 0 {
		p = DefaultPalette
	}
	return p[i%len(p)]
}
