package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/render"
	"github.com/yolcu/mindmap/pkg/render/dot"
	"github.com/yolcu/mindmap/pkg/render/svg"
	"github.com/yolcu/mindmap/pkg/render/term"
	"golang.org/x/sync/errgroup"
)

// Minimum frame derived from scene bounds when no size is given.
const (
	minFrameWidth  = 640
	minFrameHeight = 320
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s *layout.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	t, w, h := frame(s, opts)
	compact := opts.LayoutOptions().Compact

	var doc []byte
	if needsSVG(opts.Formats) {
		sopts := []svg.Option{svg.WithTransform(t)}
		if opts.Fit || opts.Width > 0 || opts.Height > 0 {
			sopts = append(sopts, svg.WithSize(w, h))
		}
		if compact {
			sopts = append(sopts, svg.WithCompact())
		}
		if opts.Interactive {
			sopts = append(sopts, svg.WithInteraction())
		}
		doc = svg.Render(s, sopts...)
	}

	// Indices are unique per goroutine, so results needs no lock.
	results := make([][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			var data []byte
			var err error

			switch format {
			case FormatSVG:
				data = doc
			case FormatJSON:
				data, err = json.MarshalIndent(s, "", "  ")
			case FormatDOT:
				data = []byte(dot.ToDOT(s, dot.Options{Free: opts.FreeDOT}))
			case FormatPNG:
				data, err = dot.RenderPNG(gctx, dot.ToDOT(s, dot.Options{Free: opts.FreeDOT}))
			case FormatPDF:
				data, err = render.ToPDF(gctx, doc)
			case FormatTXT:
				cols, rows := int(w/term.CellWidth), int(h/term.CellHeight)
				data = []byte(term.Render(s, t, cols, rows).String() + "\n")
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
			}

			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for i, format := range opts.Formats {
		artifacts[format] = results[i]
	}

	return artifacts, nil
}

// frame resolves the view transform and frame size for a render. Without an
// explicit size the frame wraps the scene with its left and top margins
// mirrored on the other sides.
func frame(s *layout.Scene, opts Options) (viewport.Transform, float64, float64) {
	b := s.Bounds()
	w, h := opts.Width, opts.Height
	if w == 0 {
		w = max(minFrameWidth, math.Ceil(2*b.X+b.Width))
	}
	if h == 0 {
		h = max(minFrameHeight, math.Ceil(2*b.Y+b.Height))
	}

	t := viewport.Identity()
	if opts.Transform != nil {
		t = *opts.Transform
	}
	if opts.Fit {
		vp := viewport.New(viewport.DefaultOptions(w, h))
		vp.FitTo(b, 40)
		t = vp.Transform()
	}
	return t, w, h
}

func needsSVG(formats []string) bool {
	for _, f := range formats {
		if f == FormatSVG || f == FormatPDF {
			return true
		}
	}
	return false
}
