package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/pipeline"
)

// renderFlags are the output flags shared by render and visualize.
type renderFlags struct {
	output      string
	formats     string
	width       float64
	height      float64
	fit         bool
	zoom        float64
	panX        float64
	panY        float64
	interactive bool
	freeDOT     bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "frame width in pixels (default: fit the scene)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "frame height in pixels (default: fit the scene)")
	cmd.Flags().BoolVar(&f.fit, "fit", false, "scale the scene to fill the frame")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 0, "view scale, e.g. 1.2 (ignored with --fit)")
	cmd.Flags().Float64Var(&f.panX, "x", 0, "view translate x")
	cmd.Flags().Float64Var(&f.panY, "y", 0, "view translate y")
	cmd.Flags().BoolVar(&f.interactive, "interactive", false, "embed hover styles in SVG output")
	cmd.Flags().BoolVar(&f.freeDOT, "free-dot", false, "let Graphviz place nodes in DOT and PNG output")
}

// apply copies the render flags into opts.
func (f renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	opts.Width, opts.Height = f.width, f.height
	opts.Fit = f.fit
	opts.Interactive = f.interactive
	opts.FreeDOT = f.freeDOT
	if !f.fit && (f.zoom != 0 || f.panX != 0 || f.panY != 0) {
		t := viewport.Identity()
		if f.zoom != 0 {
			t.Scale = f.zoom
		}
		t.X, t.Y = f.panX, f.panY
		opts.Transform = &t
	}
	return nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		scene sceneFlags
		out   renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [roadmap.json]",
		Short: "Render a roadmap as a mind-map diagram",
		Long: `Render a roadmap as a mind-map diagram.

Runs layout and render in one step. Formats:

  svg   standalone SVG, the same drawing an interactive host shows
  json  the laid-out scene
  dot   Graphviz source (pinned positions unless --free-dot)
  png   Graphviz raster
  pdf   the SVG converted with rsvg-convert
  txt   a terminal drawing

Use --fit with --width/--height to frame the whole diagram, or --zoom, --x
and --y to reproduce a specific view.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(scene)
			if err := out.apply(&opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, scene, opts, out.output)
		},
	}

	scene.register(cmd)
	out.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, args []string, flags sceneFlags, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	r, name, err := c.loadRoadmap(ctx, runner, args, flags)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, r.Content, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     name,
		output:    output,
		stats:     stats(result.Scene),
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// =============================================================================
// Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // base name derived from the input
	output    string
	stats     sceneStats
	cacheHit  bool
}

// writeArtifacts writes each format to its own file, or a single format to
// stdout when output is "-".
func writeArtifacts(p artifactWriteParams) error {
	if p.output == stdinArg {
		if len(p.formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(p.formats))
		}
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := p.output
		if len(p.formats) > 1 || path == "" {
			path = basePath(p.output, p.input) + "." + format
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, path := range paths {
		printFile(path)
	}
	if p.stats.Stages > 0 {
		printStats(p.stats, p.cacheHit)
	}
	return nil
}

// basePath derives the output base. Without an output it is the input base;
// a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return input
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
