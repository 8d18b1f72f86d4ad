package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a computed scene.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		out     renderFlags
		compact bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [scene.json]",
		Short: "Render a computed scene",
		Long: `Render a computed scene.

The visualize command takes a scene file produced by 'layout' (or 'render -f
json') and draws it. The scene carries every position, so this step is purely
about rendering.

Use 'render' as a shortcut to go directly from a roadmap to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Compact: compact || c.cfg.Layout.Compact, Logger: c.Logger}
			if err := out.apply(&opts); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, out.output, noCache)
		},
	}

	out.register(cmd)
	cmd.Flags().BoolVar(&compact, "compact", false, "scene was laid out with the narrow-screen layout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	scene, err := readScene(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, scene, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".scene")
	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     base,
		output:    output,
		stats:     stats(scene),
		cacheHit:  cacheHit,
	})
}

// readScene decodes a scene JSON file.
func readScene(path string) (*layout.Scene, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	var s layout.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene %s", path)
	}
	return &s, nil
}
