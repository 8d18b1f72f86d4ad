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
	"github.com/yolcu/mindmap/pkg/roadmap"
	"github.com/yolcu/mindmap/pkg/roadmap/mongostore"
)

// stdinArg reads the roadmap from standard input.
const stdinArg = "-"

// sceneFlags are the input and layout flags shared by layout, render and view.
type sceneFlags struct {
	selected  string
	collapsed bool
	compact   bool
	refresh   bool
	noCache   bool
	roadmapID int64
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.selected, "select", "s", "", "stage to expand (default: stage-0 or navigation.initial_selection)")
	cmd.Flags().BoolVar(&f.collapsed, "collapsed", false, "expand no stage")
	cmd.Flags().BoolVar(&f.compact, "compact", false, "use the narrow-screen layout")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cache reads")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Int64Var(&f.roadmapID, "roadmap-id", 0, "load a stored roadmap from MongoDB instead of a file")
}

// pipelineOptions merges flags over the configured layout and navigation.
func (c *CLI) pipelineOptions(f sceneFlags) pipeline.Options {
	lopts := c.cfg.LayoutOptions()
	if f.compact && !lopts.Compact {
		lopts = layout.CompactOptions()
	}
	opts := pipeline.Options{
		Selected:  f.selected,
		Collapsed: f.collapsed || (f.selected == "" && c.cfg.Navigation.Collapsed),
		Compact:   lopts.Compact,
		Layout:    &lopts,
		Refresh:   f.refresh,
		Logger:    c.Logger,
	}
	if opts.Selected == "" {
		opts.Selected = c.cfg.Navigation.InitialSelection
	}
	return opts
}

// loadRoadmap reads the roadmap named by args, or by --roadmap-id. The
// returned name is the base for derived output paths.
func (c *CLI) loadRoadmap(ctx context.Context, runner *pipeline.Runner, args []string, f sceneFlags) (*roadmap.Roadmap, string, error) {
	switch {
	case f.roadmapID != 0:
		if len(args) > 0 {
			return nil, "", errors.New(errors.ErrCodeInvalidInput, "pass either a file or --roadmap-id, not both")
		}
		return c.loadStored(ctx, runner, f)
	case len(args) == 0:
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "no roadmap given (pass a file, - for stdin, or --roadmap-id)")
	case args[0] == stdinArg:
		r, err := roadmap.Read(os.Stdin)
		return r, "roadmap", err
	default:
		r, err := roadmap.ReadFile(args[0])
		return r, strings.TrimSuffix(args[0], filepath.Ext(args[0])), err
	}
}

func (c *CLI) loadStored(ctx context.Context, runner *pipeline.Runner, f sceneFlags) (*roadmap.Roadmap, string, error) {
	store, err := mongostore.New(ctx, c.cfg.MongoStore())
	if err != nil {
		return nil, "", err
	}
	defer store.Close(context.WithoutCancel(ctx))

	r, hit, err := runner.LoadWithCacheInfo(ctx, store, "mongo", f.roadmapID, f.refresh)
	if err != nil {
		return nil, "", err
	}
	c.Logger.Debug("loaded roadmap", "id", f.roadmapID, "cached", hit)
	return r, fmt.Sprintf("roadmap-%d", f.roadmapID), nil
}

// stats summarizes a scene for printStats.
func stats(s *layout.Scene) sceneStats {
	return sceneStats{
		Stages:   len(s.Stages()),
		Children: len(s.Children()),
		Edges:    len(s.Edges),
		Selected: s.Selected,
	}
}

// =============================================================================
// layout
// =============================================================================

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  sceneFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [roadmap.json]",
		Short: "Compute the mind-map scene for a roadmap",
		Long: `Compute the mind-map scene for a roadmap.

The layout command positions every stage, topic and connector for the chosen
selection and writes the scene as JSON (<input>.scene.json by default). The
scene can then be drawn with 'visualize' or consumed by any host.

Pass - to read the roadmap from stdin, or --roadmap-id to load it from the
configured MongoDB store. Results are cached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.scene.json)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, args []string, flags sceneFlags, output string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	r, name, err := c.loadRoadmap(ctx, runner, args, flags)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	scene, cacheHit, err := runner.LayoutWithCacheInfo(ctx, r.Content, c.pipelineOptions(flags))
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	if output == stdinArg {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if output == "" {
		output = name + ".scene.json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(stats(scene), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+output)

	return nil
}
