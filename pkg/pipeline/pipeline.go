// Package pipeline provides the batch layout and render pipeline.
//
// The interactive engine in pkg/mindmap answers one frame at a time. This
// package is for everything that wants finished artifacts instead: the CLI's
// layout and render commands and the HTTP server's stateless endpoints.
// Centralizing it keeps defaults, validation and caching identical across
// entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: fetch roadmap content from a [roadmap.Source] (optional; callers
//     holding content skip it)
//  2. Layout: compute the scene for a content and selection
//  3. Render: produce SVG, JSON, DOT, PNG, PDF or terminal text
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, content, pipeline.Options{
//	    Selected: "stage-1",
//	    Formats:  []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// [roadmap.Source]: github.com/yolcu/mindmap/pkg/roadmap.Source
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yolcu/mindmap/pkg/cache"
	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultSelection is the stage expanded when no selection is given.
const DefaultSelection = "stage-0"

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatTXT  = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatTXT:  true,
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ContentTypes maps formats to HTTP content types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatTXT:  "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Selected  string          `json:"selected,omitempty"`  // empty means DefaultSelection
	Collapsed bool            `json:"collapsed,omitempty"` // expand nothing
	Compact   bool            `json:"compact,omitempty"`   // narrow-screen constants
	Layout    *layout.Options `json:"-"`                   // overrides Compact

	// Render options
	Formats     []string            `json:"formats,omitempty"`
	Width       float64             `json:"width,omitempty"`
	Height      float64             `json:"height,omitempty"`
	Transform   *viewport.Transform `json:"transform,omitempty"`
	Fit         bool                `json:"fit,omitempty"`         // fit the scene into Width x Height
	Interactive bool                `json:"interactive,omitempty"` // SVG hover styles
	FreeDOT     bool                `json:"free_dot,omitempty"`    // let Graphviz place DOT/PNG nodes

	Refresh bool `json:"refresh,omitempty"` // bypass cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Scene       *layout.Scene
	ContentHash string
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSelection checks the shape of a stage id. Ids naming a stage the
// content does not have are accepted and expand nothing.
func ValidateSelection(id string) error {
	if id == "" {
		return nil
	}
	return errors.ValidateNodeID(id)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Collapsed {
		o.Selected = ""
	} else if o.Selected == "" {
		o.Selected = DefaultSelection
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateSelection(o.Selected); err != nil {
		return err
	}
	if err := o.LayoutOptions().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must not be negative, got %vx%v", o.Width, o.Height)
	}
	if t := o.Transform; t != nil {
		if t.Scale < viewport.DefaultMinScale || t.Scale > viewport.DefaultMaxScale {
			return errors.New(errors.ErrCodeInvalidInput, "scale %v outside [%v, %v]",
				t.Scale, viewport.DefaultMinScale, viewport.DefaultMaxScale)
		}
	}
	return nil
}

// LayoutOptions returns the layout engine options in effect.
func (o *Options) LayoutOptions() layout.Options {
	switch {
	case o.Layout != nil:
		return *o.Layout
	case o.Compact:
		return layout.CompactOptions()
	default:
		return layout.DefaultOptions()
	}
}

// SceneKeyOpts returns cache key options for layout computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Selected: o.Selected,
		Options:  o.LayoutOptions(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		View: struct {
			Transform   *viewport.Transform `json:"t,omitempty"`
			Fit         bool                `json:"fit,omitempty"`
			Interactive bool                `json:"i,omitempty"`
			FreeDOT     bool                `json:"free,omitempty"`
		}{o.Transform, o.Fit, o.Interactive, o.FreeDOT},
		Compact: o.LayoutOptions().Compact,
	}
}
