package pipeline

import (
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

// ComputeLayout lays out content for the selection in opts, without caching.
func ComputeLayout(content roadmap.Content, opts Options) (*layout.Scene, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	return layout.Layout(content, opts.Selected, opts.LayoutOptions()), nil
}
