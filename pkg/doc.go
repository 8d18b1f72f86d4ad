// Package pkg holds the libraries behind the mindmap tool, which draws a
// learning roadmap as an interactive mind map.
//
// # Overview
//
// A roadmap is an ordered chain of stages. Each stage owns sub-groups of
// topics hung to its left and right. Selecting a stage expands its topics;
// everything else stays collapsed. The pkg directory is organized as:
//
//  1. [roadmap] - Roadmap content, JSON decoding and sources (memory, MongoDB)
//  2. [mindmap] - The engine: text wrap, layout, viewport and input dispatch
//  3. [render] - SVG, DOT and terminal output plus PNG/PDF conversion
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//  5. [server] - HTTP API serving rendered frames and view sessions
//
// Supporting packages are [cache], [config], [errors], [observability],
// [session] and [buildinfo].
//
// # Architecture
//
//	roadmap JSON / MongoDB
//	         ↓
//	    [roadmap] package (content + stage ids)
//	         ↓
//	    [mindmap/layout] package (content, selection → scene)
//	         ↓
//	    [mindmap/viewport] package (pan/zoom transform)
//	         ↓
//	    [render] packages (SVG/DOT/PNG/PDF/terminal)
//
// # Quick Start
//
// Lay out a roadmap and render it:
//
//	import (
//	    "context"
//	    "github.com/yolcu/mindmap/pkg/pipeline"
//	    "github.com/yolcu/mindmap/pkg/roadmap"
//	)
//
//	rm, _ := roadmap.ReadFile("devops.json")
//	opts := pipeline.Options{Selected: "stage-0", Formats: []string{"svg"}}
//	scene, _ := pipeline.ComputeLayout(rm.Content, opts)
//	artifacts, _ := pipeline.Render(context.Background(), scene, opts)
//
// Hosts that keep state between inputs open a [mindmap] View instead:
//
//	v := mindmap.New(rm.Content, mindmap.Options{RoadmapID: rm.ID})
//	v.Resize(1280, 800)
//	v.Handle(interact.Event{Type: interact.PointerDown, X: 800, Y: 175})
//	frame := v.Frame()
//
// # Caching
//
// [pipeline.Runner] caches loaded roadmaps, scenes and rendered artifacts
// through a [cache.Cache]: a file cache for the CLI, Redis for shared
// deployments, or the null cache when caching is disabled.
//
// [roadmap]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/roadmap
// [mindmap]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/mindmap
// [mindmap/layout]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/mindmap/layout
// [mindmap/viewport]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/mindmap/viewport
// [render]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/pipeline#Runner
// [server]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/server
// [cache]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/cache
// [cache.Cache]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/cache#Cache
// [config]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/observability
// [session]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/session
// [buildinfo]: https://pkg.go.dev/github.com/yolcu/mindmap/pkg/buildinfo
package pkg
