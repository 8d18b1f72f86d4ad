package layout

import (
	"sync"

	"github.com/yolcu/mindmap/pkg/roadmap"
)

// Memo caches scenes of one content tree, keyed by selection.
//
// Panning and zooming redraw with the same selection and hit the cache; only
// a selection change (or new content) lays the scene out again. A Memo is safe
// for concurrent use. Returned scenes are shared and must not be modified.
type Memo struct {
	mu      sync.Mutex
	content roadmap.Content
	opts    Options
	scenes  map[string]*Scene
	misses  int
}

// NewMemo creates a memo for content laid out with opts.
func NewMemo(content roadmap.Content, opts Options) *Memo {
	return &Memo{content: content, opts: opts, scenes: make(map[string]*Scene)}
}

// Scene returns the scene for the selection, laying it out on first use.
// Selections that name no stage share the unselected scene.
func (m *Memo) Scene(selected string) *Scene {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := selected
	if m.content.StageIndex(selected) < 0 {
		key = ""
	}
	if s, ok := m.scenes[key]; ok {
		return s
	}
	m.misses++
	s := Layout(m.content, key, m.opts)
	m.scenes[key] = s
	return s
}

// Reset replaces the content and options and drops every cached scene.
func (m *Memo) Reset(content roadmap.Content, opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = content
	m.opts = opts
	clear(m.scenes)
}

// Content returns the memoized content.
func (m *Memo) Content() roadmap.Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content
}

// Options returns the layout options in use.
func (m *Memo) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// Misses returns how many times the memo ran the layout.
func (m *Memo) Misses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.misses
}
