package roadmap

import (
	"context"
	"sync"

	"github.com/yolcu/mindmap/pkg/errors"
)

// Source loads stored roadmaps by id. Implementations must be safe for
// concurrent use; the HTTP server shares one Source across requests.
type Source interface {
	Roadmap(ctx context.Context, id int64) (*Roadmap, error)
}

// MemorySource is an in-memory Source, used for tests and for serving a
// fixed set of roadmap files.
type MemorySource struct {
	mu       sync.RWMutex
	roadmaps map[int64]*Roadmap
}

// NewMemorySource creates a source holding the given roadmaps, keyed by ID.
func NewMemorySource(roadmaps ...*Roadmap) *MemorySource {
	s := &MemorySource{roadmaps: make(map[int64]*Roadmap, len(roadmaps))}
	for _, r := range roadmaps {
		s.Put(r)
	}
	return s
}

// Put stores or replaces a roadmap.
func (s *MemorySource) Put(r *Roadmap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roadmaps[r.ID] = r
}

// Roadmap returns the roadmap with the given id.
func (s *MemorySource) Roadmap(ctx context.Context, id int64) (*Roadmap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roadmaps[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeRoadmapNotFound, "roadmap %d not found", id)
	}
	return r, nil
}

var _ Source = (*MemorySource)(nil)
