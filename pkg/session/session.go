// Package session keeps live mind-map views for the HTTP server.
//
// A [Session] wraps one [mindmap.View] with an id, a sliding expiry and a
// mutex: views are single-threaded, so every handler goes through
// [Session.Do]. Activations fired by the view while a call runs are
// collected and handed back to the caller instead of being pushed to a
// callback, which keeps request handling synchronous:
//
//	sess := session.New(content, mindmap.Options{RoadmapID: 12}, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err // VIEW_NOT_FOUND for unknown and expired ids
//	}
//	acts := sess.Do(func(v *mindmap.View) {
//	    v.Handle(ev)
//	})
//
// Views live in memory only and do not survive a restart.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yolcu/mindmap/pkg/mindmap"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

// Default limits.
const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 1000
)

// Activation is a child node press reported by a view.
type Activation struct {
	NodeID string `json:"node_id"`
	Path   string `json:"path"`
}

// Session is one live view.
type Session struct {
	ID        string    `json:"id"`
	RoadmapID int64     `json:"roadmap_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	mu        sync.Mutex
	view      *mindmap.View
	pending   []Activation
	ttl       time.Duration
	expiresAt time.Time
}

// New opens a view of content under a fresh id. A caller-supplied
// opts.OnActivate still runs; activations are also queued for Do.
func New(content roadmap.Content, opts mindmap.Options, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		RoadmapID: opts.RoadmapID,
		CreatedAt: now,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
	}

	next := opts.OnActivate
	opts.OnActivate = func(nodeID, path string) {
		s.pending = append(s.pending, Activation{NodeID: nodeID, Path: path})
		if next != nil {
			next(nodeID, path)
		}
	}
	s.view = mindmap.New(content, opts)
	return s
}

// Do runs fn with exclusive access to the view and returns the activations
// it fired. Each call extends the expiry.
func (s *Session) Do(fn func(v *mindmap.View)) []Activation {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.view)
	s.expiresAt = time.Now().Add(s.ttl)

	acts := s.pending
	s.pending = nil
	return acts
}

// Frame returns the current frame.
func (s *Session) Frame() mindmap.Frame {
	var f mindmap.Frame
	s.Do(func(v *mindmap.View) { f = v.Frame() })
	return f
}

// ExpiresAt returns when the session lapses without further use.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired reports whether the session has lapsed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt())
}

// Store holds sessions.
type Store interface {
	// Get returns the session with the given id, or a VIEW_NOT_FOUND error
	// when it does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, evicting the one closest to expiry when full.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error

	// Len returns the number of stored sessions, expired ones included.
	Len() int
}
