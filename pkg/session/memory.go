package session

import (
	"context"
	"sync"
	"time"

	"github.com/yolcu/mindmap/pkg/errors"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
}

// NewMemoryStore returns a store holding at most max sessions. A max of
// zero or less means DefaultMaxSessions.
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &MemoryStore{sessions: make(map[string]*Session), max: max}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %q not found", id)
	}
	if s.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %q expired", id)
	}
	return s, nil
}

func (m *MemoryStore) Set(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; !exists && len(m.sessions) >= m.max {
		m.evictLocked()
	}
	m.sessions[s.ID] = s
	return nil
}

// evictLocked drops expired sessions, or the one closest to expiry if none
// have lapsed.
func (m *MemoryStore) evictLocked() {
	now := time.Now()
	var oldest string
	var oldestAt time.Time
	for id, s := range m.sessions {
		at := s.ExpiresAt()
		if now.After(at) {
			delete(m.sessions, id)
			continue
		}
		if oldest == "" || at.Before(oldestAt) {
			oldest, oldestAt = id, at
		}
	}
	if len(m.sessions) >= m.max && oldest != "" {
		delete(m.sessions, oldest)
	}
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func RunCleanup(ctx context.Context, st Store, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = st.Cleanup(ctx)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
