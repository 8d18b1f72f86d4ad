package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments or
// tenants can share one cache backend without colliding:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RoadmapKey generates a prefixed key for roadmap content.
func (k *ScopedKeyer) RoadmapKey(source, id string) string {
	return k.prefix + k.inner.RoadmapKey(source, id)
}

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(contentHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(contentHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
