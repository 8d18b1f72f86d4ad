// Package cache stores computed scenes and rendered artifacts.
//
// # Overview
//
// A [Cache] is a byte store with TTLs. Three backends are provided:
//
//   - [FileCache]: sharded JSON entry files, used by the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: disables caching
//
// A [Keyer] derives keys from everything that affects an output, so equal
// inputs hit and any changed option misses:
//
//	key := keyer.SceneKey(cache.Hash(contentJSON), cache.SceneKeyOpts{Selected: "stage-0"})
//	if data, hit, _ := c.Get(ctx, key); hit { ... }
//
// [ScopedKeyer] prefixes every key, for deployments sharing one Redis.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLRoadmap  = time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SceneKeyOpts holds the inputs besides content that change a scene.
type SceneKeyOpts struct {
	Selected string `json:"selected"`
	Options  any    `json:"options"`
}

// ArtifactKeyOpts holds the inputs besides the scene that change an artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	View    any     `json:"view,omitempty"`
	Compact bool    `json:"compact,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// RoadmapKey is the key for roadmap content fetched from a source.
	RoadmapKey(source, id string) string
	// SceneKey is the key for a layout of content with the given hash.
	SceneKey(contentHash string, opts SceneKeyOpts) string
	// ArtifactKey is the key for a rendering of the scene with the given hash.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RoadmapKey returns "roadmap:<source>:<id>".
func (DefaultKeyer) RoadmapKey(source, id string) string {
	return "roadmap:" + source + ":" + id
}

// SceneKey returns "scene:<hash>".
func (DefaultKeyer) SceneKey(contentHash string, opts SceneKeyOpts) string {
	return hashKey("scene", contentHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
