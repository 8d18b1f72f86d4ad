package pipeline

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/yolcu/mindmap/pkg/cache"
	"github.com/yolcu/mindmap/pkg/observability"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

// LoadWithCacheInfo fetches roadmap id from src, caching the stored roadmap
// under sourceName. It returns whether the roadmap came from cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src roadmap.Source, sourceName string, id int64, refresh bool) (*roadmap.Roadmap, bool, error) {
	key := r.Keyer.RoadmapKey(sourceName, strconv.FormatInt(id, 10))

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rm roadmap.Roadmap
			if err := json.Unmarshal(data, &rm); err == nil {
				observability.Cache().OnCacheHit(ctx, "roadmap")
				return &rm, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "roadmap")
	}

	rm, err := src.Roadmap(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(rm); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLRoadmap); err == nil {
			observability.Cache().OnCacheSet(ctx, "roadmap", len(data))
		}
	}

	r.Logger.Debug("loaded roadmap", "source", sourceName, "id", id, "stages", len(rm.Content.Stages))
	return rm, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, src roadmap.Source, sourceName string, id int64) (*roadmap.Roadmap, error) {
	rm, _, err := r.LoadWithCacheInfo(ctx, src, sourceName, id, false)
	return rm, err
}
