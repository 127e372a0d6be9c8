package pipeline

import (
	"context"
	"time"

	"github.com/orakul/orakul/pkg/cache"
	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/interaction"
	"github.com/orakul/orakul/pkg/observability"
	"github.com/orakul/orakul/pkg/projection"
)

// BuildScene projects raw at the options' level, lays it out and exports the
// result. opts must have been validated.
func BuildScene(raw projection.RawData, opts Options) graph.Scene {
	ctrl := interaction.New(interaction.Config{
		Raw:       raw,
		Level:     opts.SceneLevel(),
		Direction: opts.SceneDirection(),
		Layout:    opts.Layout,
		Logger:    opts.Logger,
	})
	return graph.FromSnapshot(ctrl.Snapshot(), opts.Layout)
}

// SceneWithCacheInfo builds the scene of raw, using the cache.
func (r *Runner) SceneWithCacheInfo(ctx context.Context, raw projection.RawData, opts Options) (graph.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Scene{}, false, err
	}

	rawHash, err := HashRaw(raw)
	if err != nil {
		return graph.Scene{}, false, err
	}
	key := r.Keyer.SceneKey(rawHash, opts.SceneKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if s, err := graph.UnmarshalScene(data); err == nil {
				return s, true, nil
			}
		}
	}

	start := time.Now()
	s := BuildScene(raw, opts)
	observability.Pipeline().OnLayoutComplete(ctx, s.Level, len(s.Nodes), time.Since(start))

	if data, err := graph.MarshalScene(s); err == nil {
		_ = r.Cache.Set(ctx, key, data, r.ttl(cache.SceneTTL))
	}
	return s, false, nil
}

// Scene builds the scene without cache info.
func (r *Runner) Scene(ctx context.Context, raw projection.RawData, opts Options) (graph.Scene, error) {
	s, _, err := r.SceneWithCacheInfo(ctx, raw, opts)
	return s, err
}
