package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/orakul/orakul/pkg/cache"
	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/observability"
)

// Runner executes pipeline stages with caching. It holds no results, so one
// Runner may serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

func (r *Runner) ttl(stage time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return stage
}

// NewRunner returns a runner. A nil cache disables caching and a nil keyer
// selects cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load, scene and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{}

	start := time.Now()
	raw, hit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res.Raw = raw
	res.Stats.LoadTime = time.Since(start)
	res.CacheInfo.LoadHit = hit
	if res.RawHash, err = HashRaw(raw); err != nil {
		return nil, err
	}
	r.Logger.Info("loaded raw data", "source", opts.Source, "cached", hit, "duration", res.Stats.LoadTime)

	start = time.Now()
	s, hit, err := r.SceneWithCacheInfo(ctx, raw, opts)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	res.Scene = s
	res.Stats.SceneTime = time.Since(start)
	res.Stats.NodeCount = len(s.Nodes)
	res.Stats.EdgeCount = len(s.Edges)
	res.CacheInfo.SceneHit = hit
	r.Logger.Info("computed layout", "level", s.Level, "nodes", len(s.Nodes), "edges", len(s.Edges),
		"cached", hit, "duration", res.Stats.SceneTime)
	if len(s.BackEdges) > 0 {
		r.Logger.Warn("cycle in source data", "back_edges", s.BackEdges)
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(start)
	res.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", hit, "duration", res.Stats.RenderTime)

	return res, nil
}

// RenderWithCacheInfo renders s in every requested format. The cache is
// used only when every format is present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s graph.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	data, err := graph.MarshalScene(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(data)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	start := time.Now()
	rendered, err := Render(ctx, s, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, r.ttl(cache.ArtifactTTL))
	}
	return rendered, false, nil
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
