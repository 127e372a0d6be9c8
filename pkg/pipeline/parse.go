package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/orakul/orakul/pkg/cache"
	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/observability"
	"github.com/orakul/orakul/pkg/projection"
	"github.com/orakul/orakul/pkg/source"
)

// LoadWithCacheInfo loads the raw document. Remote sources are cached for
// cache.SourceTTL; files are always read, they are cheap and change often.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (projection.RawData, bool, error) {
	start := time.Now()
	src, err := source.Open(opts.Source, opts.Mongo)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.Source, time.Since(start), err)
		return nil, false, err
	}

	_, remote := src.(*source.Mongo)
	key := r.Keyer.SourceKey(src.String())
	if remote && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var raw projection.RawData
			if json.Unmarshal(data, &raw) == nil {
				observability.Pipeline().OnLoadComplete(ctx, src.String(), time.Since(start), nil)
				return raw, true, nil
			}
		}
	}

	raw, err := src.Load(ctx)
	observability.Pipeline().OnLoadComplete(ctx, src.String(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if remote {
		if data, err := json.Marshal(raw); err == nil {
			_ = r.Cache.Set(ctx, key, data, r.ttl(cache.SourceTTL))
		}
	}
	return raw, false, nil
}

// Load loads the raw document without cache info.
func (r *Runner) Load(ctx context.Context, opts Options) (projection.RawData, error) {
	raw, _, err := r.LoadWithCacheInfo(ctx, opts)
	return raw, err
}

// HashRaw returns the content hash of raw. Map keys are sorted by
// encoding/json, so equal documents hash equally.
func HashRaw(raw projection.RawData) (string, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode raw data")
	}
	return cache.Hash(data), nil
}
