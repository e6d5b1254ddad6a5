package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses and every write is dropped.
// `render --no-cache` uses it, and a pipeline Runner built with a nil cache
// falls back to it. Operations report ctx.Err() once ctx is done.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() NullCache {
	return NullCache{}
}

func (NullCache) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (NullCache) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (NullCache) Delete(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (NullCache) Close() error {
	return nil
}

var _ Cache = NullCache{}
