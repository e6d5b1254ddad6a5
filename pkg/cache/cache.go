// Package cache stores computed layouts and rendered artifacts so that
// rendering an unchanged architecture twice does not redo the work.
//
// Four backends implement [Cache]: [FileCache] for the CLI (one JSON file
// per entry under the user cache directory), [MemoryCache] (an LRU) and
// [RedisCache] for the HTTP server, and [NullCache] when caching is
// disabled.
//
// Keys come from a [Keyer]. A layout key hashes the graph content together
// with every option that affects geometry; an artifact key hashes the
// layout together with the render options for one format.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLLayout is how long a computed layout stays valid.
	TTLLayout = 7 * 24 * time.Hour
	// TTLArtifact is how long a rendered file stays valid.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts lists the options that change a layout's geometry.
type LayoutKeyOpts struct {
	VizType    string  `json:"viz_type"`
	Seed       uint64  `json:"seed,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Spring     float64 `json:"spring,omitempty"`
	Attraction float64 `json:"attraction,omitempty"`
	Repulsion  float64 `json:"repulsion,omitempty"`
	MinDist    float64 `json:"min_dist,omitempty"`
	Temp       float64 `json:"temp,omitempty"`
}

// ArtifactKeyOpts lists the options that change a rendered file.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	PNGScale float64 `json:"png_scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the graph hash with the layout options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the layout hash with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
