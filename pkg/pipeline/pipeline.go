// Package pipeline runs the layout → render pipeline over an architecture
// snapshot, with caching at both stages.
//
// The CLI's render command, the interactive shell and the HTTP server all go
// through a [Runner], so a given snapshot and option set always produce the
// same layout and the same files no matter where the request came from.
//
// # Stages
//
//  1. Layout: compute a force-directed or flow layout for the snapshot
//  2. Render: produce each requested format from that layout
//
// Each stage can be run on its own or as part of [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	result, err := runner.Execute(ctx, store.Snapshot(), pipeline.Options{
//	    VizType: "flow",
//	    Formats: []string{"svg", "txt"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archscope/pkg/cache"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/layout"
	"github.com/matzehuels/archscope/pkg/render/nodelink"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultVizType is the visualization used when Options.VizType is empty.
const DefaultVizType = graph.VizTypeGraph

// DefaultPNGScale is the rasterization factor for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Layout options
	VizType string              `json:"viz_type,omitempty"`
	Force   layout.ForceOptions `json:"-"` // zero value means layout.DefaultForceOptions

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`     // nodelink inches per layout unit
	PNGScale float64  `json:"png_scale,omitempty"` // PNG resolution multiplier

	// Refresh skips cache reads; fresh results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input snapshot.
	GraphHash string

	// Layout is the computed (or cached) layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills in the visualization type and force options.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Force == (layout.ForceOptions{}) {
		o.Force = layout.DefaultForceOptions()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := graph.ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.IsGraph() && o.Force.Iterations < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must be positive, got %d", o.Force.Iterations)
	}
	return nil
}

// SetRenderDefaults fills in formats and scales. Repeated formats are
// dropped, keeping the first occurrence.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{graph.FormatSVG}
	}
	o.Formats = uniqueFormats(o.Formats)
	if o.Scale == 0 {
		o.Scale = nodelink.DefaultScale
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := graph.ValidateFormats(o.VizType, o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", o.PNGScale)
	}
	return nil
}

func uniqueFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// IsGraph returns true for the force-directed visualization.
func (o *Options) IsGraph() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeGraph
}

// IsFlow returns true for the flow chart visualization.
func (o *Options) IsFlow() bool {
	return o.VizType == graph.VizTypeFlow
}

// LayoutKeyOpts returns cache key options for layout computation. Force
// options are left out of flow keys because the flow layout ignores them.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{VizType: o.VizType}
	if o.IsGraph() {
		k.Seed = o.Force.Seed
		k.Iterations = o.Force.Iterations
		k.Spring = o.Force.SpringLength
		k.Attraction = o.Force.Attraction
		k.Repulsion = o.Force.Repulsion
		k.MinDist = o.Force.MinDistance
		k.Temp = o.Force.InitialTemperature
	}
	return k
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
	if o.IsGraph() {
		k.Scale = o.Scale
	}
	if format == graph.FormatPNG {
		k.PNGScale = o.PNGScale
	}
	return k
}
