package pipeline

import (
	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/graph"
)

// GenerateLayout computes the layout for opts.VizType without caching.
// The force options only apply to the graph visualization.
func GenerateLayout(snap arch.Snapshot, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	return graph.Compute(snap, opts.VizType, &opts.Force)
}
