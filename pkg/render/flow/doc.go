// Package flow renders architecture graphs as top-to-bottom flow charts.
//
// # Overview
//
// Each component becomes a horizontal bar in its flow slot, first-created
// at the top. Relationships are drawn as labeled arrows in lanes beside the
// bars: arrows pointing down run on the right, arrows pointing up (and so
// closing a loop) run on the left. Mutual dependencies are drawn red.
//
// Two backends share the same [graph.Layout] input:
//
//	l := graph.ComputeFlow(store.Snapshot())
//	svg, err := flow.RenderSVG(l, flow.Options{})
//	txt, err := flow.RenderText(l)
//
// [RenderText] is what the interactive shell prints; [RenderSVG] is what
// `archscope render -t flow` writes.
//
// [graph.Layout]: github.com/matzehuels/archscope/pkg/graph.Layout
package flow
