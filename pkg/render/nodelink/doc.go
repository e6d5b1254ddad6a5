// Package nodelink renders architecture graphs as node-link diagrams.
//
// # Overview
//
// Components appear as rounded boxes at the positions computed by the
// force-directed layout, connected by arrows labeled with the relationship
// type. Mutual dependencies stand out in red.
//
// # Usage
//
// Compute a layout, convert it to DOT, then render to SVG:
//
//	l := graph.ComputeGraph(store.Snapshot(), nil)
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Pinned Positions
//
// [ToDOT] writes pos="x,y!" for every node and selects the neato engine.
// Graphviz keeps the nodes where archscope put them and only routes the
// edges, so the picture matches the layout JSON exactly. Coordinates are
// scaled by [Options].Scale inches.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
