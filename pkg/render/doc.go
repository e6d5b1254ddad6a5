// Package render turns computed layouts into files.
//
// # Overview
//
// Renderers consume geometry only: a [graph.Layout] produced by the layout
// engine. They never read the store and never recompute positions, so any
// backend can be swapped without touching the rest of archscope.
//
//   - [nodelink]: force-directed node-link diagrams via Graphviz
//   - [flow]: top-to-bottom flow charts as SVG or terminal text
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers use them.
//
//	svg, err := flow.RenderSVG(l, flow.Options{})
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is not installed the conversion fails with an
// UNSUPPORTED error.
//
// [graph.Layout]: github.com/matzehuels/archscope/pkg/graph.Layout
// [nodelink]: github.com/matzehuels/archscope/pkg/render/nodelink
// [flow]: github.com/matzehuels/archscope/pkg/render/flow
package render
