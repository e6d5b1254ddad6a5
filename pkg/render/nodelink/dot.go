package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/render"
)

// DefaultScale is the half-width of the drawing in inches. Layout
// coordinates lie in [-1, 1] and are multiplied by the scale.
const DefaultScale = 4.0

// SmellColor is the stroke used for both edges of a mutual dependency.
const SmellColor = "#d62728"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the component ID and metadata below the name.
	// When false, only the display label is shown.
	Detailed bool
	// Scale converts layout units to inches. Zero means DefaultScale.
	Scale float64
}

// ToDOT converts a graph layout to Graphviz DOT format. Every node is pinned
// at its computed position with pos="x,y!" so Graphviz only routes edges.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Edges are labeled with the relationship type. Both edges of a mutual
// dependency, and the components they connect, are drawn in [SmellColor].
func ToDOT(l graph.Layout, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11, fontcolor=\"#555555\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n.Node, opts.Detailed), scale)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := []string{fmt.Sprintf("label=%q", e.Type)}
		if e.Smell {
			attrs = append(attrs, fmt.Sprintf("color=%q", SmellColor), fmt.Sprintf("fontcolor=%q", SmellColor), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}

	parts := []string{label}
	if n.Name != "" {
		parts = append(parts, "id: "+n.ID)
	}
	if n.Metadata != "" {
		parts = append(parts, n.Metadata)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n graph.PositionedNode, label string, scale float64) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.X*scale), fmtCoord(n.Y*scale)),
	}
	if n.Smell {
		attrs = append(attrs, fmt.Sprintf("color=%q", SmellColor), "penwidth=2")
	}
	return attrs
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine,
// which honors pinned node positions.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag, which carries pt units,
// with a unitless one so the diagram scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
