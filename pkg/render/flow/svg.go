package flow

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
)

// Geometry of the chart, in SVG user units.
const (
	columnWidth = 300.0
	barWidth    = 240.0
	barHeight   = 36.0
	rowHeight   = 70.0
	laneGap     = 18.0
	margin      = 24.0
)

// SmellColor is the stroke used for mutual dependencies.
const SmellColor = "#d62728"

// Options configures flow chart rendering.
type Options struct {
	// Detailed adds each component's metadata below its name.
	Detailed bool
}

type lane struct {
	edge   graph.LayoutEdge
	x      float64
	y1, y2 float64
	left   bool
}

// RenderSVG draws a flow layout as SVG: one bar per slot and one labeled
// arrow per edge. Returns INVALID_VIZ_TYPE for a non-flow layout.
func RenderSVG(l graph.Layout, opts Options) ([]byte, error) {
	if !l.IsFlow() {
		return nil, errors.New(errors.ErrCodeInvalidVizType, "flow renderer needs a flow layout, got %q", l.VizType)
	}

	bySlot := make(map[int]graph.PositionedNode, len(l.Nodes))
	for _, n := range l.Nodes {
		bySlot[n.Slot] = n
	}

	var up, down int
	for _, e := range l.Edges {
		if e.ToSlot < e.FromSlot {
			up++
		} else {
			down++
		}
	}

	colX := margin + float64(up)*laneGap
	lanesRight := colX + columnWidth
	width := lanesRight + float64(down)*laneGap + margin
	height := 2*margin + float64(len(l.Nodes))*rowHeight

	centerY := func(n graph.PositionedNode) float64 {
		return margin + n.Y*rowHeight + barHeight/2
	}
	barLeft := func(n graph.PositionedNode) float64 {
		return colX + n.X*columnWidth - barWidth/2
	}

	var lanes []lane
	var li, ri int
	for _, e := range l.Edges {
		from, okF := bySlot[e.FromSlot]
		to, okT := bySlot[e.ToSlot]
		if !okF || !okT {
			continue
		}
		ln := lane{edge: e, y1: centerY(from), y2: centerY(to)}
		switch {
		case e.ToSlot < e.FromSlot:
			ln.left = true
			ln.x = colX - float64(li+1)*laneGap + laneGap/2
			li++
		default:
			ln.x = lanesRight + float64(ri)*laneGap + laneGap/2
			ri++
		}
		if e.FromSlot == e.ToSlot {
			ln.y1 -= barHeight / 4
			ln.y2 += barHeight / 4
		}
		lanes = append(lanes, ln)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	renderDefs(&buf)

	for _, n := range l.Nodes {
		renderBar(&buf, n, barLeft(n), centerY(n)-barHeight/2, opts.Detailed)
	}
	for _, ln := range lanes {
		from := bySlot[ln.edge.FromSlot]
		to := bySlot[ln.edge.ToSlot]
		renderArrow(&buf, ln, barLeft(from), barLeft(to))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="#555555"/>
    </marker>
    <marker id="arrow-smell" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="` + SmellColor + `"/>
    </marker>
  </defs>
  <style>
    .bar { fill: #ffffff; stroke: #333333; stroke-width: 1.5; }
    .bar.smell { stroke: ` + SmellColor + `; stroke-width: 2.5; }
    .bar-label { font-family: sans-serif; font-size: 14px; text-anchor: middle; dominant-baseline: middle; }
    .bar-meta { font-family: sans-serif; font-size: 10px; fill: #777777; text-anchor: middle; }
    .edge { fill: none; stroke: #555555; stroke-width: 1.2; }
    .edge.smell { stroke: ` + SmellColor + `; stroke-width: 2; }
    .edge-label { font-family: sans-serif; font-size: 11px; fill: #555555; text-anchor: middle; }
    .edge-label.smell { fill: ` + SmellColor + `; }
  </style>
`)
}

func renderBar(buf *bytes.Buffer, n graph.PositionedNode, x, y float64, detailed bool) {
	class := "bar"
	if n.Smell {
		class += " smell"
	}
	fmt.Fprintf(buf, `  <rect id="slot-%d" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" data-id="%s"/>`+"\n",
		n.Slot, class, x, y, barWidth, barHeight, escapeXML(n.ID))

	labelY := y + barHeight/2
	if detailed && n.Metadata != "" {
		labelY -= 6
		fmt.Fprintf(buf, `  <text class="bar-meta" x="%.1f" y="%.1f">%s</text>`+"\n",
			x+barWidth/2, y+barHeight-6, escapeXML(n.Metadata))
	}
	fmt.Fprintf(buf, `  <text class="bar-label" x="%.1f" y="%.1f">%s</text>`+"\n",
		x+barWidth/2, labelY, escapeXML(n.DisplayLabel()))
}

// renderArrow draws an edge as a bracket: out of the source bar, along the
// lane, back into the target bar.
func renderArrow(buf *bytes.Buffer, ln lane, fromLeft, toLeft float64) {
	startX, endX := fromLeft+barWidth, toLeft+barWidth
	if ln.left {
		startX, endX = fromLeft, toLeft
	}

	class, marker := "edge", "arrow"
	if ln.edge.Smell {
		class, marker = "edge smell", "arrow-smell"
	}
	fmt.Fprintf(buf, `  <path class="%s" d="M %.1f %.1f H %.1f V %.1f H %.1f" marker-end="url(#%s)" data-from="%s" data-to="%s"/>`+"\n",
		class, startX, ln.y1, ln.x, ln.y2, endX, marker, escapeXML(ln.edge.From), escapeXML(ln.edge.To))

	if ln.edge.Type == "" {
		return
	}
	labelClass := "edge-label"
	if ln.edge.Smell {
		labelClass += " smell"
	}
	midY := (ln.y1 + ln.y2) / 2
	fmt.Fprintf(buf, `  <text class="%s" x="%.1f" y="%.1f" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
		labelClass, ln.x-3, midY, ln.x-3, midY, escapeXML(ln.edge.Type))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
