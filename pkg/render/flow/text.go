package flow

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
)

var (
	slotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	barStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.NormalBorder(), false, true)
	smellBar   = barStyle.BorderForeground(lipgloss.Color("9"))
	edgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	smellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// RenderText draws a flow layout for a terminal. Each slot is one bar
// followed by its outgoing arrows:
//
//	0 │ User Interface │
//	    ↓ calls → API
//	1 │ API            │
//
// Arrows to an earlier slot use ↑. Returns INVALID_VIZ_TYPE for a non-flow
// layout.
func RenderText(l graph.Layout) (string, error) {
	if !l.IsFlow() {
		return "", errors.New(errors.ErrCodeInvalidVizType, "flow renderer needs a flow layout, got %q", l.VizType)
	}
	if len(l.Nodes) == 0 {
		return "(empty architecture)\n", nil
	}

	labelWidth, slotWidth := 0, len(fmt.Sprint(len(l.Nodes)-1))
	for _, n := range l.Nodes {
		labelWidth = max(labelWidth, lipgloss.Width(n.DisplayLabel()))
	}

	outgoing := make(map[int][]graph.LayoutEdge, len(l.Nodes))
	for _, e := range l.Edges {
		outgoing[e.FromSlot] = append(outgoing[e.FromSlot], e)
	}
	labels := make(map[int]string, len(l.Nodes))
	for _, n := range l.Nodes {
		labels[n.Slot] = n.DisplayLabel()
	}

	indent := strings.Repeat(" ", slotWidth+3)
	var b strings.Builder
	for _, n := range l.Nodes {
		style := barStyle
		if n.Smell {
			style = smellBar
		}
		bar := style.Width(labelWidth + 4).Render(n.DisplayLabel())
		fmt.Fprintf(&b, "%s %s", slotStyle.Render(fmt.Sprintf("%*d", slotWidth, n.Slot)), bar)
		if n.Metadata != "" {
			b.WriteString(" " + metaStyle.Render(n.Metadata))
		}
		b.WriteString("\n")

		for _, e := range outgoing[n.Slot] {
			dir := "↓"
			if e.ToSlot < e.FromSlot {
				dir = "↑"
			} else if e.ToSlot == e.FromSlot {
				dir = "↺"
			}
			line := fmt.Sprintf("%s %s → %s", dir, e.Type, labels[e.ToSlot])
			if e.Smell {
				line = smellStyle.Render(line + "  (mutual)")
			} else {
				line = edgeStyle.Render(line)
			}
			b.WriteString(indent + line + "\n")
		}
	}
	return b.String(), nil
}
