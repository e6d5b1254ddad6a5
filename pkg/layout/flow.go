package layout

import (
	"time"

	"github.com/matzehuels/archscope/pkg/observability"
)

// FlowColumn is the horizontal coordinate shared by every flow slot.
const FlowColumn = 0.5

// Slot is a component's place in the flow layout. Index 0 is the top.
type Slot struct {
	ID    string  `json:"id"`
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// FlowEdge is an arrow between two slots, drawn from From to To.
type FlowEdge struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label,omitempty"`
}

// Flow assigns each node a slot equal to its position in nodes, top to
// bottom, all at [FlowColumn]. Relationships play no part in placement.
// Repeated IDs keep their first slot.
func Flow(nodes []string) []Slot {
	start := time.Now()
	observability.Layout().OnLayoutStart(KindFlow, len(nodes))
	defer func() {
		observability.Layout().OnLayoutComplete(KindFlow, len(nodes), time.Since(start))
	}()

	ids := uniqueIDs(nodes)
	slots := make([]Slot, len(ids))
	for i, id := range ids {
		slots[i] = Slot{ID: id, Index: i, X: FlowColumn, Y: float64(i)}
	}
	return slots
}

// FlowEdges converts edges into slot-indexed arrows for the flow layout,
// preserving edge order. Edges naming an unknown node are dropped.
func FlowEdges(nodes []string, edges []Edge) []FlowEdge {
	index := make(map[string]int, len(nodes))
	for _, id := range uniqueIDs(nodes) {
		index[id] = len(index)
	}

	out := make([]FlowEdge, 0, len(edges))
	for _, e := range edges {
		from, okF := index[e.From]
		to, okT := index[e.To]
		if !okF || !okT {
			continue
		}
		out = append(out, FlowEdge{From: from, To: to, Label: e.Label})
	}
	return out
}
