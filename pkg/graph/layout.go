package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/layout"
	"github.com/matzehuels/archscope/pkg/smell"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for both visualizations. Check
// VizType to see which fields are populated:
//
//	Graph ("graph"):
//	  - Nodes carry X/Y from the force-directed layout
//	  - Seed, Iterations: the options that produced them
//
//	Flow ("flow"):
//	  - Nodes carry Slot (top to bottom) and the fixed flow column as X
//	  - Edges carry FromSlot/ToSlot for drawing arrows between slots
//
// Shared fields: Revision of the snapshot, the edge list with labels, and
// the smell pairs found in the same snapshot.
type Layout struct {
	// Discriminator
	VizType  string `json:"viz_type"`
	Revision uint64 `json:"revision"`

	Nodes  []PositionedNode `json:"nodes"`
	Edges  []LayoutEdge     `json:"edges"`
	Smells []smell.Pair     `json:"smells,omitempty"`

	// Graph-specific
	Seed       uint64 `json:"seed,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

// IsGraph returns true if this is a force-directed graph layout.
func (l *Layout) IsGraph() bool { return l.VizType == VizTypeGraph }

// IsFlow returns true if this is a flow layout.
func (l *Layout) IsFlow() bool { return l.VizType == VizTypeFlow }

// PositionedNode is a component with its computed coordinates.
type PositionedNode struct {
	Node
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Slot int     `json:"slot"`
}

// LayoutEdge is a labeled relationship ready for drawing.
type LayoutEdge struct {
	Edge
	FromSlot int `json:"from_slot,omitempty"`
	ToSlot   int `json:"to_slot,omitempty"`
}

// =============================================================================
// Layout Construction
// =============================================================================

// FromForce builds a graph layout from a snapshot and the positions
// computed for it by [layout.Force]. Nodes keep insertion order.
func FromForce(snap arch.Snapshot, pos layout.Positions, opts layout.ForceOptions) Layout {
	pairs := smell.DetectCycles(snap)
	g := fromSnapshot(snap, pairs)
	out := Layout{
		VizType:    VizTypeGraph,
		Revision:   snap.Revision,
		Nodes:      make([]PositionedNode, len(g.Components)),
		Edges:      make([]LayoutEdge, len(g.Relationships)),
		Smells:     pairs,
		Seed:       opts.Seed,
		Iterations: opts.Iterations,
	}
	for i, n := range g.Components {
		p := pos[n.ID]
		out.Nodes[i] = PositionedNode{Node: n, X: p.X, Y: p.Y, Slot: i}
	}
	for i, e := range g.Relationships {
		out.Edges[i] = LayoutEdge{Edge: e}
	}
	return out
}

// FromFlow builds a flow layout from a snapshot, its slots and the
// slot-indexed arrows from [layout.FlowEdges].
func FromFlow(snap arch.Snapshot, slots []layout.Slot, arrows []layout.FlowEdge) Layout {
	pairs := smell.DetectCycles(snap)
	g := fromSnapshot(snap, pairs)
	byID := make(map[string]Node, len(g.Components))
	for _, n := range g.Components {
		byID[n.ID] = n
	}

	out := Layout{
		VizType:  VizTypeFlow,
		Revision: snap.Revision,
		Nodes:    make([]PositionedNode, len(slots)),
		Edges:    make([]LayoutEdge, len(arrows)),
		Smells:   pairs,
	}
	for i, s := range slots {
		out.Nodes[i] = PositionedNode{Node: byID[s.ID], X: s.X, Y: s.Y, Slot: s.Index}
	}
	for i, a := range arrows {
		from, to := slots[a.From].ID, slots[a.To].ID
		e := Edge{From: from, To: to, Type: a.Label, Smell: inPair(out.Smells, from, to)}
		out.Edges[i] = LayoutEdge{Edge: e, FromSlot: a.From, ToSlot: a.To}
	}
	return out
}

// ComputeGraph runs the force-directed layout over snap. A nil opts uses
// [layout.DefaultForceOptions].
func ComputeGraph(snap arch.Snapshot, opts *layout.ForceOptions) Layout {
	if opts == nil {
		o := layout.DefaultForceOptions()
		opts = &o
	}
	nodes, edges := layout.FromSnapshot(snap)
	return FromForce(snap, layout.Force(nodes, edges, opts), *opts)
}

// ComputeFlow runs the flow layout over snap.
func ComputeFlow(snap arch.Snapshot) Layout {
	nodes, edges := layout.FromSnapshot(snap)
	slots := layout.Flow(nodes)
	return FromFlow(snap, slots, layout.FlowEdges(nodes, edges))
}

// Compute dispatches on vizType. Returns INVALID_VIZ_TYPE for anything
// other than graph or flow.
func Compute(snap arch.Snapshot, vizType string, opts *layout.ForceOptions) (Layout, error) {
	switch vizType {
	case VizTypeGraph:
		return ComputeGraph(snap, opts), nil
	case VizTypeFlow:
		return ComputeFlow(snap), nil
	default:
		return Layout{}, ValidateVizType(vizType)
	}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates its
// visualization type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := ValidateVizType(l.VizType); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
