// Package layout computes node positions for architecture diagrams.
//
// # Overview
//
// Two independent, stateless layouts are provided:
//
//   - [Force]: a seeded spring embedder for node-link diagrams. Edges act as
//     springs with a rest length, every pair of nodes repels, and a linear
//     cooling schedule bounds how far nodes move on each step.
//   - [Flow]: one vertical slot per component in insertion order, at a
//     fixed horizontal position. It ignores relationships when placing nodes;
//     [FlowEdges] translates relationships into slot-to-slot arrows.
//
// Both are pure functions of their input. Nothing is cached between calls;
// callers take a fresh [arch.Snapshot] and recompute whenever they render.
//
// # Usage
//
//	nodes, edges := layout.FromSnapshot(store.Snapshot())
//	pos := layout.Force(nodes, edges, nil) // default options
//	slots := layout.Flow(nodes)
//	arrows := layout.FlowEdges(nodes, edges)
//
// # Determinism
//
// [Force] draws its initial placement from a PCG generator seeded with
// [ForceOptions.Seed]. The same nodes, edges and options always produce the
// same coordinates.
package layout

import "github.com/matzehuels/archscope/pkg/arch"

// Layout kinds, also used as visualization type names.
const (
	KindGraph = "graph"
	KindFlow  = "flow"
)

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps component IDs to coordinates.
type Positions map[string]Point

// Edge is a directed, labeled connection between two node IDs.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// FromSnapshot extracts node IDs (in insertion order) and labeled edges from
// a snapshot.
func FromSnapshot(snap arch.Snapshot) ([]string, []Edge) {
	edges := make([]Edge, len(snap.Relationships))
	for i, r := range snap.Relationships {
		edges[i] = Edge{From: r.From, To: r.To, Label: r.Type}
	}
	return snap.ComponentIDs(), edges
}
