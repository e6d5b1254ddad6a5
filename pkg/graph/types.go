package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/layout"
	"github.com/matzehuels/archscope/pkg/smell"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeGraph = layout.KindGraph
	VizTypeFlow  = layout.KindFlow
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatText = "txt"
)

// ValidVizTypes lists the accepted visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeGraph: true,
	VizTypeFlow:  true,
}

// validFormats lists the formats each visualization type can produce.
var validFormats = map[string][]string{
	VizTypeGraph: {FormatSVG, FormatDOT, FormatJSON, FormatPNG, FormatPDF},
	VizTypeFlow:  {FormatSVG, FormatJSON, FormatPNG, FormatPDF, FormatText},
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType,
			"invalid visualization type: %q (must be one of: graph, flow)", vizType)
	}
	return nil
}

// FormatsFor returns the formats vizType can produce, or nil for an
// unknown type.
func FormatsFor(vizType string) []string {
	return slices.Clone(validFormats[vizType])
}

// ValidateFormats checks that every format can be produced for vizType.
func ValidateFormats(vizType string, formats []string) error {
	if err := ValidateVizType(vizType); err != nil {
		return err
	}
	allowed := validFormats[vizType]
	for _, f := range formats {
		if !slices.Contains(allowed, f) {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid %s format: %q (must be one of: %s)", vizType, f, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// =============================================================================
// Graph - Architecture Serialization
// =============================================================================

// Graph is the JSON form of an architecture snapshot, used by
// `print --json` and the HTTP API. Components and relationships keep
// insertion order.
type Graph struct {
	Revision      uint64 `json:"revision"`
	Components    []Node `json:"components"`
	Relationships []Edge `json:"relationships"`
}

// Node is a component in serialized form.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Metadata string `json:"metadata,omitempty"`
	Smell    bool   `json:"smell,omitempty"` // part of a mutual dependency
}

// DisplayLabel returns the name if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is a relationship in serialized form.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Type  string `json:"type"`
	Smell bool   `json:"smell,omitempty"` // one direction of a mutual dependency
}

// Key returns the "from->to" form of the edge.
func (e Edge) Key() string { return fmt.Sprintf("%s->%s", e.From, e.To) }

// =============================================================================
// Snapshot → Graph Conversion
// =============================================================================

// FromSnapshot converts a snapshot to its serialization format and flags
// every component and relationship that takes part in a mutual dependency.
func FromSnapshot(snap arch.Snapshot) Graph {
	return fromSnapshot(snap, smell.DetectCycles(snap))
}

func fromSnapshot(snap arch.Snapshot, pairs []smell.Pair) Graph {
	involved := smell.Involved(pairs)

	out := Graph{
		Revision:      snap.Revision,
		Components:    make([]Node, len(snap.Components)),
		Relationships: make([]Edge, len(snap.Relationships)),
	}
	for i, c := range snap.Components {
		out.Components[i] = Node{ID: c.ID, Name: c.Name, Metadata: c.Metadata, Smell: involved[c.ID]}
	}
	for i, r := range snap.Relationships {
		out.Relationships[i] = Edge{From: r.From, To: r.To, Type: r.Type, Smell: inPair(pairs, r.From, r.To)}
	}
	return out
}

func inPair(pairs []smell.Pair, from, to string) bool {
	for _, p := range pairs {
		if p.Matches(from, to) {
			return true
		}
	}
	return false
}
