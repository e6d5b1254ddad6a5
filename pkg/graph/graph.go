package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/archscope/pkg/arch"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a snapshot to indented JSON bytes.
func MarshalGraph(snap arch.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(snap, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a snapshot as JSON to an io.Writer.
func WriteGraph(snap arch.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromSnapshot(snap)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
