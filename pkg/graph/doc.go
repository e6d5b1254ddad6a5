// Package graph provides serialization types for architecture graphs and
// layouts.
//
// This package defines the JSON wire format used by `archscope print --json`,
// `archscope render -f json` and every response of the HTTP API.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - arch.Snapshot: Internal graph representation
//   - layout.Positions, layout.Slot: Internal layout results
//
// Use [FromSnapshot], [FromForce] and [FromFlow] to convert between them.
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeGraph // "graph"
//	graph.VizTypeFlow  // "flow"
//	graph.FormatSVG    // "svg"
//	graph.FormatText   // "txt" (flow only)
//
// [ValidateVizType] and [ValidateFormats] reject anything else with the
// INVALID_VIZ_TYPE and INVALID_FORMAT codes.
//
// # Graph Serialization
//
//	{
//	  "revision": 3,
//	  "components": [{"id": "API", "name": "Public API", "smell": true}],
//	  "relationships": [{"from": "API", "to": "DB", "type": "queries", "smell": true}]
//	}
//
// The smell flags mark components and relationships that take part in a
// mutual dependency, so clients can highlight them without a second call.
//
// # Layout Serialization
//
// [Layout] is a single type for both visualizations, discriminated by
// VizType. [Compute] runs the right layout for a type and wraps the result:
//
//	l, err := graph.Compute(store.Snapshot(), graph.VizTypeGraph, nil)
//	data, _ := graph.MarshalLayout(l)
package graph
