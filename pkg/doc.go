// Package pkg provides the core libraries for archscope, a tool for modeling
// software architectures as graphs of components and relationships.
//
// # Overview
//
// An architecture is a set of components (services, databases, UIs) joined
// by directed, typed relationships ("calls", "queries"). archscope edits that
// graph, reports mutual dependencies between components, and lays it out as
// a force-directed diagram or a top-to-bottom flow chart.
//
// # Architecture
//
// The typical data flow through archscope:
//
//	arch.toml / interactive shell
//	         ↓
//	    [archfile] package (decode TOML into a store)
//	         ↓
//	    [arch] package (store + immutable snapshots)
//	         ↓
//	    [smell] package (mutual dependency detection)
//	         ↓
//	    [layout] package (force-directed and flow layouts)
//	         ↓
//	    [pipeline] package (cached layout → render)
//	         ↓
//	    SVG/DOT/PDF/PNG/JSON/text output
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/archscope/pkg/arch"
//	    "github.com/matzehuels/archscope/pkg/pipeline"
//	    "github.com/matzehuels/archscope/pkg/smell"
//	)
//
//	s := arch.NewStore()
//	_ = s.CreateComponent("UI", "User Interface", "react")
//	_ = s.CreateComponent("API", "Public API", "go")
//	_ = s.CreateRelationship("UI", "API", "calls")
//	_ = s.CreateRelationship("API", "UI", "notifies")
//
//	pairs := smell.DetectCycles(s.Snapshot()) // [{UI API calls notifies}]
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), s.Snapshot(), pipeline.Options{
//	    VizType: "flow",
//	    Formats: []string{"svg", "txt"},
//	})
//
// # Main Packages
//
// ## Domain
//
// [arch] - The component/relationship store. Every mutation validates its
// inputs, bumps a revision counter and keeps relationships pointing at live
// components.
//
// [archfile] - TOML architecture files, applied through the regular store
// operations so a file obeys the same rules as the shell.
//
// [smell] - Mutual dependency detection over a snapshot.
//
// [layout] - The spring embedder and the flow slot assignment.
//
// ## Visualization
//
// [render/nodelink] - Force-directed diagrams drawn by Graphviz with pinned
// node positions.
//
// [render/flow] - Flow charts as SVG or styled terminal text.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// ## Serialization
//
// [graph] - JSON types for graphs and layouts, shared by the CLI and the HTTP
// API, plus the visualization and format constants.
//
// ## Infrastructure
//
// [pipeline] - Layout → render orchestration used by the CLI, the shell and
// the HTTP server.
//
// [cache] - Layout and artifact caches: file (CLI), memory and Redis (server).
//
// [errors] - Structured errors with stable codes.
//
// [observability] - Hook registry for store, layout, smell and HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/arch/...     # Specific package
//	go test -run Example       # Examples only
//
// [arch]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/arch
// [archfile]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/archfile
// [smell]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/smell
// [layout]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/render/nodelink
// [render/flow]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/render/flow
// [graph]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/archscope/pkg/buildinfo
package pkg
