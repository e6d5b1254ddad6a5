package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/cache"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/layout"
	"github.com/matzehuels/archscope/pkg/render/nodelink"
)

func testSnapshot(t *testing.T) arch.Snapshot {
	t.Helper()
	s := arch.NewStore()
	for _, c := range []struct{ id, name string }{
		{"UI", "User Interface"},
		{"API", "Public API"},
		{"DB", "Database"},
	} {
		if err := s.CreateComponent(c.id, c.name, ""); err != nil {
			t.Fatalf("CreateComponent(%s): %v", c.id, err)
		}
	}
	for _, r := range []struct{ from, to, typ string }{
		{"UI", "API", "calls"},
		{"API", "DB", "queries"},
		{"DB", "API", "notifies"},
	} {
		if err := s.CreateRelationship(r.from, r.to, r.typ); err != nil {
			t.Fatalf("CreateRelationship(%s, %s): %v", r.from, r.to, err)
		}
	}
	return s.Snapshot()
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("ValidateForRender: %v", err)
	}
	if opts.VizType != graph.VizTypeGraph {
		t.Errorf("VizType = %q, want %q", opts.VizType, graph.VizTypeGraph)
	}
	if opts.Force != layout.DefaultForceOptions() {
		t.Errorf("Force = %+v, want defaults", opts.Force)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != graph.FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != nodelink.DefaultScale {
		t.Errorf("Scale = %g, want %g", opts.Scale, nodelink.DefaultScale)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale = %g, want %g", opts.PNGScale, DefaultPNGScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown viz type", Options{VizType: "tower"}, errors.ErrCodeInvalidVizType},
		{"txt for graph", Options{VizType: "graph", Formats: []string{"txt"}}, errors.ErrCodeInvalidFormat},
		{"dot for flow", Options{VizType: "flow", Formats: []string{"dot"}}, errors.ErrCodeInvalidFormat},
		{"unknown format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"zero iterations", Options{Force: layout.ForceOptions{Seed: 1}}, errors.ErrCodeInvalidInput},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
		{"negative png scale", Options{PNGScale: -2}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateForRender()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateForRender() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFlowIgnoresIterations(t *testing.T) {
	opts := Options{VizType: "flow", Force: layout.ForceOptions{Seed: 7}}
	if err := opts.ValidateForLayout(); err != nil {
		t.Errorf("ValidateForLayout() = %v, want nil", err)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	force := layout.DefaultForceOptions()
	force.Seed = 42

	g := Options{VizType: "graph", Force: force}
	k := g.LayoutKeyOpts()
	if k.Seed != 42 || k.Iterations != force.Iterations {
		t.Errorf("graph key = %+v, want seed and iterations set", k)
	}

	f := Options{VizType: "flow", Force: force}
	if k := f.LayoutKeyOpts(); k != (cache.LayoutKeyOpts{VizType: "flow"}) {
		t.Errorf("flow key = %+v, want only viz type", k)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{VizType: "flow", Scale: 3, PNGScale: 4, Detailed: true}

	svg := opts.ArtifactKeyOpts("svg")
	if svg != (cache.ArtifactKeyOpts{Format: "svg", Detailed: true}) {
		t.Errorf("flow svg key = %+v", svg)
	}
	png := opts.ArtifactKeyOpts("png")
	if png.PNGScale != 4 {
		t.Errorf("png key PNGScale = %g, want 4", png.PNGScale)
	}

	opts.VizType = "graph"
	if k := opts.ArtifactKeyOpts("dot"); k.Scale != 3 {
		t.Errorf("graph dot key Scale = %g, want 3", k.Scale)
	}
}

func TestGenerateLayout(t *testing.T) {
	snap := testSnapshot(t)

	tests := []struct {
		vizType string
	}{
		{"graph"},
		{"flow"},
	}
	for _, tt := range tests {
		t.Run(tt.vizType, func(t *testing.T) {
			l, err := GenerateLayout(snap, Options{VizType: tt.vizType})
			if err != nil {
				t.Fatalf("GenerateLayout: %v", err)
			}
			if l.VizType != tt.vizType {
				t.Errorf("VizType = %q, want %q", l.VizType, tt.vizType)
			}
			if len(l.Nodes) != 3 || len(l.Edges) != 3 {
				t.Errorf("got %d nodes, %d edges; want 3, 3", len(l.Nodes), len(l.Edges))
			}
			if len(l.Smells) != 1 {
				t.Errorf("got %d smells, want 1", len(l.Smells))
			}
		})
	}
}

func TestRunnerExecuteFlow(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, testSnapshot(t), Options{
		VizType: "flow",
		Formats: []string{"txt", "svg", "json"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 3 {
		t.Errorf("Stats = %+v, want 3 nodes and 3 edges", result.Stats)
	}
	if !bytes.Contains(result.Artifacts["txt"], []byte("Public API")) {
		t.Errorf("txt artifact missing component label:\n%s", result.Artifacts["txt"])
	}
	if !bytes.Contains(result.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}
	l, err := graph.UnmarshalLayout(result.Artifacts["json"])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if l.VizType != "flow" {
		t.Errorf("json artifact VizType = %q, want flow", l.VizType)
	}
}

func TestRunnerGraphDOT(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), testSnapshot(t), Options{
		VizType: "graph",
		Formats: []string{"dot"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(result.Artifacts["dot"]), []byte("digraph")) {
		t.Errorf("dot artifact:\n%s", result.Artifacts["dot"])
	}
}

func TestRunnerCachesLayout(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache(0)
	runner := NewRunner(mem, nil, nil)
	snap := testSnapshot(t)

	first, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, snap, Options{})
	if err != nil {
		t.Fatalf("first layout: %v", err)
	}
	if hit {
		t.Error("first layout should miss the cache")
	}

	second, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, snap, Options{})
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}
	if !hit {
		t.Error("second layout should hit the cache")
	}
	for i := range first.Nodes {
		if first.Nodes[i].X != second.Nodes[i].X || first.Nodes[i].Y != second.Nodes[i].Y {
			t.Errorf("node %s moved between cached runs", first.Nodes[i].ID)
		}
	}

	_, hit, err = runner.GenerateLayoutWithCacheInfo(ctx, snap, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refreshed layout: %v", err)
	}
	if hit {
		t.Error("refresh should bypass cache reads")
	}

	seeded := Options{Force: layout.DefaultForceOptions()}
	seeded.Force.Seed = 99
	_, hit, err = runner.GenerateLayoutWithCacheInfo(ctx, snap, seeded)
	if err != nil {
		t.Fatalf("seeded layout: %v", err)
	}
	if hit {
		t.Error("a different seed should miss the cache")
	}
}

func TestRunnerCachesArtifacts(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(0), nil, nil)
	opts := Options{VizType: "flow", Formats: []string{"txt"}}

	first, err := runner.Execute(ctx, testSnapshot(t), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, testSnapshot(t), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["txt"], second.Artifacts["txt"]) {
		t.Error("cached artifact differs from the rendered one")
	}

	// Adding a format renders everything again.
	opts.Formats = []string{"txt", "json"}
	third, err := runner.Execute(ctx, testSnapshot(t), opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("partial artifact hit should re-render")
	}
}

func TestRepeatedFormats(t *testing.T) {
	opts := Options{VizType: "flow", Formats: []string{"svg", "txt", "svg"}}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("ValidateForRender: %v", err)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != "svg" || opts.Formats[1] != "txt" {
		t.Errorf("Formats = %v, want [svg txt]", opts.Formats)
	}

	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(0), nil, nil)
	in := Options{VizType: "flow", Formats: []string{"svg", "svg"}}
	if _, err := runner.Execute(ctx, testSnapshot(t), in); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	again, err := runner.Execute(ctx, testSnapshot(t), in)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want render hit", again.CacheInfo)
	}
	if len(again.Artifacts) != 1 || len(again.Artifacts["svg"]) == 0 {
		t.Errorf("artifacts = %d, want one svg", len(again.Artifacts))
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(cache.NewMemoryCache(0), nil, nil)
	_, err := runner.GenerateLayout(ctx, testSnapshot(t), Options{VizType: "graph"})
	if err != context.Canceled {
		t.Errorf("GenerateLayout on cancelled context = %v, want context.Canceled", err)
	}
}

func TestRenderUsesLayoutVizType(t *testing.T) {
	snap := testSnapshot(t)
	l, err := GenerateLayout(snap, Options{VizType: "flow"})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}

	// Options default to graph, but the flow layout allows txt.
	artifacts, err := RenderFromLayout(context.Background(), l, Options{Formats: []string{"txt"}})
	if err != nil {
		t.Fatalf("RenderFromLayout: %v", err)
	}
	if len(artifacts["txt"]) == 0 {
		t.Error("txt artifact is empty")
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), testSnapshot(t), Options{
		VizType: "graph",
		Formats: []string{"txt"},
	})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() = %v, want INVALID_FORMAT", err)
	}
}
