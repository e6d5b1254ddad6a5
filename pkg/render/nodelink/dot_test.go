package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/archscope/pkg/graph"
)

func testLayout() graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeGraph,
		Nodes: []graph.PositionedNode{
			{Node: graph.Node{ID: "UI", Name: "User Interface"}, X: -1, Y: 0.5},
			{Node: graph.Node{ID: "API", Metadata: "go", Smell: true}, X: 0, Y: 0, Slot: 1},
			{Node: graph.Node{ID: "DB", Smell: true}, X: 1, Y: -0.25, Slot: 2},
		},
		Edges: []graph.LayoutEdge{
			{Edge: graph.Edge{From: "UI", To: "API", Type: "calls"}},
			{Edge: graph.Edge{From: "API", To: "DB", Type: "queries", Smell: true}},
			{Edge: graph.Edge{From: "DB", To: "API", Type: "notifies", Smell: true}},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testLayout(), Options{})

	for _, want := range []string{
		"digraph G",
		"layout=neato",
		`"UI" [label="User Interface"`,
		`"UI" -> "API" [label="calls"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_PinnedPositions(t *testing.T) {
	tests := []struct {
		scale float64
		want  []string
	}{
		{0, []string{`pos="-4.0000,2.0000!"`, `pos="0.0000,0.0000!"`, `pos="4.0000,-1.0000!"`}},
		{2, []string{`pos="-2.0000,1.0000!"`, `pos="2.0000,-0.5000!"`}},
	}
	for _, tt := range tests {
		dot := ToDOT(testLayout(), Options{Scale: tt.scale})
		for _, w := range tt.want {
			if !strings.Contains(dot, w) {
				t.Errorf("scale %v: ToDOT() missing %s", tt.scale, w)
			}
		}
	}
}

func TestToDOT_SmellEdges(t *testing.T) {
	dot := ToDOT(testLayout(), Options{})

	for _, line := range strings.Split(dot, "\n") {
		if !strings.Contains(line, "->") {
			continue
		}
		smelly := strings.Contains(line, `"API" -> "DB"`) || strings.Contains(line, `"DB" -> "API"`)
		if got := strings.Contains(line, SmellColor); got != smelly {
			t.Errorf("edge %q colored = %v, want %v", strings.TrimSpace(line), got, smelly)
		}
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     graph.Node
		detailed bool
		want     string
	}{
		{"Simple", graph.Node{ID: "db", Name: "Database"}, false, "Database"},
		{"FallbackToID", graph.Node{ID: "db"}, false, "db"},
		{"Detailed", graph.Node{ID: "db", Name: "Database", Metadata: "postgres"}, true, "Database\nid: db\npostgres"},
		{"DetailedNoName", graph.Node{ID: "db", Metadata: "postgres"}, true, "db\npostgres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtAttrs_Smell(t *testing.T) {
	n := graph.PositionedNode{Node: graph.Node{ID: "API", Smell: true}}
	attrs := fmtAttrs(n, "API", 1)
	if len(attrs) != 4 {
		t.Errorf("fmtAttrs() smell node should have 4 attrs, got %d: %v", len(attrs), attrs)
	}

	n.Smell = false
	if attrs := fmtAttrs(n, "API", 1); len(attrs) != 2 {
		t.Errorf("fmtAttrs() regular node should have 2 attrs, got %d: %v", len(attrs), attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
	if !strings.Contains(out, "queries") {
		t.Error("RenderSVG() output missing edge label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
