package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/layout"
)

func threeTier(t *testing.T, mutual bool) *arch.Store {
	t.Helper()
	s := arch.NewStore()
	for _, id := range []string{"UI", "API", "DB"} {
		if err := s.CreateComponent(id, id+" name", ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateRelationship("UI", "API", "calls"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRelationship("API", "DB", "queries"); err != nil {
		t.Fatal(err)
	}
	if mutual {
		if err := s.CreateRelationship("DB", "API", "notifies"); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestMarshalGraph(t *testing.T) {
	tests := []struct {
		name      string
		build     func(t *testing.T) *arch.Store
		wantNodes int
		wantEdges int
		check     func(t *testing.T, g Graph)
	}{
		{
			name:  "Empty",
			build: func(*testing.T) *arch.Store { return arch.NewStore() },
		},
		{
			name:      "ThreeTier",
			build:     func(t *testing.T) *arch.Store { return threeTier(t, false) },
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g Graph) {
				for _, n := range g.Components {
					if n.Smell {
						t.Errorf("component %s flagged without a mutual pair", n.ID)
					}
				}
				if g.Components[1].Name != "API name" {
					t.Errorf("name = %q, want %q", g.Components[1].Name, "API name")
				}
			},
		},
		{
			name:      "MutualPair",
			build:     func(t *testing.T) *arch.Store { return threeTier(t, true) },
			wantNodes: 3,
			wantEdges: 3,
			check: func(t *testing.T, g Graph) {
				want := map[string]bool{"UI": false, "API": true, "DB": true}
				for _, n := range g.Components {
					if n.Smell != want[n.ID] {
						t.Errorf("component %s smell = %v, want %v", n.ID, n.Smell, want[n.ID])
					}
				}
				wantEdge := map[string]bool{"UI->API": false, "API->DB": true, "DB->API": true}
				for _, e := range g.Relationships {
					if e.Smell != wantEdge[e.Key()] {
						t.Errorf("edge %s smell = %v, want %v", e.Key(), e.Smell, wantEdge[e.Key()])
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalGraph(tt.build(t).Snapshot())
			if err != nil {
				t.Fatalf("MarshalGraph: %v", err)
			}

			result, err := UnmarshalGraph(data)
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if got := len(result.Components); got != tt.wantNodes {
				t.Errorf("components = %d, want %d", got, tt.wantNodes)
			}
			if got := len(result.Relationships); got != tt.wantEdges {
				t.Errorf("relationships = %d, want %d", got, tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, result)
			}
		})
	}
}

func TestMarshalGraphEmptyArrays(t *testing.T) {
	data, err := MarshalGraph(arch.NewStore().Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"components", "relationships"} {
		if string(raw[key]) != "[]" {
			t.Errorf("%s = %s, want []", key, raw[key])
		}
	}
}

func TestUnmarshalGraphInvalid(t *testing.T) {
	if _, err := UnmarshalGraph([]byte(`{invalid json}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestWriteGraph(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(threeTier(t, false).Snapshot(), &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}

	var result Graph
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Revision != 5 {
		t.Errorf("revision = %d, want 5", result.Revision)
	}
	if got := result.Relationships[0].Key(); got != "UI->API" {
		t.Errorf("first relationship = %s, want UI->API", got)
	}
}

func TestNodeDisplayLabel(t *testing.T) {
	if got := (&Node{ID: "db", Name: "Database"}).DisplayLabel(); got != "Database" {
		t.Errorf("DisplayLabel = %q, want Database", got)
	}
	if got := (&Node{ID: "db"}).DisplayLabel(); got != "db" {
		t.Errorf("DisplayLabel = %q, want db", got)
	}
}

func TestValidateVizType(t *testing.T) {
	for _, v := range []string{VizTypeGraph, VizTypeFlow} {
		if err := ValidateVizType(v); err != nil {
			t.Errorf("ValidateVizType(%q) = %v", v, err)
		}
	}
	for _, v := range []string{"", "tower", "Graph"} {
		err := ValidateVizType(v)
		if !errors.Is(err, errors.ErrCodeInvalidVizType) {
			t.Errorf("ValidateVizType(%q) = %v, want INVALID_VIZ_TYPE", v, err)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		vizType  string
		formats  []string
		wantCode errors.Code
	}{
		{VizTypeGraph, []string{"svg", "dot", "json"}, ""},
		{VizTypeGraph, []string{"png", "pdf"}, ""},
		{VizTypeGraph, []string{"txt"}, errors.ErrCodeInvalidFormat},
		{VizTypeFlow, []string{"svg", "txt", "json"}, ""},
		{VizTypeFlow, []string{"dot"}, errors.ErrCodeInvalidFormat},
		{VizTypeFlow, []string{"gif"}, errors.ErrCodeInvalidFormat},
		{"tower", []string{"svg"}, errors.ErrCodeInvalidVizType},
		{VizTypeGraph, nil, ""},
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.vizType, tt.formats)
		if tt.wantCode == "" {
			if err != nil {
				t.Errorf("ValidateFormats(%s, %v) = %v, want nil", tt.vizType, tt.formats, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantCode) {
			t.Errorf("ValidateFormats(%s, %v) = %v, want %s", tt.vizType, tt.formats, err, tt.wantCode)
		}
	}
}

func TestComputeGraph(t *testing.T) {
	snap := threeTier(t, true).Snapshot()
	l := ComputeGraph(snap, nil)

	if !l.IsGraph() || l.IsFlow() {
		t.Fatalf("VizType = %q, want graph", l.VizType)
	}
	if len(l.Nodes) != 3 || len(l.Edges) != 3 {
		t.Fatalf("nodes/edges = %d/%d, want 3/3", len(l.Nodes), len(l.Edges))
	}
	if len(l.Smells) != 1 || l.Smells[0].A != "API" || l.Smells[0].B != "DB" {
		t.Errorf("smells = %+v, want API<->DB", l.Smells)
	}
	def := layout.DefaultForceOptions()
	if l.Seed != def.Seed || l.Iterations != def.Iterations {
		t.Errorf("seed/iterations = %d/%d, want defaults", l.Seed, l.Iterations)
	}

	seen := make(map[layout.Point]bool)
	for i, n := range l.Nodes {
		if n.Slot != i {
			t.Errorf("node %s slot = %d, want %d", n.ID, n.Slot, i)
		}
		p := layout.Point{X: n.X, Y: n.Y}
		if seen[p] {
			t.Errorf("node %s shares position %v", n.ID, p)
		}
		seen[p] = true
	}

	again := ComputeGraph(snap, nil)
	for i := range l.Nodes {
		if l.Nodes[i].X != again.Nodes[i].X || l.Nodes[i].Y != again.Nodes[i].Y {
			t.Errorf("node %s not deterministic", l.Nodes[i].ID)
		}
	}
}

func TestComputeFlow(t *testing.T) {
	l := ComputeFlow(threeTier(t, true).Snapshot())

	if !l.IsFlow() {
		t.Fatalf("VizType = %q, want flow", l.VizType)
	}
	for i, n := range l.Nodes {
		if n.Slot != i || n.Y != float64(i) || n.X != layout.FlowColumn {
			t.Errorf("node %s = slot %d (%v, %v), want slot %d", n.ID, n.Slot, n.X, n.Y, i)
		}
	}
	want := []struct {
		from, to int
		label    string
		smell    bool
	}{
		{0, 1, "calls", false},
		{1, 2, "queries", true},
		{2, 1, "notifies", true},
	}
	if len(l.Edges) != len(want) {
		t.Fatalf("edges = %d, want %d", len(l.Edges), len(want))
	}
	for i, w := range want {
		e := l.Edges[i]
		if e.FromSlot != w.from || e.ToSlot != w.to || e.Type != w.label || e.Smell != w.smell {
			t.Errorf("edge %d = %+v, want %+v", i, e, w)
		}
	}
}

func TestCompute(t *testing.T) {
	snap := threeTier(t, false).Snapshot()
	if _, err := Compute(snap, "tower", nil); !errors.Is(err, errors.ErrCodeInvalidVizType) {
		t.Errorf("Compute(tower) = %v, want INVALID_VIZ_TYPE", err)
	}
	opts := layout.DefaultForceOptions()
	opts.Seed = 7
	l, err := Compute(snap, VizTypeGraph, &opts)
	if err != nil {
		t.Fatal(err)
	}
	if l.Seed != 7 {
		t.Errorf("seed = %d, want 7", l.Seed)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := ComputeFlow(threeTier(t, true).Snapshot())
	path := filepath.Join(t.TempDir(), "flow.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if got.VizType != VizTypeFlow || len(got.Nodes) != 3 || len(got.Smells) != 1 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	if _, err := UnmarshalLayout([]byte(`{`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad JSON = %v, want INVALID_FORMAT", err)
	}
	if _, err := UnmarshalLayout([]byte(`{"viz_type":"tower"}`)); !errors.Is(err, errors.ErrCodeInvalidVizType) {
		t.Errorf("bad type = %v, want INVALID_VIZ_TYPE", err)
	}
}
