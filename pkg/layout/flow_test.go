package layout

import (
	"testing"

	"github.com/matzehuels/archscope/pkg/arch"
)

func TestFlowInsertionOrder(t *testing.T) {
	slots := Flow([]string{"C1", "C2", "C3"})
	for i, want := range []string{"C1", "C2", "C3"} {
		s := slots[i]
		if s.ID != want || s.Index != i || s.Y != float64(i) || s.X != FlowColumn {
			t.Errorf("slot %d = %+v", i, s)
		}
	}
}

func TestFlowIgnoresRelationships(t *testing.T) {
	s := arch.NewStore()
	for _, id := range []string{"C1", "C2", "C3"} {
		_ = s.CreateComponent(id, id, "")
	}
	_ = s.CreateRelationship("C3", "C1", "calls")
	_ = s.CreateRelationship("C2", "C1", "calls")

	nodes, _ := FromSnapshot(s.Snapshot())
	slots := Flow(nodes)
	for i, want := range []string{"C1", "C2", "C3"} {
		if slots[i].ID != want || slots[i].Index != i {
			t.Errorf("slot %d = %+v, want %s", i, slots[i], want)
		}
	}
}

func TestFlowEmpty(t *testing.T) {
	if got := Flow(nil); len(got) != 0 {
		t.Errorf("Flow(nil) = %v", got)
	}
}

func TestFlowEdges(t *testing.T) {
	nodes := []string{"UI", "API", "DB"}
	edges := []Edge{
		{From: "UI", To: "API", Label: "calls"},
		{From: "DB", To: "API", Label: "notifies"},
		{From: "API", To: "ghost", Label: "dropped"},
	}

	got := FlowEdges(nodes, edges)
	want := []FlowEdge{
		{From: 0, To: 1, Label: "calls"},
		{From: 2, To: 1, Label: "notifies"},
	}
	if len(got) != len(want) {
		t.Fatalf("FlowEdges() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFromSnapshot(t *testing.T) {
	s := arch.NewStore()
	_ = s.CreateComponent("A", "", "")
	_ = s.CreateComponent("B", "", "")
	_ = s.CreateRelationship("A", "B", "uses")

	nodes, edges := FromSnapshot(s.Snapshot())
	if len(nodes) != 2 || nodes[0] != "A" {
		t.Errorf("nodes = %v", nodes)
	}
	if len(edges) != 1 || edges[0] != (Edge{From: "A", To: "B", Label: "uses"}) {
		t.Errorf("edges = %+v", edges)
	}
}
