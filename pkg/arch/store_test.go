package arch

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/archscope/pkg/errors"
)

func strPtr(s string) *string { return &s }

func mustStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	s := NewStore()
	for _, id := range ids {
		if err := s.CreateComponent(id, id+" name", ""); err != nil {
			t.Fatalf("CreateComponent(%q): %v", id, err)
		}
	}
	return s
}

func TestCreateComponent(t *testing.T) {
	s := NewStore()
	if err := s.CreateComponent("UI", "User Interface", "react"); err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}

	c, ok := s.Component("UI")
	if !ok {
		t.Fatal("component not found after create")
	}
	if c.Name != "User Interface" || c.Metadata != "react" {
		t.Errorf("component = %+v", c)
	}
}

func TestCreateComponentDuplicate(t *testing.T) {
	s := mustStore(t, "UI")
	before := s.Snapshot()

	err := s.CreateComponent("UI", "other", "meta")
	if !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Fatalf("err = %v, want DUPLICATE_ID", err)
	}

	after := s.Snapshot()
	if after.Revision != before.Revision {
		t.Errorf("revision changed from %d to %d", before.Revision, after.Revision)
	}
	c, _ := s.Component("UI")
	if c.Name != "UI name" {
		t.Errorf("name = %q, store was modified", c.Name)
	}
}

func TestCreateComponentEmptyID(t *testing.T) {
	s := NewStore()
	if err := s.CreateComponent("", "x", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if n, _ := s.Len(); n != 0 {
		t.Errorf("components = %d, want 0", n)
	}
}

func TestUpdateComponent(t *testing.T) {
	tests := []struct {
		name         string
		update       ComponentUpdate
		wantName     string
		wantMetadata string
	}{
		{"no fields", ComponentUpdate{}, "Old", "meta"},
		{"name only", ComponentUpdate{Name: strPtr("New")}, "New", "meta"},
		{"metadata only", ComponentUpdate{Metadata: strPtr("v2")}, "Old", "v2"},
		{"both", ComponentUpdate{Name: strPtr("New"), Metadata: strPtr("v2")}, "New", "v2"},
		{"explicit empty metadata", ComponentUpdate{Metadata: strPtr("")}, "Old", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			_ = s.CreateComponent("C", "Old", "meta")

			if err := s.UpdateComponent("C", tt.update); err != nil {
				t.Fatalf("UpdateComponent: %v", err)
			}
			c, _ := s.Component("C")
			if c.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", c.Name, tt.wantName)
			}
			if c.Metadata != tt.wantMetadata {
				t.Errorf("Metadata = %q, want %q", c.Metadata, tt.wantMetadata)
			}
		})
	}
}

func TestUpdateComponentNotFound(t *testing.T) {
	s := NewStore()
	err := s.UpdateComponent("missing", ComponentUpdate{Name: strPtr("x")})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if s.Revision() != 0 {
		t.Errorf("revision = %d, want 0", s.Revision())
	}
}

func TestDeleteComponentCascades(t *testing.T) {
	s := mustStore(t, "A", "B", "C", "D")
	_ = s.CreateRelationship("A", "B", "calls")
	_ = s.CreateRelationship("B", "A", "notifies")
	_ = s.CreateRelationship("C", "B", "reads")
	_ = s.CreateRelationship("C", "D", "writes")

	if err := s.DeleteComponent("B"); err != nil {
		t.Fatalf("DeleteComponent: %v", err)
	}

	snap := s.Snapshot()
	if got := snap.ComponentIDs(); !slices.Equal(got, []string{"A", "C", "D"}) {
		t.Errorf("components = %v", got)
	}
	for _, r := range snap.Relationships {
		if r.From == "B" || r.To == "B" {
			t.Errorf("relationship %s still references deleted component", r.Key())
		}
	}
	if len(snap.Relationships) != 1 || snap.Relationships[0].Key() != "C->D" {
		t.Errorf("relationships = %+v, want only C->D", snap.Relationships)
	}
}

func TestDeleteComponentNotFound(t *testing.T) {
	s := mustStore(t, "A")
	if err := s.DeleteComponent("B"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if n, _ := s.Len(); n != 1 {
		t.Errorf("components = %d, want 1", n)
	}
}

func TestCreateRelationshipEndpointNotFound(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"missing source", "X", "A"},
		{"missing target", "A", "X"},
		{"both missing", "X", "Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustStore(t, "A")
			err := s.CreateRelationship(tt.from, tt.to, "calls")
			if !errors.Is(err, errors.ErrCodeEndpointNotFound) {
				t.Fatalf("err = %v, want ENDPOINT_NOT_FOUND", err)
			}
			if _, n := s.Len(); n != 0 {
				t.Errorf("relationships = %d, want 0", n)
			}
		})
	}
}

func TestCreateRelationshipOverwrites(t *testing.T) {
	s := mustStore(t, "A", "B", "C")
	_ = s.CreateRelationship("A", "B", "calls")
	_ = s.CreateRelationship("A", "C", "reads")
	if err := s.CreateRelationship("A", "B", "depends on"); err != nil {
		t.Fatalf("CreateRelationship: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Relationships) != 2 {
		t.Fatalf("relationships = %d, want 2", len(snap.Relationships))
	}
	first := snap.Relationships[0]
	if first.Key() != "A->B" || first.Type != "depends on" {
		t.Errorf("first relationship = %+v, want A->B depends on in original position", first)
	}
}

func TestCreateRelationshipSelfLoop(t *testing.T) {
	s := mustStore(t, "A")
	if err := s.CreateRelationship("A", "A", "recurses"); err != nil {
		t.Fatalf("CreateRelationship: %v", err)
	}
	if !s.Snapshot().HasRelationship("A", "A") {
		t.Error("self relationship missing")
	}
}

func TestUpdateRelationship(t *testing.T) {
	s := mustStore(t, "A", "B")
	_ = s.CreateRelationship("A", "B", "calls")

	if err := s.UpdateRelationship("A", "B", "streams"); err != nil {
		t.Fatalf("UpdateRelationship: %v", err)
	}
	r, _ := s.Relationship("A", "B")
	if r.Type != "streams" {
		t.Errorf("Type = %q, want streams", r.Type)
	}

	// Direction matters: B->A was never created.
	if err := s.UpdateRelationship("B", "A", "x"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("reverse update err = %v, want NOT_FOUND", err)
	}
	if _, ok := s.Relationship("B", "A"); ok {
		t.Error("failed update created a relationship")
	}
}

func TestDeleteRelationship(t *testing.T) {
	s := mustStore(t, "A", "B")
	_ = s.CreateRelationship("A", "B", "calls")

	if err := s.DeleteRelationship("A", "B"); err != nil {
		t.Fatalf("DeleteRelationship: %v", err)
	}
	if err := s.DeleteRelationship("A", "B"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second delete err = %v, want NOT_FOUND", err)
	}
	if n, m := s.Len(); n != 2 || m != 0 {
		t.Errorf("Len() = %d, %d; want 2, 0", n, m)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := mustStore(t, "A", "B")
	_ = s.CreateRelationship("A", "B", "calls")
	snap := s.Snapshot()

	_ = s.UpdateComponent("A", ComponentUpdate{Name: strPtr("changed")})
	_ = s.DeleteComponent("B")

	if len(snap.Components) != 2 || snap.Components[0].Name != "A name" {
		t.Errorf("snapshot components changed: %+v", snap.Components)
	}
	if !snap.HasRelationship("A", "B") {
		t.Error("snapshot lost relationship after store mutation")
	}
	if snap.Revision == s.Revision() {
		t.Error("snapshot revision should differ from the mutated store")
	}
}

func TestSnapshotPreservesInsertionOrder(t *testing.T) {
	ids := []string{"zeta", "alpha", "mid", "beta"}
	s := mustStore(t, ids...)
	if got := s.Snapshot().ComponentIDs(); !slices.Equal(got, ids) {
		t.Errorf("ComponentIDs() = %v, want %v", got, ids)
	}
}

func TestSnapshotLookupsWithoutIndex(t *testing.T) {
	snap := Snapshot{
		Components:    []Component{{ID: "A"}, {ID: "B"}},
		Relationships: []Relationship{{From: "A", To: "B", Type: "calls"}},
	}
	if !snap.HasRelationship("A", "B") || snap.HasRelationship("B", "A") {
		t.Error("literal snapshot lookups wrong")
	}
	if _, ok := snap.Component("B"); !ok {
		t.Error("literal snapshot missing component B")
	}
}

func TestSnapshotIncomingOutgoing(t *testing.T) {
	s := mustStore(t, "UI", "API", "DB")
	_ = s.CreateRelationship("UI", "API", "calls")
	_ = s.CreateRelationship("API", "DB", "queries")
	_ = s.CreateRelationship("DB", "API", "notifies")
	snap := s.Snapshot()

	if out := snap.Outgoing("API"); len(out) != 1 || out[0].To != "DB" {
		t.Errorf("Outgoing(API) = %+v", out)
	}
	if in := snap.Incoming("API"); len(in) != 2 {
		t.Errorf("Incoming(API) = %+v, want 2", in)
	}
}

func TestArchitectureScenario(t *testing.T) {
	s := mustStore(t, "UI", "API", "DB")
	_ = s.CreateRelationship("UI", "API", "calls")
	_ = s.CreateRelationship("API", "DB", "queries")
	_ = s.CreateRelationship("DB", "API", "notifies")

	if n, m := s.Len(); n != 3 || m != 3 {
		t.Fatalf("Len() = %d, %d; want 3, 3", n, m)
	}

	if err := s.DeleteComponent("API"); err != nil {
		t.Fatalf("DeleteComponent: %v", err)
	}
	snap := s.Snapshot()
	if got := snap.ComponentIDs(); !slices.Equal(got, []string{"UI", "DB"}) {
		t.Errorf("components = %v, want [UI DB]", got)
	}
	if len(snap.Relationships) != 0 {
		t.Errorf("relationships = %+v, want none", snap.Relationships)
	}
}

func TestRevisionCountsSuccessfulMutations(t *testing.T) {
	s := NewStore()
	_ = s.CreateComponent("A", "", "")
	_ = s.CreateComponent("A", "", "") // rejected
	_ = s.CreateComponent("B", "", "")
	_ = s.CreateRelationship("A", "B", "x")
	_ = s.DeleteRelationship("B", "A") // rejected

	if got := s.Revision(); got != 3 {
		t.Errorf("Revision() = %d, want 3", got)
	}
}

func TestConcurrentMutationsAndSnapshots(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 25 {
				id := fmt.Sprintf("c%d-%d", i, j)
				_ = s.CreateComponent(id, id, "")
				if j > 0 {
					_ = s.CreateRelationship(id, fmt.Sprintf("c%d-%d", i, j-1), "next")
				}
				snap := s.Snapshot()
				for _, r := range snap.Relationships {
					if _, ok := snap.Component(r.From); !ok {
						t.Errorf("snapshot has dangling relationship %s", r.Key())
					}
				}
			}
		}(i)
	}
	wg.Wait()

	if n, m := s.Len(); n != 200 || m != 192 {
		t.Errorf("Len() = %d, %d; want 200, 192", n, m)
	}
}
