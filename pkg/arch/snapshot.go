package arch

// Snapshot is a read-only copy of the graph at one point in time. The smell
// detector, the layout engine and every renderer work from a Snapshot and
// never touch the [Store] directly.
//
// Use [Store.Snapshot] or [NewSnapshot] to obtain one; both build the pair
// index that makes [Snapshot.HasRelationship] O(1). A Snapshot assembled as
// a struct literal still works but falls back to linear scans.
type Snapshot struct {
	Revision      uint64
	Components    []Component
	Relationships []Relationship

	components map[string]int
	rels       map[pairKey]int
}

// NewSnapshot builds an indexed snapshot from the given slices. The slices
// are used as-is and must not be modified afterwards.
func NewSnapshot(components []Component, relationships []Relationship) Snapshot {
	s := Snapshot{
		Components:    components,
		Relationships: relationships,
		components:    make(map[string]int, len(components)),
		rels:          make(map[pairKey]int, len(relationships)),
	}
	for i, c := range components {
		s.components[c.ID] = i
	}
	for i, r := range relationships {
		s.rels[pairKey{r.From, r.To}] = i
	}
	return s
}

// ComponentIDs returns component IDs in insertion order.
func (s Snapshot) ComponentIDs() []string {
	ids := make([]string, len(s.Components))
	for i, c := range s.Components {
		ids[i] = c.ID
	}
	return ids
}

// Component returns the component with the given id.
func (s Snapshot) Component(id string) (Component, bool) {
	if s.components != nil {
		i, ok := s.components[id]
		if !ok {
			return Component{}, false
		}
		return s.Components[i], true
	}
	for _, c := range s.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// Relationship returns the relationship from→to.
func (s Snapshot) Relationship(from, to string) (Relationship, bool) {
	if s.rels != nil {
		i, ok := s.rels[pairKey{from, to}]
		if !ok {
			return Relationship{}, false
		}
		return s.Relationships[i], true
	}
	for _, r := range s.Relationships {
		if r.From == from && r.To == to {
			return r, true
		}
	}
	return Relationship{}, false
}

// HasRelationship reports whether a relationship from→to exists.
func (s Snapshot) HasRelationship(from, to string) bool {
	_, ok := s.Relationship(from, to)
	return ok
}

// Outgoing returns relationships whose source is id, in insertion order.
func (s Snapshot) Outgoing(id string) []Relationship {
	var out []Relationship
	for _, r := range s.Relationships {
		if r.From == id {
			out = append(out, r)
		}
	}
	return out
}

// Incoming returns relationships whose target is id, in insertion order.
func (s Snapshot) Incoming(id string) []Relationship {
	var in []Relationship
	for _, r := range s.Relationships {
		if r.To == id {
			in = append(in, r)
		}
	}
	return in
}
