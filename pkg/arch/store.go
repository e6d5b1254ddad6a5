package arch

import (
	"slices"
	"sync"

	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/observability"
)

// Mutation names reported to [observability.StoreHooks].
const (
	OpCreateComponent    = "create_component"
	OpUpdateComponent    = "update_component"
	OpDeleteComponent    = "delete_component"
	OpCreateRelationship = "create_relationship"
	OpUpdateRelationship = "update_relationship"
	OpDeleteRelationship = "delete_relationship"
)

// Component is a named software unit identified by a user-assigned ID.
// The ID never changes after creation; Name and Metadata may be updated.
type Component struct {
	ID       string
	Name     string
	Metadata string
}

// Relationship is a directed, typed edge between two components.
// At most one relationship exists per ordered (From, To) pair.
type Relationship struct {
	From string
	To   string
	Type string
}

// Key returns the "from->to" form used in logs and error messages.
func (r Relationship) Key() string { return pairKey{r.From, r.To}.String() }

// ComponentUpdate lists the fields to overwrite in [Store.UpdateComponent].
// A nil field leaves the stored value unchanged; a non-nil pointer to the
// empty string clears it.
type ComponentUpdate struct {
	Name     *string
	Metadata *string
}

// pairKey identifies a relationship by its ordered endpoints.
type pairKey struct{ from, to string }

func (k pairKey) String() string { return k.from + "->" + k.to }

// Store holds components and relationships and enforces referential
// integrity: a relationship can only exist between components that exist.
//
// Components and relationships both keep their insertion order, which is
// what the flow layout uses to assign slots. Every failed operation leaves
// the store exactly as it was.
//
// Store is safe for concurrent use. Mutations are serialized by a single
// lock and readers take a [Snapshot], which is an independent copy.
type Store struct {
	mu         sync.RWMutex
	components map[string]*Component
	order      []string
	rels       map[pairKey]string
	relOrder   []pairKey
	revision   uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		components: make(map[string]*Component),
		rels:       make(map[pairKey]string),
	}
}

// CreateComponent inserts a new component.
// Returns an INVALID_INPUT error for an empty id and DUPLICATE_ID if a
// component with the same id already exists.
func (s *Store) CreateComponent(id, name, metadata string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.ValidateComponentID(id); err != nil {
		return s.reject(OpCreateComponent, id, err)
	}
	if _, exists := s.components[id]; exists {
		return s.reject(OpCreateComponent, id,
			errors.New(errors.ErrCodeDuplicateID, "component %q already exists", id))
	}

	s.components[id] = &Component{ID: id, Name: name, Metadata: metadata}
	s.order = append(s.order, id)
	s.commit(OpCreateComponent, id)
	return nil
}

// UpdateComponent overwrites the fields set in u.
// Returns NOT_FOUND if the component does not exist.
func (s *Store) UpdateComponent(id string, u ComponentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.components[id]
	if !ok {
		return s.reject(OpUpdateComponent, id,
			errors.New(errors.ErrCodeNotFound, "component %q not found", id))
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Metadata != nil {
		c.Metadata = *u.Metadata
	}
	s.commit(OpUpdateComponent, id)
	return nil
}

// DeleteComponent removes a component and every relationship that has it as
// source or target. Returns NOT_FOUND if the component does not exist.
func (s *Store) DeleteComponent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.components[id]; !ok {
		return s.reject(OpDeleteComponent, id,
			errors.New(errors.ErrCodeNotFound, "component %q not found", id))
	}

	delete(s.components, id)
	s.order = slices.DeleteFunc(s.order, func(c string) bool { return c == id })
	s.relOrder = slices.DeleteFunc(s.relOrder, func(k pairKey) bool {
		if k.from == id || k.to == id {
			delete(s.rels, k)
			return true
		}
		return false
	})
	s.commit(OpDeleteComponent, id)
	return nil
}

// CreateRelationship records that from relates to to with the given type.
// If the ordered pair already exists its type is overwritten in place, so
// creating and updating converge. Returns ENDPOINT_NOT_FOUND if either
// component does not exist.
func (s *Store) CreateRelationship(from, to, typ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{from, to}
	for _, id := range []string{from, to} {
		if _, ok := s.components[id]; !ok {
			return s.reject(OpCreateRelationship, k.String(),
				errors.New(errors.ErrCodeEndpointNotFound, "component %q not found", id))
		}
	}

	if _, exists := s.rels[k]; !exists {
		s.relOrder = append(s.relOrder, k)
	}
	s.rels[k] = typ
	s.commit(OpCreateRelationship, k.String())
	return nil
}

// UpdateRelationship changes the type of an existing relationship.
// Returns NOT_FOUND if the ordered pair has no relationship.
func (s *Store) UpdateRelationship(from, to, typ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{from, to}
	if _, ok := s.rels[k]; !ok {
		return s.reject(OpUpdateRelationship, k.String(),
			errors.New(errors.ErrCodeNotFound, "relationship %s not found", k))
	}
	s.rels[k] = typ
	s.commit(OpUpdateRelationship, k.String())
	return nil
}

// DeleteRelationship removes the relationship from→to.
// Returns NOT_FOUND if it does not exist.
func (s *Store) DeleteRelationship(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{from, to}
	if _, ok := s.rels[k]; !ok {
		return s.reject(OpDeleteRelationship, k.String(),
			errors.New(errors.ErrCodeNotFound, "relationship %s not found", k))
	}
	delete(s.rels, k)
	s.relOrder = slices.DeleteFunc(s.relOrder, func(o pairKey) bool { return o == k })
	s.commit(OpDeleteRelationship, k.String())
	return nil
}

// Component returns a copy of the component with the given id.
func (s *Store) Component(id string) (Component, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.components[id]
	if !ok {
		return Component{}, false
	}
	return *c, true
}

// Relationship returns the relationship from→to if it exists.
func (s *Store) Relationship(from, to string) (Relationship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typ, ok := s.rels[pairKey{from, to}]
	if !ok {
		return Relationship{}, false
	}
	return Relationship{From: from, To: to, Type: typ}, true
}

// Len returns the number of components and relationships.
func (s *Store) Len() (components, relationships int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), len(s.relOrder)
}

// Revision returns a counter that increases with every successful mutation.
// Two snapshots with the same revision describe the same graph.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns an immutable copy of the current graph. Components and
// relationships are listed in insertion order.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comps := make([]Component, len(s.order))
	for i, id := range s.order {
		comps[i] = *s.components[id]
	}
	rels := make([]Relationship, len(s.relOrder))
	for i, k := range s.relOrder {
		rels[i] = Relationship{From: k.from, To: k.to, Type: s.rels[k]}
	}

	snap := NewSnapshot(comps, rels)
	snap.Revision = s.revision
	return snap
}

// commit must be called with the write lock held.
func (s *Store) commit(op, key string) {
	s.revision++
	observability.Store().OnMutation(op, key, s.revision)
}

func (s *Store) reject(op, key string, err error) error {
	observability.Store().OnRejected(op, key, err)
	return err
}
