// Package arch holds the architecture graph: components and the directed,
// typed relationships between them.
//
// # Overview
//
// A [Component] is a software unit with a user-assigned, immutable ID plus
// a mutable name and free-form metadata. A [Relationship] connects two
// components in one direction and carries a type label such as "calls" or
// "depends on". The [Store] owns both and guarantees that no relationship
// ever points at a component that does not exist.
//
// # Basic Usage
//
//	s := arch.NewStore()
//	_ = s.CreateComponent("UI", "User Interface", "")
//	_ = s.CreateComponent("API", "Public API", "go")
//	_ = s.CreateRelationship("UI", "API", "calls")
//
// Errors carry a code from [github.com/matzehuels/archscope/pkg/errors]:
//
//	err := s.CreateComponent("UI", "dup", "")
//	errors.Is(err, errors.ErrCodeDuplicateID) // true
//
// # Partial Updates
//
// [Store.UpdateComponent] takes a [ComponentUpdate] whose fields are
// pointers. A nil field is left alone, which makes "set metadata to the
// empty string" and "do not touch metadata" two different requests.
//
// # Cascading Deletes
//
// Deleting a component removes every relationship where it is the source
// or the target, in the same atomic step.
//
// # Snapshots
//
// Derived computations (smell detection, layout, rendering) read a
// [Snapshot], an immutable copy that keeps insertion order for both
// components and relationships. Snapshots are cheap to take and are never
// invalidated; callers take a fresh one whenever they need current data.
//
// # Concurrency
//
// Store serializes mutations with a mutex and is safe for concurrent use.
// Snapshots are values and can be shared freely between goroutines.
package arch
