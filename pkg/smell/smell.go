// Package smell detects architecture smells in a component graph.
//
// The only smell currently recognized is the mutual dependency: two
// components that each have a direct relationship to the other. Longer
// cycles (A → B → C → A) are deliberately not reported; a mutual pair is the
// tightest coupling two components can have and the one most worth fixing.
//
// Detection reads an [arch.Snapshot] and never mutates the store:
//
//	pairs := smell.DetectCycles(store.Snapshot())
//	for _, p := range pairs {
//	    fmt.Printf("%s <-> %s\n", p.A, p.B)
//	}
package smell

import (
	"time"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/observability"
)

// Pair is one mutual dependency. A is the component that was created first;
// Forward and Backward are the relationship types of A→B and B→A.
type Pair struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Forward  string `json:"forward"`
	Backward string `json:"backward"`
}

// Involves reports whether id is one of the pair's endpoints.
func (p Pair) Involves(id string) bool { return p.A == id || p.B == id }

// Matches reports whether the pair covers the relationship from→to in
// either direction.
func (p Pair) Matches(from, to string) bool {
	return (p.A == from && p.B == to) || (p.A == to && p.B == from)
}

// DetectCycles returns every unordered pair of distinct components {A, B}
// such that both A→B and B→A exist, regardless of their types.
//
// Each pair is reported exactly once. Results are ordered by the insertion
// index of A, then of B, so output is stable for a given snapshot. The scan
// checks all O(n²) candidate pairs with constant-time lookups. Self-loops
// are not mutual dependencies and are ignored.
func DetectCycles(snap arch.Snapshot) []Pair {
	start := time.Now()
	comps := snap.Components

	var pairs []Pair
	for i := range comps {
		a := comps[i].ID
		for j := i + 1; j < len(comps); j++ {
			b := comps[j].ID
			fwd, ok := snap.Relationship(a, b)
			if !ok {
				continue
			}
			back, ok := snap.Relationship(b, a)
			if !ok {
				continue
			}
			pairs = append(pairs, Pair{A: a, B: b, Forward: fwd.Type, Backward: back.Type})
		}
	}

	observability.Smell().OnScan(len(comps), len(pairs), time.Since(start))
	return pairs
}

// Report summarizes a scan for display and for the HTTP API.
type Report struct {
	Revision      uint64 `json:"revision"`
	Components    int    `json:"components"`
	Relationships int    `json:"relationships"`
	Pairs         []Pair `json:"pairs"`
}

// NewReport runs [DetectCycles] and wraps the result with graph counts.
// Pairs is never nil so it always serializes as a JSON array.
func NewReport(snap arch.Snapshot) Report {
	pairs := DetectCycles(snap)
	if pairs == nil {
		pairs = []Pair{}
	}
	return Report{
		Revision:      snap.Revision,
		Components:    len(snap.Components),
		Relationships: len(snap.Relationships),
		Pairs:         pairs,
	}
}

// Clean reports whether the scan found no smells.
func (r Report) Clean() bool { return len(r.Pairs) == 0 }

// Involved returns the set of component IDs that take part in at least one
// mutual dependency.
func Involved(pairs []Pair) map[string]bool {
	ids := make(map[string]bool, 2*len(pairs))
	for _, p := range pairs {
		ids[p.A] = true
		ids[p.B] = true
	}
	return ids
}
