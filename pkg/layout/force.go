package layout

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/archscope/pkg/observability"
)

// ForceOptions tunes the spring embedder. The zero value is not useful;
// start from [DefaultForceOptions] and override what you need.
type ForceOptions struct {
	// Iterations is the fixed number of simulation steps.
	Iterations int
	// Seed drives the initial placement. Equal seeds give equal layouts.
	Seed uint64
	// SpringLength is the rest length of an edge spring.
	SpringLength float64
	// Attraction scales the spring force k·(d − SpringLength).
	Attraction float64
	// Repulsion scales the pairwise force k/d².
	Repulsion float64
	// MinDistance caps the repulsion so coincident nodes do not explode.
	MinDistance float64
	// InitialTemperature is the largest step a node may take in the first
	// iteration. It cools linearly to zero over Iterations.
	InitialTemperature float64
}

// DefaultForceOptions returns options that settle small architecture graphs
// (a few dozen components) inside the unit square.
func DefaultForceOptions() ForceOptions {
	return ForceOptions{
		Iterations:         50,
		Seed:               1,
		SpringLength:       0.3,
		Attraction:         1.0,
		Repulsion:          0.01,
		MinDistance:        0.01,
		InitialTemperature: 0.1,
	}
}

// goldenAngle spreads deterministic push directions around the circle.
const goldenAngle = math.Pi * (3 - 2.2360679774997896) // π(3 − √5)

// Force computes a force-directed layout.
//
// Nodes start at seeded pseudo-random positions in the unit square, with
// duplicates nudged apart before the first step. Each iteration applies
// pairwise repulsion and spring attraction along every edge (direction is
// ignored, and a mutual pair counts as one spring), then moves each node by
// at most the current temperature. The temperature shrinks linearly to
// zero, so the per-step displacement bound decreases monotonically and the
// layout settles within the fixed budget.
//
// The result is centered on the origin and scaled so the largest absolute
// coordinate is 1. Distinct nodes never share a coordinate. A single node
// is placed at (0, 0) and an empty input yields an empty map. Edges that
// name unknown nodes are ignored.
//
// A nil opts uses [DefaultForceOptions].
func Force(nodes []string, edges []Edge, opts *ForceOptions) Positions {
	if opts == nil {
		o := DefaultForceOptions()
		opts = &o
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(KindGraph, len(nodes))
	defer func() {
		observability.Layout().OnLayoutComplete(KindGraph, len(nodes), time.Since(start))
	}()

	ids := uniqueIDs(nodes)
	if len(ids) == 0 {
		return Positions{}
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	pos := initialPositions(len(ids), rng)
	springs := buildSprings(ids, edges)

	sim := simulation{pos: pos, springs: springs, opts: opts, disp: make([]Point, len(pos))}
	for it := range opts.Iterations {
		temp := opts.InitialTemperature * (1 - float64(it)/float64(opts.Iterations))
		sim.step(temp)
	}

	separate(pos)
	normalize(pos)
	separate(pos)

	out := make(Positions, len(ids))
	for i, id := range ids {
		out[id] = pos[i]
	}
	return out
}

type spring struct{ u, v int }

type simulation struct {
	pos     []Point
	disp    []Point
	springs []spring
	opts    *ForceOptions
}

func (s *simulation) step(temp float64) {
	clear(s.disp)
	n := len(s.pos)

	for i := range n {
		for j := i + 1; j < n; j++ {
			dx := s.pos[i].X - s.pos[j].X
			dy := s.pos[i].Y - s.pos[j].Y
			d := math.Hypot(dx, dy)
			if d == 0 {
				// Push coincident nodes apart along a fixed direction.
				a := float64(i*n+j) * goldenAngle
				dx, dy, d = math.Cos(a), math.Sin(a), 1
			}
			eff := max(d, s.opts.MinDistance)
			f := s.opts.Repulsion / (eff * eff)
			ux, uy := dx/d, dy/d
			s.disp[i].X += ux * f
			s.disp[i].Y += uy * f
			s.disp[j].X -= ux * f
			s.disp[j].Y -= uy * f
		}
	}

	for _, sp := range s.springs {
		dx := s.pos[sp.v].X - s.pos[sp.u].X
		dy := s.pos[sp.v].Y - s.pos[sp.u].Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			continue
		}
		f := s.opts.Attraction * (d - s.opts.SpringLength)
		ux, uy := dx/d, dy/d
		s.disp[sp.u].X += ux * f
		s.disp[sp.u].Y += uy * f
		s.disp[sp.v].X -= ux * f
		s.disp[sp.v].Y -= uy * f
	}

	for i := range s.pos {
		l := math.Hypot(s.disp[i].X, s.disp[i].Y)
		if l == 0 {
			continue
		}
		step := min(l, temp)
		s.pos[i].X += s.disp[i].X / l * step
		s.pos[i].Y += s.disp[i].Y / l * step
	}
}

func uniqueIDs(nodes []string) []string {
	seen := make(map[string]bool, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, id := range nodes {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func initialPositions(n int, rng *rand.Rand) []Point {
	pos := make([]Point, n)
	taken := make(map[Point]bool, n)
	for i := range pos {
		p := Point{X: rng.Float64(), Y: rng.Float64()}
		for taken[p] {
			p.X += (rng.Float64() - 0.5) * 1e-3
			p.Y += (rng.Float64() - 0.5) * 1e-3
		}
		taken[p] = true
		pos[i] = p
	}
	return pos
}

// buildSprings collapses edges to one undirected spring per node pair.
func buildSprings(ids []string, edges []Edge) []spring {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	seen := make(map[spring]bool, len(edges))
	var out []spring
	for _, e := range edges {
		u, okU := index[e.From]
		v, okV := index[e.To]
		if !okU || !okV || u == v {
			continue
		}
		sp := spring{min(u, v), max(u, v)}
		if seen[sp] {
			continue
		}
		seen[sp] = true
		out = append(out, sp)
	}
	return out
}

// normalize centers pos on the origin and scales the largest absolute
// coordinate to 1.
func normalize(pos []Point) {
	var cx, cy float64
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pos))
	cy /= float64(len(pos))

	var extent float64
	for i := range pos {
		pos[i].X -= cx
		pos[i].Y -= cy
		extent = max(extent, math.Abs(pos[i].X), math.Abs(pos[i].Y))
	}
	if extent == 0 {
		return
	}
	for i := range pos {
		pos[i].X /= extent
		pos[i].Y /= extent
	}
}

// separate nudges any node that shares its exact coordinate with an earlier
// node until every position is unique.
func separate(pos []Point) {
	taken := make(map[Point]bool, len(pos))
	for i := range pos {
		for k := 1; taken[pos[i]]; k++ {
			pos[i].X += 1e-9 * float64(k)
		}
		taken[pos[i]] = true
	}
}
