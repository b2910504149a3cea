// Package store implements the flat simulation buffer, the identity map
// from external node IDs to buffer slots, and link resolution.
//
// All mutable per-node simulation state lives in one contiguous []float32
// at a fixed stride, so slot i's fields sit at i*Stride plus a field
// offset. The buffer is the unit of ownership transfer between the facade
// and the compute host; everything else in the store is immutable after
// construction.
package store

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
)

// Buffer layout per node slot.
const (
	Stride = 6

	OffX      = 0
	OffY      = 1
	OffVX     = 2
	OffVY     = 3
	OffRadius = 4
	OffType   = 5
)

// Link is a resolved edge between two buffer slots.
type Link struct {
	Source   int32
	Target   int32
	Strength float32
}

// Store holds the simulation buffer and the immutable side tables built
// from the caller's node list.
type Store struct {
	buf   []float32
	slots map[string]int32
	meta  []models.NodeMeta
}

// initialSpread is the fraction of the smaller viewport dimension used as
// the starting scatter radius around the center.
const initialSpread = 0.25

// New allocates the buffer for the given nodes and places each one near
// the viewport center with a deterministic noise-driven offset, so no two
// nodes start exactly coincident. Velocity starts at zero and radius comes
// from the node type. Duplicate IDs keep their first slot; later ones are
// still simulated but unreachable by links.
func New(nodes []models.NodeSpec, vp models.Viewport, seed int64) *Store {
	s := &Store{
		buf:   make([]float32, len(nodes)*Stride),
		slots: make(map[string]int32, len(nodes)),
		meta:  make([]models.NodeMeta, len(nodes)),
	}

	rng := rand.New(rand.NewSource(seed))
	noise := opensimplex.NewNormalized(seed)
	spread := initialSpread * minf(vp.Width, vp.Height)
	cx, cy := vp.Center()

	for i, n := range nodes {
		base := i * Stride

		// Polar scatter biased toward the center (sqrt-free: the raw
		// uniform radius already concentrates mass inward), perturbed by
		// smooth noise so near-identical angles still separate.
		angle := rng.Float64() * 2 * math.Pi
		dist := float64(spread) * rng.Float64()
		jx := float32(noise.Eval2(float64(i)*0.73, 0)-0.5) * spread * 0.2
		jy := float32(noise.Eval2(0, float64(i)*0.73)-0.5) * spread * 0.2

		radius := n.Type.Radius()
		x := cx + float32(math.Cos(angle)*dist) + jx
		y := cy + float32(math.Sin(angle)*dist) + jy

		s.buf[base+OffX] = clampf(x, radius, vp.Width-radius)
		s.buf[base+OffY] = clampf(y, radius, vp.Height-radius)
		s.buf[base+OffVX] = 0
		s.buf[base+OffVY] = 0
		s.buf[base+OffRadius] = radius
		s.buf[base+OffType] = float32(n.Type)

		if _, exists := s.slots[n.ID]; !exists {
			s.slots[n.ID] = int32(i)
		}
		s.meta[i] = models.NodeMeta{ID: n.ID, Label: n.Label, Type: n.Type}
	}

	return s
}

// Len returns the node count.
func (s *Store) Len() int {
	return len(s.meta)
}

// TakeBuffer hands out the simulation buffer and drops the store's own
// reference. There is exactly one live reference afterwards; the store
// cannot hand it out twice.
func (s *Store) TakeBuffer() []float32 {
	b := s.buf
	s.buf = nil
	return b
}

// Slot resolves an external node ID to its buffer slot.
func (s *Store) Slot(id string) (int32, bool) {
	i, ok := s.slots[id]
	return i, ok
}

// Meta returns the immutable per-slot node metadata.
func (s *Store) Meta() []models.NodeMeta {
	return s.meta
}

// ResolveLinks maps the caller's link list onto buffer slots. Links whose
// endpoints are absent from the identity map are dropped, not stored:
// partial graphs are an expected input shape, not an error.
func (s *Store) ResolveLinks(links []models.LinkSpec) []Link {
	resolved := make([]Link, 0, len(links))
	for _, l := range links {
		src, ok := s.slots[l.SourceID]
		if !ok {
			continue
		}
		dst, ok := s.slots[l.TargetID]
		if !ok {
			continue
		}
		resolved = append(resolved, Link{
			Source:   src,
			Target:   dst,
			Strength: l.EffectiveStrength(),
		})
	}
	return resolved
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func clampf(v, lo, hi float32) float32 {
	if lo > hi {
		// Node larger than the viewport; pin it to the midpoint.
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
