package physics

import (
	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/spatial"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
)

// Simulation executes frames for one layout instance. The link list and
// viewport are read-only after construction; the grid and scratch slice
// are per-frame working memory reused across frames, which is why a
// Simulation must only ever run one frame at a time.
type Simulation struct {
	links   []store.Link
	vp      models.Viewport
	p       Params
	grid    *spatial.Grid
	scratch []int32
}

// NewSimulation creates a frame executor over the given resolved links.
func NewSimulation(links []store.Link, vp models.Viewport, cellSize float32, rings int, p Params) *Simulation {
	return &Simulation{
		links: links,
		vp:    vp,
		p:     p,
		grid:  spatial.NewGrid(cellSize, rings),
	}
}

// Step advances the simulation by exactly one frame: rebuild the spatial
// grid, accumulate forces into velocities, integrate, then decay alpha.
// It returns the decayed alpha and whether the layout is now stable.
func (s *Simulation) Step(buf []float32, alpha float32) (float32, bool) {
	s.grid.Reset()
	n := len(buf) / store.Stride
	for i := 0; i < n; i++ {
		base := i * store.Stride
		s.grid.Insert(int32(i), buf[base+store.OffX], buf[base+store.OffY])
	}

	s.scratch = applyRepulsion(buf, s.grid, s.scratch, alpha, s.p)
	applySprings(buf, s.links, alpha, s.p)
	applyGravity(buf, s.vp, alpha, s.p)
	integrate(buf, s.vp, s.p)

	next := s.p.Cooling.Next(alpha)
	return next, s.p.Cooling.Stable(next)
}
