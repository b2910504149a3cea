// Package physics implements the force model, the integrator and the
// cooling schedule that together advance the layout by one frame.
//
// All functions here are pure with respect to everything except the
// simulation buffer they are handed: no I/O, no logging, no shared state.
// That keeps a frame's result a function of (buffer, links, viewport,
// alpha, parameters) alone, which the compute strategies rely on.
package physics

import (
	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/spatial"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
)

// Params collects the force and integration constants for one instance.
type Params struct {
	Repulsion  float32 // inverse-square push scale
	Spring     float32 // Hookean constant for link attraction
	RestLength float32 // natural link length
	Gravity    float32 // pull toward viewport center
	Damping    float32 // velocity retention per frame, (0,1)
	Bounce     float32 // velocity retention after a boundary hit
	EpsilonSq  float32 // squared distance floor for repulsion
	CutoffSq   float32 // squared repulsion cutoff

	Cooling Cooling
}

// applyRepulsion accumulates inverse-square repulsion between every node
// pair the grid reports within range. Each pair is visited once (j > i)
// and receives equal and opposite velocity changes. Pairs beyond the
// cutoff are skipped, matching the grid's neighborhood guarantee.
func applyRepulsion(buf []float32, grid *spatial.Grid, scratch []int32, alpha float32, p Params) []int32 {
	n := len(buf) / store.Stride
	for i := 0; i < n; i++ {
		base := i * store.Stride
		xi := buf[base+store.OffX]
		yi := buf[base+store.OffY]

		scratch = grid.NeighborsInto(scratch[:0], xi, yi)
		for _, j := range scratch {
			if int(j) <= i {
				continue
			}
			jb := int(j) * store.Stride
			dx := xi - buf[jb+store.OffX]
			dy := yi - buf[jb+store.OffY]
			if dx == 0 && dy == 0 {
				// Exactly coincident nodes have no direction to push
				// along; a fixed nudge lets the pair separate.
				dx = 1e-3
			}
			d2 := dx*dx + dy*dy
			if d2 > p.CutoffSq {
				continue
			}
			if d2 < p.EpsilonSq {
				d2 = p.EpsilonSq
			}
			f := alpha * p.Repulsion / d2 / sqrt32(d2)
			fx := dx * f
			fy := dy * f
			buf[base+store.OffVX] += fx
			buf[base+store.OffVY] += fy
			buf[jb+store.OffVX] -= fx
			buf[jb+store.OffVY] -= fy
		}
	}
	return scratch
}

// applySprings accumulates Hookean attraction along every resolved link,
// pulling both endpoints toward the rest length with equal and opposite
// force scaled by the link strength.
func applySprings(buf []float32, links []store.Link, alpha float32, p Params) {
	for _, l := range links {
		sb := int(l.Source) * store.Stride
		tb := int(l.Target) * store.Stride
		dx := buf[tb+store.OffX] - buf[sb+store.OffX]
		dy := buf[tb+store.OffY] - buf[sb+store.OffY]
		d2 := dx*dx + dy*dy
		if d2 < p.EpsilonSq {
			continue
		}
		d := sqrt32(d2)
		f := alpha * p.Spring * (d - p.RestLength) * l.Strength / d
		fx := dx * f
		fy := dy * f
		buf[sb+store.OffVX] += fx
		buf[sb+store.OffVY] += fy
		buf[tb+store.OffVX] -= fx
		buf[tb+store.OffVY] -= fy
	}
}

// applyGravity pulls every node toward the viewport center with force
// proportional to its displacement, keeping the graph on screen when
// repulsion dominates.
func applyGravity(buf []float32, vp models.Viewport, alpha float32, p Params) {
	cx, cy := vp.Center()
	g := alpha * p.Gravity
	n := len(buf) / store.Stride
	for i := 0; i < n; i++ {
		base := i * store.Stride
		buf[base+store.OffVX] += (cx - buf[base+store.OffX]) * g
		buf[base+store.OffVY] += (cy - buf[base+store.OffY]) * g
	}
}
