package physics

import (
	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
)

// integrate applies damped semi-implicit Euler integration: velocity is
// damped first, then added to position, then the node is clamped inside
// the viewport accounting for its radius. Crossing a boundary inverts and
// attenuates the corresponding velocity component (inelastic bounce), so
// every node stays visible without a collision solver.
func integrate(buf []float32, vp models.Viewport, p Params) {
	n := len(buf) / store.Stride
	for i := 0; i < n; i++ {
		base := i * store.Stride

		vx := buf[base+store.OffVX] * p.Damping
		vy := buf[base+store.OffVY] * p.Damping
		if !finite(vx) {
			vx = 0
		}
		if !finite(vy) {
			vy = 0
		}

		x := buf[base+store.OffX] + vx
		y := buf[base+store.OffY] + vy
		r := buf[base+store.OffRadius]

		// A radius wider than half the viewport leaves no admissible
		// range; pin such a node to the axis midpoint, matching the
		// initial-placement clamp.
		if r > vp.Width-r {
			x = vp.Width / 2
			vx = 0
		} else if x < r {
			x = r
			vx = -vx * p.Bounce
		} else if x > vp.Width-r {
			x = vp.Width - r
			vx = -vx * p.Bounce
		}
		if r > vp.Height-r {
			y = vp.Height / 2
			vy = 0
		} else if y < r {
			y = r
			vy = -vy * p.Bounce
		} else if y > vp.Height-r {
			y = vp.Height - r
			vy = -vy * p.Bounce
		}

		buf[base+store.OffX] = x
		buf[base+store.OffY] = y
		buf[base+store.OffVX] = vx
		buf[base+store.OffVY] = vy
	}
}
