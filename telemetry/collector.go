// Package telemetry collects per-frame engine statistics over a rolling
// window: frame compute time and how far nodes moved. It exists for the
// CLI's debug output and costs nothing when disabled.
package telemetry

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
)

// Stats is a snapshot of the rolling window.
type Stats struct {
	Frames           int           // total frames recorded
	AvgFrame         time.Duration // mean compute time over the window
	MeanDisplacement float64       // mean per-node movement, layout units/frame
	StdDisplacement  float64
}

// Collector tracks frame timings and node displacement. Record must be
// called from a single goroutine while that goroutine owns the buffer;
// Snapshot may be called concurrently from any goroutine.
type Collector struct {
	mu        sync.Mutex
	window    int
	durations []float64 // ring of frame times, seconds
	moves     []float64 // ring of mean displacements
	count     int
	prev      []float32 // positions from the previous recorded frame
	scratch   []float64
}

// NewCollector creates a collector averaging over the given window size.
func NewCollector(window int) *Collector {
	if window < 1 {
		window = 60
	}
	return &Collector{
		window:    window,
		durations: make([]float64, 0, window),
		moves:     make([]float64, 0, window),
	}
}

// Record ingests one completed frame.
func (c *Collector) Record(buf []float32, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(buf) / store.Stride

	move := 0.0
	if c.prev != nil && len(c.prev) == len(buf) {
		c.scratch = c.scratch[:0]
		for i := 0; i < n; i++ {
			base := i * store.Stride
			dx := float64(buf[base+store.OffX] - c.prev[base+store.OffX])
			dy := float64(buf[base+store.OffY] - c.prev[base+store.OffY])
			c.scratch = append(c.scratch, math.Sqrt(dx*dx+dy*dy))
		}
		if len(c.scratch) > 0 {
			move = stat.Mean(c.scratch, nil)
		}
	} else {
		c.prev = make([]float32, len(buf))
	}
	copy(c.prev, buf)

	idx := c.count % c.window
	if len(c.durations) < c.window {
		c.durations = append(c.durations, elapsed.Seconds())
		c.moves = append(c.moves, move)
	} else {
		c.durations[idx] = elapsed.Seconds()
		c.moves[idx] = move
	}
	c.count++
}

// Snapshot summarizes the current window.
func (c *Collector) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Frames: c.count}
	if len(c.durations) > 0 {
		s.AvgFrame = time.Duration(stat.Mean(c.durations, nil) * float64(time.Second))
	}
	if len(c.moves) == 1 {
		s.MeanDisplacement = c.moves[0]
	} else if len(c.moves) > 1 {
		mean, std := stat.MeanStdDev(c.moves, nil)
		s.MeanDisplacement = mean
		s.StdDisplacement = std
	}
	return s
}
