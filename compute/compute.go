// Package compute provides the execution strategies that run simulation
// frames. The force and integration logic is written exactly once (the
// StepFunc); hosts only decide where it runs.
//
// A Frame carries the simulation buffer with it, and the buffer has
// exactly one owner at any instant: Submit transfers ownership to the
// host, Results transfers it back. Neither side keeps a reference across
// the handoff, which rules out concurrent access by construction rather
// than by locking.
package compute

import (
	"errors"
	"time"
)

// StepFunc computes one simulation frame in place and returns the decayed
// alpha and the stability flag for that frame.
type StepFunc func(buf []float32, alpha float32) (next float32, stable bool)

// Frame is the unit of exchange with a host. Buf ownership travels with
// the frame; Alpha rides alongside, decayed on the way back. Elapsed is
// filled in by the host with the frame's compute time.
type Frame struct {
	Buf     []float32
	Alpha   float32
	Stable  bool
	Elapsed time.Duration
}

// Host runs one frame at a time for one layout instance.
//
// Hosts serve a single client goroutine: Submit must not be called again
// until the previous frame has been received from Results. Overlapping
// submissions are rejected with ErrFrameInFlight, never run concurrently.
type Host interface {
	// Submit transfers the frame's buffer to the host and schedules one
	// simulation frame. It never blocks.
	Submit(f Frame) error

	// Results delivers completed frames, transferring the buffer back.
	Results() <-chan Frame

	// Close terminates the host immediately. No drain is attempted; a
	// frame in flight at close time is abandoned.
	Close()
}

var (
	// ErrFrameInFlight means a frame was submitted before the previous
	// one came back. The caller cannot hold the buffer at this point, so
	// this is a protocol violation, not a scheduling hint.
	ErrFrameInFlight = errors.New("compute: frame already in flight")

	// ErrHostClosed means the host has been closed.
	ErrHostClosed = errors.New("compute: host closed")
)
