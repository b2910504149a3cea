package compute

import (
	"sync"
	"sync/atomic"
	"time"
)

// workerHost runs frames on a dedicated goroutine reachable only through
// its request and result channels. This is the default strategy: the
// caller's goroutine never blocks on frame computation.
type workerHost struct {
	step      StepFunc
	requests  chan Frame
	results   chan Frame
	done      chan struct{}
	computing atomic.Bool
	closeOnce sync.Once
}

// NewWorkerHost starts a host with its own worker goroutine. The worker
// performs no I/O and never blocks except to wait for the next frame
// request.
func NewWorkerHost(step StepFunc) Host {
	h := &workerHost{
		step:     step,
		requests: make(chan Frame, 1),
		results:  make(chan Frame, 1),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *workerHost) run() {
	for {
		select {
		case f := <-h.requests:
			start := time.Now()
			f.Alpha, f.Stable = h.step(f.Buf, f.Alpha)
			f.Elapsed = time.Since(start)
			// Drop the gate before queuing the result so a client that
			// receives the frame can resubmit without ever seeing it
			// held. The single worker goroutine still serializes frames.
			h.computing.Store(false)
			select {
			case h.results <- f:
			case <-h.done:
				return
			}
		case <-h.done:
			return
		}
	}
}

// Submit schedules one frame. A submission while the previous frame is
// still computing is rejected; one issued after completion but before the
// result is drained is queued and runs strictly after it.
func (h *workerHost) Submit(f Frame) error {
	select {
	case <-h.done:
		return ErrHostClosed
	default:
	}
	if !h.computing.CompareAndSwap(false, true) {
		return ErrFrameInFlight
	}
	// Capacity 1 and the computing gate make this send non-blocking.
	h.requests <- f
	return nil
}

func (h *workerHost) Results() <-chan Frame {
	return h.results
}

func (h *workerHost) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}
