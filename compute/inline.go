package compute

import "time"

// inlineHost runs frames synchronously in the submitting goroutine. It is
// the cooperative fallback for environments where a dedicated worker is
// undesirable; the frame protocol is identical to the worker host, only
// the non-blocking property of Submit is lost.
type inlineHost struct {
	step    StepFunc
	results chan Frame
	closed  bool
}

// NewInlineHost creates a host that computes each frame during Submit and
// delivers it on Results immediately afterwards.
func NewInlineHost(step StepFunc) Host {
	return &inlineHost{
		step:    step,
		results: make(chan Frame, 1),
	}
}

func (h *inlineHost) Submit(f Frame) error {
	if h.closed {
		return ErrHostClosed
	}
	if len(h.results) != 0 {
		// Previous frame not collected; the client cannot legitimately
		// hold a buffer to submit here.
		return ErrFrameInFlight
	}
	start := time.Now()
	f.Alpha, f.Stable = h.step(f.Buf, f.Alpha)
	f.Elapsed = time.Since(start)
	h.results <- f
	return nil
}

func (h *inlineHost) Results() <-chan Frame {
	return h.results
}

func (h *inlineHost) Close() {
	h.closed = true
}
