package compute

import (
	"errors"
	"testing"
	"time"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/physics"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
)

// decayStep is a trivial step function for protocol tests.
func decayStep(buf []float32, alpha float32) (float32, bool) {
	next := alpha * 0.9
	return next, next <= 0.1
}

func recv(t *testing.T, h Host) Frame {
	t.Helper()
	select {
	case f := <-h.Results():
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame result")
		return Frame{}
	}
}

func TestWorkerFramesSequential(t *testing.T) {
	h := NewWorkerHost(decayStep)
	defer h.Close()

	buf := make([]float32, store.Stride)
	alpha := float32(1)
	for i := 0; i < 5; i++ {
		if err := h.Submit(Frame{Buf: buf, Alpha: alpha}); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		f := recv(t, h)
		if f.Alpha >= alpha {
			t.Fatalf("frame %d: alpha %v did not decay from %v", i, f.Alpha, alpha)
		}
		buf, alpha = f.Buf, f.Alpha
	}
}

func TestWorkerRejectsOverlappingSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := func(buf []float32, alpha float32) (float32, bool) {
		close(started)
		<-release
		return alpha, false
	}

	h := NewWorkerHost(blocking)
	defer h.Close()

	if err := h.Submit(Frame{Buf: make([]float32, store.Stride), Alpha: 1}); err != nil {
		t.Fatal(err)
	}
	<-started

	// The buffer is with the worker; a second submission is a protocol
	// violation and must be rejected, never run concurrently.
	if err := h.Submit(Frame{Buf: nil, Alpha: 1}); !errors.Is(err, ErrFrameInFlight) {
		t.Fatalf("overlapping submit error = %v, want ErrFrameInFlight", err)
	}

	close(release)
	recv(t, h)
}

// TestWorkerResubmitAfterReceive hammers the documented sequential
// protocol: once a client holds the result frame, the very next Submit
// must succeed, regardless of goroutine scheduling.
func TestWorkerResubmitAfterReceive(t *testing.T) {
	h := NewWorkerHost(decayStep)
	defer h.Close()

	f := Frame{Buf: make([]float32, store.Stride), Alpha: 1e9}
	for i := 0; i < 10000; i++ {
		if err := h.Submit(f); err != nil {
			t.Fatalf("submit %d after receive: %v", i, err)
		}
		f = recv(t, h)
	}
}

func TestWorkerClose(t *testing.T) {
	h := NewWorkerHost(decayStep)
	h.Close()
	h.Close() // idempotent

	if err := h.Submit(Frame{}); !errors.Is(err, ErrHostClosed) {
		t.Fatalf("submit after close error = %v, want ErrHostClosed", err)
	}
}

func TestInlineRejectsUncollectedFrame(t *testing.T) {
	h := NewInlineHost(decayStep)
	defer h.Close()

	if err := h.Submit(Frame{Buf: make([]float32, store.Stride), Alpha: 1}); err != nil {
		t.Fatal(err)
	}
	if err := h.Submit(Frame{Alpha: 1}); !errors.Is(err, ErrFrameInFlight) {
		t.Fatalf("second submit error = %v, want ErrFrameInFlight", err)
	}
	recv(t, h)
}

func TestInlineClose(t *testing.T) {
	h := NewInlineHost(decayStep)
	h.Close()
	if err := h.Submit(Frame{}); !errors.Is(err, ErrHostClosed) {
		t.Fatalf("submit after close error = %v, want ErrHostClosed", err)
	}
}

// TestStrategyEquivalence runs the same initial graph through the worker
// path and the inline path and expects numerically identical buffers:
// where a frame runs must not change what it computes.
func TestStrategyEquivalence(t *testing.T) {
	vp := models.Viewport{Width: 1280, Height: 800}
	params := physics.Params{
		Repulsion:  1200,
		Spring:     0.08,
		RestLength: 90,
		Gravity:    0.03,
		Damping:    0.85,
		Bounce:     0.5,
		EpsilonSq:  0.01,
		CutoffSq:   160 * 160,
		Cooling:    physics.Cooling{DecayRate: 0.02, Floor: 0.005, ReheatAlpha: 0.3},
	}

	makeBuf := func() []float32 {
		buf := make([]float32, 4*store.Stride)
		for i := 0; i < 4; i++ {
			base := i * store.Stride
			buf[base+store.OffX] = 600 + float32(i)*25
			buf[base+store.OffY] = 380 + float32(i)*20
			buf[base+store.OffRadius] = 10
		}
		return buf
	}
	links := []store.Link{{Source: 0, Target: 3, Strength: 1}}

	workerSim := physics.NewSimulation(links, vp, 160, 1, params)
	inlineSim := physics.NewSimulation(links, vp, 160, 1, params)

	worker := NewWorkerHost(workerSim.Step)
	defer worker.Close()
	inline := NewInlineHost(inlineSim.Step)
	defer inline.Close()

	wf := Frame{Buf: makeBuf(), Alpha: 1}
	inl := Frame{Buf: makeBuf(), Alpha: 1}

	for i := 0; i < 3; i++ {
		if err := worker.Submit(wf); err != nil {
			t.Fatal(err)
		}
		wf = recv(t, worker)

		if err := inline.Submit(inl); err != nil {
			t.Fatal(err)
		}
		inl = recv(t, inline)
	}

	if wf.Alpha != inl.Alpha || wf.Stable != inl.Stable {
		t.Errorf("frame state diverged: alpha %v vs %v, stable %v vs %v",
			wf.Alpha, inl.Alpha, wf.Stable, inl.Stable)
	}
	for i := range wf.Buf {
		if wf.Buf[i] != inl.Buf[i] {
			t.Fatalf("buffers diverge at %d: %v vs %v", i, wf.Buf[i], inl.Buf[i])
		}
	}
}
