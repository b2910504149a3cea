package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
)

func frameAt(x, y float32) []float32 {
	buf := make([]float32, store.Stride)
	buf[store.OffX] = x
	buf[store.OffY] = y
	buf[store.OffRadius] = 10
	return buf
}

func TestCollectorDisplacement(t *testing.T) {
	c := NewCollector(8)

	c.Record(frameAt(100, 100), time.Millisecond)
	c.Record(frameAt(103, 104), time.Millisecond) // moved 5 units

	s := c.Snapshot()
	if s.Frames != 2 {
		t.Fatalf("frames = %d, want 2", s.Frames)
	}
	// First frame has no predecessor, so the window holds moves {0, 5}.
	if math.Abs(s.MeanDisplacement-2.5) > 1e-6 {
		t.Errorf("mean displacement = %v, want 2.5", s.MeanDisplacement)
	}
	if s.AvgFrame != time.Millisecond {
		t.Errorf("avg frame = %v, want 1ms", s.AvgFrame)
	}
}

func TestCollectorWindowWraps(t *testing.T) {
	c := NewCollector(4)

	// Ten identical frames: once the window fills, old samples fall out.
	for i := 0; i < 10; i++ {
		c.Record(frameAt(50, 50), 2*time.Millisecond)
	}

	s := c.Snapshot()
	if s.Frames != 10 {
		t.Errorf("frames = %d, want 10", s.Frames)
	}
	if s.MeanDisplacement != 0 {
		t.Errorf("mean displacement = %v, want 0 for a motionless node", s.MeanDisplacement)
	}
	if s.AvgFrame != 2*time.Millisecond {
		t.Errorf("avg frame = %v, want 2ms", s.AvgFrame)
	}
}

func TestCollectorConcurrentSnapshot(t *testing.T) {
	c := NewCollector(4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c.Record(frameAt(float32(i), float32(i)), time.Millisecond)
		}
	}()
	// Poll while frames are being recorded, the way a renderer would.
	for {
		select {
		case <-done:
			if s := c.Snapshot(); s.Frames != 200 {
				t.Fatalf("frames = %d, want 200", s.Frames)
			}
			return
		default:
			_ = c.Snapshot()
		}
	}
}

func TestCollectorSingleFrame(t *testing.T) {
	c := NewCollector(4)
	c.Record(frameAt(1, 1), time.Millisecond)

	s := c.Snapshot()
	if s.Frames != 1 || s.MeanDisplacement != 0 {
		t.Errorf("snapshot = %+v, want one frame with zero displacement", s)
	}
	if s.StdDisplacement != 0 {
		t.Errorf("std of one sample = %v, want 0", s.StdDisplacement)
	}
}
