package physics

import "math"

// float32 helpers for the hot path.

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
