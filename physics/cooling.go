package physics

// Cooling is the alpha schedule. Alpha decays multiplicatively every
// frame; once it reaches the floor the layout is stable and stays idle
// until an explicit reheat raises alpha again.
type Cooling struct {
	DecayRate   float32
	Floor       float32
	ReheatAlpha float32
}

// Next returns the decayed alpha for the following frame.
func (c Cooling) Next(alpha float32) float32 {
	return alpha * (1 - c.DecayRate)
}

// Stable reports whether the given alpha is at or below the floor.
func (c Cooling) Stable(alpha float32) bool {
	return alpha <= c.Floor
}
