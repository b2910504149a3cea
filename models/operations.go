package models

import "github.com/google/uuid"

// NewInstanceID returns a unique identifier for one layout instance.
// It is used only for log correlation, never for simulation state.
func NewInstanceID() string {
	return uuid.New().String()
}

// EffectiveStrength returns the link strength, substituting the default
// of 1 when the input left it unset.
func (l LinkSpec) EffectiveStrength() float32 {
	if l.Strength <= 0 {
		return 1
	}
	return l.Strength
}

// Center returns the viewport center point.
func (v Viewport) Center() (float32, float32) {
	return v.Width / 2, v.Height / 2
}
