// Package models provides the data structures shared across the layout
// engine: node and link input specs, the closed node type enum, and the
// read-only metadata published back to the rendering side.
package models

import (
	"encoding/json"
	"fmt"
)

// NodeType classifies a node for radius and rendering tier selection.
type NodeType uint8

const (
	TypeRoot NodeType = iota
	TypeOrganization
	TypeParty
	TypeEvidence
)

// typeNames is indexed by NodeType.
var typeNames = [...]string{"root", "organization", "party", "evidence"}

// typeRadii maps each node type to its layout radius, in layout units.
// The root entity is the visual anchor and gets the largest radius;
// evidence items are leaves and get the smallest.
var typeRadii = [...]float32{26, 18, 14, 9}

// ParseNodeType converts a string tag into its NodeType.
func ParseNodeType(s string) (NodeType, error) {
	for i, name := range typeNames {
		if name == s {
			return NodeType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

// String returns the canonical name of the node type.
func (t NodeType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Radius returns the layout radius for the node type. Always positive.
func (t NodeType) Radius() float32 {
	if int(t) < len(typeRadii) {
		return typeRadii[t]
	}
	return typeRadii[TypeEvidence]
}

// MarshalJSON encodes the type as its string name.
func (t NodeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the type from its string name.
func (t *NodeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseNodeType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// NodeSpec describes one node of the input graph.
type NodeSpec struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  NodeType `json:"type"`
}

// LinkSpec describes one relationship link of the input graph by the
// string identities of its endpoints. Strength defaults to 1 when zero.
type LinkSpec struct {
	SourceID string  `json:"source"`
	TargetID string  `json:"target"`
	Strength float32 `json:"strength,omitempty"`
}

// NodeMeta is the immutable per-node metadata published alongside the
// position buffer. Its index matches the node's buffer slot.
type NodeMeta struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  NodeType `json:"type"`
}

// Viewport is the layout area in layout units.
type Viewport struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}
