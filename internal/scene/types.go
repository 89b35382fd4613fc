// Package scene models the scene graph: a node tree whose nodes may carry
// a mesh with indexed geometry channels.
package scene

import "fmt"

// Vec4 is a 4-component tuple: a control point (x, y, z, w),
// a color (r, g, b, a) or a tangent (x, y, z, w).
type Vec4 [4]float64

// Vec2 is a 2-component tuple (u, v).
type Vec2 [2]float64

// MappingMode selects the domain a channel's values are indexed over.
type MappingMode int

const (
	MappingNone MappingMode = iota
	ByControlPoint
	ByPolygonVertex
	ByPolygon
	ByEdge
	AllSame
)

var mappingNames = [...]string{
	MappingNone:     "None",
	ByControlPoint:  "ByControlPoint",
	ByPolygonVertex: "ByPolygonVertex",
	ByPolygon:       "ByPolygon",
	ByEdge:          "ByEdge",
	AllSame:         "AllSame",
}

func (m MappingMode) String() string {
	if m < 0 || int(m) >= len(mappingNames) {
		return fmt.Sprintf("MappingMode(%d)", int(m))
	}
	return mappingNames[m]
}

// ParseMappingMode returns the mapping mode with the given enumerator name.
func ParseMappingMode(s string) (MappingMode, error) {
	for i, name := range mappingNames {
		if name == s {
			return MappingMode(i), nil
		}
	}
	return MappingNone, fmt.Errorf("scene: unknown mapping mode %q", s)
}

// ReferenceMode selects how a channel's values are stored.
type ReferenceMode int

const (
	Direct ReferenceMode = iota
	Index
	IndexToDirect
)

var referenceNames = [...]string{
	Direct:        "Direct",
	Index:         "Index",
	IndexToDirect: "IndexToDirect",
}

func (r ReferenceMode) String() string {
	if r < 0 || int(r) >= len(referenceNames) {
		return fmt.Sprintf("ReferenceMode(%d)", int(r))
	}
	return referenceNames[r]
}

// ParseReferenceMode returns the reference mode with the given enumerator name.
func ParseReferenceMode(s string) (ReferenceMode, error) {
	for i, name := range referenceNames {
		if name == s {
			return ReferenceMode(i), nil
		}
	}
	return Direct, fmt.Errorf("scene: unknown reference mode %q", s)
}

// Element is a named geometry channel (color, UV, tangent).
// V is the component tuple stored in Direct.
type Element[V any] struct {
	Name      string
	Mapping   MappingMode
	Reference ReferenceMode
	Direct    []V
	Index     []int // only meaningful for Index and IndexToDirect
}

// Mesh holds control points, face loops and the channels attached to them.
type Mesh struct {
	Name          string
	ControlPoints []Vec4
	Polygons      [][]int // control-point indices, one loop per face
	Colors        []Element[Vec4]
	UVs           []Element[Vec2]
	Tangents      []Element[Vec4]
}

// Node is one node of the scene tree. A node owns its children.
type Node struct {
	Name     string
	Mesh     *Mesh
	Children []*Node
}

// Scene is a rooted node tree.
type Scene struct {
	Root *Node
}
