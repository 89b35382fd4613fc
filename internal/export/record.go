// Package export flattens a scene graph into the canonical document: nested
// records of primitive arrays, with channels serialized raw.
package export

import "fbx2json/internal/scene"

// Document is the top-level wire object.
type Document struct {
	RootNode NodeRecord `json:"RootNode" yaml:"RootNode"`
}

// NodeRecord is one exported node. Mesh is nil for nodes without a mesh.
type NodeRecord struct {
	Name     string       `json:"name" yaml:"name"`
	Mesh     *MeshRecord  `json:"mesh" yaml:"mesh"`
	Children []NodeRecord `json:"children" yaml:"children"`
}

// MeshRecord is one exported mesh. All slices are non-nil so every field
// is present on the wire.
type MeshRecord struct {
	Name          string                      `json:"name" yaml:"name"`
	ControlPoints []scene.Vec4                `json:"controlPoints" yaml:"controlPoints"`
	Polygons      [][]int                     `json:"polygons" yaml:"polygons"`
	VertexColors  []ChannelRecord[scene.Vec4] `json:"vertexColors" yaml:"vertexColors"`
	UV            []ChannelRecord[scene.Vec2] `json:"uv" yaml:"uv"`
	Tangents      []ChannelRecord[scene.Vec4] `json:"tangents" yaml:"tangents"`
}

// ChannelRecord is a raw geometry channel.
type ChannelRecord[V any] struct {
	Name        string `json:"name" yaml:"name"`
	MappingMode string `json:"mappingMode" yaml:"mappingMode"`
	RefMode     string `json:"refMode" yaml:"refMode"`
	IndexArray  []int  `json:"indexArray" yaml:"indexArray"`
	DirectArray []V    `json:"directArray" yaml:"directArray"`
}
