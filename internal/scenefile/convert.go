package scenefile

import (
	"fmt"

	"fbx2json/internal/export"
	"fbx2json/internal/scene"
)

// FromDocument rebuilds a scene graph from an exported document.
func FromDocument(doc *export.Document) (*scene.Scene, error) {
	root, err := fromNode(&doc.RootNode)
	if err != nil {
		return nil, err
	}
	s := &scene.Scene{Root: root}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

func fromNode(rec *export.NodeRecord) (*scene.Node, error) {
	n := &scene.Node{Name: rec.Name}
	if rec.Mesh != nil {
		m, err := fromMesh(rec.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", rec.Name, err)
		}
		n.Mesh = m
	}
	for i := range rec.Children {
		c, err := fromNode(&rec.Children[i])
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func fromMesh(rec *export.MeshRecord) (*scene.Mesh, error) {
	m := &scene.Mesh{
		Name:          rec.Name,
		ControlPoints: rec.ControlPoints,
		Polygons:      rec.Polygons,
	}
	var err error
	if m.Colors, err = fromChannels(rec.VertexColors); err != nil {
		return nil, fmt.Errorf("mesh %q: vertexColors: %w", rec.Name, err)
	}
	if m.UVs, err = fromChannels(rec.UV); err != nil {
		return nil, fmt.Errorf("mesh %q: uv: %w", rec.Name, err)
	}
	if m.Tangents, err = fromChannels(rec.Tangents); err != nil {
		return nil, fmt.Errorf("mesh %q: tangents: %w", rec.Name, err)
	}
	return m, nil
}

func fromChannels[V any](recs []export.ChannelRecord[V]) ([]scene.Element[V], error) {
	var out []scene.Element[V]
	for _, rec := range recs {
		mapping, err := scene.ParseMappingMode(rec.MappingMode)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", rec.Name, err)
		}
		ref, err := scene.ParseReferenceMode(rec.RefMode)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", rec.Name, err)
		}
		e := scene.Element[V]{
			Name:      rec.Name,
			Mapping:   mapping,
			Reference: ref,
			Direct:    rec.DirectArray,
		}
		if ref != scene.Direct {
			e.Index = rec.IndexArray
		}
		out = append(out, e)
	}
	return out, nil
}
