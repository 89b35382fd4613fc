package export

import "fbx2json/internal/scene"

// ExportMesh flattens m. Channels are copied as stored, in storage order,
// without resolving them.
func ExportMesh(m *scene.Mesh) MeshRecord {
	rec := MeshRecord{
		Name:          m.Name,
		ControlPoints: make([]scene.Vec4, len(m.ControlPoints)),
		Polygons:      make([][]int, len(m.Polygons)),
		VertexColors:  exportChannels(m.Colors),
		UV:            exportChannels(m.UVs),
		Tangents:      exportChannels(m.Tangents),
	}
	copy(rec.ControlPoints, m.ControlPoints)
	for i, p := range m.Polygons {
		rec.Polygons[i] = append(make([]int, 0, len(p)), p...)
	}
	return rec
}

func exportChannels[V any](elems []scene.Element[V]) []ChannelRecord[V] {
	out := make([]ChannelRecord[V], len(elems))
	for i := range elems {
		out[i] = exportChannel(&elems[i])
	}
	return out
}

func exportChannel[V any](e *scene.Element[V]) ChannelRecord[V] {
	rec := ChannelRecord[V]{
		Name:        e.Name,
		MappingMode: e.Mapping.String(),
		RefMode:     e.Reference.String(),
		IndexArray:  []int{},
		DirectArray: append(make([]V, 0, len(e.Direct)), e.Direct...),
	}
	if e.Reference != scene.Direct {
		rec.IndexArray = append(rec.IndexArray, e.Index...)
	}
	return rec
}
