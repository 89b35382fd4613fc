package scene

import "fmt"

// PolygonVertexCount returns the size of the polygon-vertex index space,
// the sum of all polygon sizes.
func (m *Mesh) PolygonVertexCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p)
	}
	return n
}

// ColorChannel returns the color channel with exactly the given name.
func (m *Mesh) ColorChannel(name string) (*Element[Vec4], bool) {
	for i := range m.Colors {
		if m.Colors[i].Name == name {
			return &m.Colors[i], true
		}
	}
	return nil, false
}

// UVChannel returns the UV channel with exactly the given name.
func (m *Mesh) UVChannel(name string) (*Element[Vec2], bool) {
	for i := range m.UVs {
		if m.UVs[i].Name == name {
			return &m.UVs[i], true
		}
	}
	return nil, false
}

// TangentChannel returns the tangent channel with exactly the given name.
func (m *Mesh) TangentChannel(name string) (*Element[Vec4], bool) {
	for i := range m.Tangents {
		if m.Tangents[i].Name == name {
			return &m.Tangents[i], true
		}
	}
	return nil, false
}

// SetTangentChannel stores e, replacing an existing tangent channel
// of the same name or appending a new one.
func (m *Mesh) SetTangentChannel(e Element[Vec4]) {
	for i := range m.Tangents {
		if m.Tangents[i].Name == e.Name {
			m.Tangents[i] = e
			return
		}
	}
	m.Tangents = append(m.Tangents, e)
}

// Check verifies that every polygon references existing control points.
func (m *Mesh) Check() error {
	n := len(m.ControlPoints)
	for i, p := range m.Polygons {
		for j, cp := range p {
			if cp < 0 || cp >= n {
				return fmt.Errorf("scene: mesh %q: polygon %d vertex %d: control point %d out of range [0,%d)",
					m.Name, i, j, cp, n)
			}
		}
	}
	return nil
}
