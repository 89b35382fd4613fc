// Package tangent derives a per-polygon-vertex tangent channel from the
// authored "OutlineNormal" vertex color channel.
package tangent

import (
	"fmt"

	"fbx2json/internal/channel"
	"fbx2json/internal/scene"
)

// SourceChannel is the color channel tangents are derived from. The derived
// tangent channel carries the same name.
const SourceChannel = "OutlineNormal"

// Status is the outcome of deriving tangents for one mesh.
type Status int

const (
	Applied Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome reports what DeriveMesh did. Count is the number of tangent
// vectors written when Status is Applied.
type Outcome struct {
	Status Status
	Count  int
}

// Remap converts an encoded color into a tangent: each of r, g, b is mapped
// from [0,1] to [-1,1] and w is zero. Alpha is dropped.
func Remap(c scene.Vec4) scene.Vec4 {
	return scene.Vec4{
		(c[0] - 0.5) * 2,
		(c[1] - 0.5) * 2,
		(c[2] - 0.5) * 2,
		0,
	}
}

// DeriveMesh derives the tangent channel of m from its SourceChannel color
// channel. A mesh without that channel is skipped and left untouched. On
// failure m is left untouched as well. Errors name the channel only; callers
// add the mesh.
func DeriveMesh(m *scene.Mesh) (Outcome, error) {
	src, ok := m.ColorChannel(SourceChannel)
	if !ok {
		return Outcome{Status: Skipped}, nil
	}

	// ByControlPoint sources resolve fine but are not converted yet.
	if src.Mapping != scene.ByPolygonVertex {
		return Outcome{Status: Failed}, fmt.Errorf("source %q %s: %w",
			src.Name, src.Mapping, channel.ErrUnsupportedMappingMode)
	}

	out := make([]scene.Vec4, m.PolygonVertexCount())
	k := 0
	for _, poly := range m.Polygons {
		for _, cp := range poly {
			c, err := channel.Resolve(src, cp, k)
			if err != nil {
				return Outcome{Status: Failed}, err
			}
			out[k] = Remap(c)
			k++
		}
	}

	m.SetTangentChannel(scene.Element[scene.Vec4]{
		Name:      src.Name,
		Mapping:   scene.ByPolygonVertex,
		Reference: scene.Direct,
		Direct:    out,
	})
	return Outcome{Status: Applied, Count: len(out)}, nil
}
