// Package preview renders diagnostic thumbnails of a scene graph, coloring
// surfaces by a resolved geometry channel.
package preview

import (
	"fmt"
	"image"
	"math"

	"fbx2json/internal/channel"
	"fbx2json/internal/mathutil"
	"fbx2json/internal/postprocess"
	"fbx2json/internal/scene"
)

// Source selects what colors the surfaces.
type Source int

const (
	Shaded  Source = iota // constant gray
	Color                 // vertex color channel
	Tangent               // tangent channel, xyz mapped to rgb
	UV                    // uv channel, fractional uv mapped to rg
)

func (s Source) String() string {
	switch s {
	case Shaded:
		return "shaded"
	case Color:
		return "color"
	case Tangent:
		return "tangent"
	case UV:
		return "uv"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ParseSource returns the Source named s.
func ParseSource(s string) (Source, error) {
	for _, src := range []Source{Shaded, Color, Tangent, UV} {
		if src.String() == s {
			return src, nil
		}
	}
	return Shaded, fmt.Errorf("preview: unknown source %q", s)
}

var defaultColor = [3]uint8{160, 160, 170}

// Options controls Render.
type Options struct {
	Size        int     // output width and height in pixels
	Supersample int     // render at Size*Supersample, then downsample
	Yaw, Pitch  float64 // camera orbit, degrees
	Source      Source
	Channel     string // channel name; empty picks the first channel of the kind
	Texture     *image.NRGBA
	UVChannel   string // UV set the texture is sampled with
	Unlit       bool
}

// MeshError reports a mesh drawn without its requested channel.
type MeshError struct {
	NodeName string
	MeshName string
	Err      error
}

func (e MeshError) Error() string {
	return fmt.Sprintf("node %q mesh %q: %v", e.NodeName, e.MeshName, e.Err)
}

func (e MeshError) Unwrap() error { return e.Err }

// Result is a rendered preview. Fallbacks lists meshes that were drawn in
// the default color or untextured.
type Result struct {
	Image     *image.NRGBA
	Fallbacks []MeshError
}

// Render draws every mesh of s with an orthographic camera framed on the
// scene bounds. Polygons are fan-triangulated. Control points are taken as
// mesh-space positions; w is ignored.
func Render(s *scene.Scene, opts Options) Result {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	renderSize := opts.Size * opts.Supersample

	lc := DefaultLightConfig()
	if opts.Unlit {
		lc = Flat()
	}
	R := mathutil.Orbit(opts.Yaw, opts.Pitch)
	meshes := s.Meshes()

	// Bounds of all rotated control points
	allMin := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, mn := range meshes {
		for _, p := range mn.Mesh.ControlPoints {
			tv := R.MulVec3(mathutil.Vec3{p[0], p[1], p[2]})
			for k := 0; k < 3; k++ {
				allMin[k] = math.Min(allMin[k], tv[k])
				allMax[k] = math.Max(allMax[k], tv[k])
			}
		}
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	var res Result
	if allMin[0] > allMax[0] {
		res.Image = postprocess.Downsample(fb.Image(), opts.Size)
		return res
	}

	cam := camera{
		R:      R,
		center: mathutil.Vec3{(allMin[0] + allMax[0]) / 2, (allMin[1] + allMax[1]) / 2, 0},
		half:   float64(renderSize) / 2,
	}
	span := math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1])
	if span < 0.001 {
		span = 0.001
	}
	margin := float64(8 * opts.Supersample)
	cam.scale = (float64(renderSize) - 2*margin) / span

	for _, mn := range meshes {
		m := mn.Mesh
		colors, err := cornerColors(m, opts.Source, opts.Channel)
		if err != nil {
			res.Fallbacks = append(res.Fallbacks, MeshError{NodeName: mn.Node.Name, MeshName: m.Name, Err: err})
		}
		var uvs []scene.Vec2
		tex := opts.Texture
		if tex != nil {
			if uvs, err = cornerUVs(m, opts.UVChannel); err != nil {
				res.Fallbacks = append(res.Fallbacks, MeshError{NodeName: mn.Node.Name, MeshName: m.Name, Err: err})
				tex = nil
			}
		}
		drawMesh(fb, &cam, m, colors, uvs, tex, &lc)
	}

	res.Image = postprocess.Downsample(fb.Image(), opts.Size)
	return res
}

type camera struct {
	R      mathutil.Mat3
	center mathutil.Vec3
	scale  float64
	half   float64
}

func (c *camera) project(p scene.Vec4) (view mathutil.Vec3, x, y float64) {
	view = c.R.MulVec3(mathutil.Vec3{p[0], p[1], p[2]})
	x = (view[0]-c.center[0])*c.scale + c.half
	y = -(view[1]-c.center[1])*c.scale + c.half
	return view, x, y
}

func drawMesh(fb *FrameBuffer, cam *camera, m *scene.Mesh, colors [][3]uint8, uvs []scene.Vec2, tex *image.NRGBA, lc *LightConfig) {
	k := 0 // polygon-vertex id of the first corner of the current polygon
	for _, poly := range m.Polygons {
		for i := 1; i+1 < len(poly); i++ {
			corners := [3]int{0, i, i + 1}
			var tri [3]Vertex
			var view [3]mathutil.Vec3
			for j, c := range corners {
				pv := k + c
				view[j], tri[j].X, tri[j].Y = cam.project(m.ControlPoints[poly[c]])
				tri[j].Z = view[j][2]
				tri[j].C = defaultColor
				if colors != nil {
					tri[j].C = colors[pv]
				}
				if uvs != nil {
					tri[j].U, tri[j].V = uvs[pv][0], uvs[pv][1]
				}
			}
			n := view[1].Sub(view[0]).Cross(view[2].Sub(view[0])).Normalize()
			if n == (mathutil.Vec3{}) {
				continue
			}
			RasterizeTriangle(fb, &tri, tex, lc.ComputeShade(n), lc)
		}
		k += len(poly)
	}
}

// cornerColors resolves one color per polygon-vertex. A nil result with a
// nil error means the source needs no channel.
func cornerColors(m *scene.Mesh, src Source, name string) ([][3]uint8, error) {
	switch src {
	case Color:
		e := pick(m.Colors, name)
		if e == nil {
			return nil, fmt.Errorf("color channel %q: %w", name, channel.ErrChannelNotFound)
		}
		return resolveCorners(m, e, func(c scene.Vec4) [3]uint8 {
			return [3]uint8{unit8(c[0]), unit8(c[1]), unit8(c[2])}
		})
	case Tangent:
		e := pick(m.Tangents, name)
		if e == nil {
			return nil, fmt.Errorf("tangent channel %q: %w", name, channel.ErrChannelNotFound)
		}
		return resolveCorners(m, e, func(t scene.Vec4) [3]uint8 {
			return [3]uint8{unit8(t[0]*0.5 + 0.5), unit8(t[1]*0.5 + 0.5), unit8(t[2]*0.5 + 0.5)}
		})
	case UV:
		e := pick(m.UVs, name)
		if e == nil {
			return nil, fmt.Errorf("uv channel %q: %w", name, channel.ErrChannelNotFound)
		}
		return resolveCorners(m, e, func(uv scene.Vec2) [3]uint8 {
			return [3]uint8{unit8(uv[0] - math.Floor(uv[0])), unit8(uv[1] - math.Floor(uv[1])), 0}
		})
	default:
		return nil, nil
	}
}

func cornerUVs(m *scene.Mesh, name string) ([]scene.Vec2, error) {
	e := pick(m.UVs, name)
	if e == nil {
		return nil, fmt.Errorf("uv channel %q: %w", name, channel.ErrChannelNotFound)
	}
	return resolveCorners(m, e, func(uv scene.Vec2) scene.Vec2 { return uv })
}

func pick[V any](elems []scene.Element[V], name string) *scene.Element[V] {
	for i := range elems {
		if name == "" || elems[i].Name == name {
			return &elems[i]
		}
	}
	return nil
}

func resolveCorners[V, T any](m *scene.Mesh, e *scene.Element[V], conv func(V) T) ([]T, error) {
	out := make([]T, 0, m.PolygonVertexCount())
	k := 0
	for _, poly := range m.Polygons {
		for _, cp := range poly {
			v, err := channel.Resolve(e, cp, k)
			if err != nil {
				return nil, err
			}
			out = append(out, conv(v))
			k++
		}
	}
	return out, nil
}

func unit8(f float64) uint8 {
	return clamp255(f * 255)
}
