package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"fbx2json/internal/channel"
	"fbx2json/internal/scene"
)

// quadScene is a unit quad facing the camera with one red vertex color
// channel in ByPolygonVertex/Direct.
func quadScene() *scene.Scene {
	red := scene.Vec4{1, 0, 0, 1}
	m := &scene.Mesh{
		Name: "quad",
		ControlPoints: []scene.Vec4{
			{-1, -1, 0, 1}, {1, -1, 0, 1}, {1, 1, 0, 1}, {-1, 1, 0, 1},
		},
		Polygons: [][]int{{0, 1, 2, 3}},
		Colors: []scene.Element[scene.Vec4]{{
			Name:      "col",
			Mapping:   scene.ByPolygonVertex,
			Reference: scene.Direct,
			Direct:    []scene.Vec4{red, red, red, red},
		}},
	}
	return &scene.Scene{Root: &scene.Node{Name: "root", Children: []*scene.Node{{Name: "n", Mesh: m}}}}
}

func center(img *image.NRGBA) color.NRGBA {
	b := img.Bounds()
	return img.NRGBAAt(b.Dx()/2, b.Dy()/2)
}

func TestRenderColorChannel(t *testing.T) {
	res := Render(quadScene(), Options{Size: 32, Source: Color, Unlit: true})
	require.NotNil(t, res.Image)
	assert.Empty(t, res.Fallbacks)
	assert.Equal(t, image.Rect(0, 0, 32, 32), res.Image.Bounds())

	c := center(res.Image)
	assert.Equal(t, uint8(255), c.A)
	assert.Greater(t, int(c.R), 200)
	assert.Less(t, int(c.G), 40)
	assert.Less(t, int(c.B), 40)

	// corners lie in the margin
	assert.Equal(t, uint8(0), res.Image.NRGBAAt(0, 0).A)
}

func TestRenderSupersampled(t *testing.T) {
	res := Render(quadScene(), Options{Size: 16, Supersample: 2, Source: Shaded})
	assert.Equal(t, image.Rect(0, 0, 16, 16), res.Image.Bounds())
	assert.Equal(t, uint8(255), center(res.Image).A)
}

func TestRenderEmptyScene(t *testing.T) {
	res := Render(&scene.Scene{Root: &scene.Node{Name: "root"}}, Options{Size: 8})
	for i := 3; i < len(res.Image.Pix); i += 4 {
		require.Equal(t, uint8(0), res.Image.Pix[i])
	}
}

func TestRenderFallbacks(t *testing.T) {
	t.Run("missing channel", func(t *testing.T) {
		res := Render(quadScene(), Options{Size: 16, Source: Tangent})
		require.Len(t, res.Fallbacks, 1)
		assert.Equal(t, "n", res.Fallbacks[0].NodeName)
		assert.ErrorIs(t, res.Fallbacks[0], channel.ErrChannelNotFound)
		assert.Equal(t, uint8(255), center(res.Image).A)
	})

	t.Run("corrupt index", func(t *testing.T) {
		s := quadScene()
		col := &s.Root.Children[0].Mesh.Colors[0]
		col.Reference = scene.IndexToDirect
		col.Index = []int{0, 1, 2, 9}
		res := Render(s, Options{Size: 16, Source: Color, Channel: "col"})
		require.Len(t, res.Fallbacks, 1)
		assert.ErrorIs(t, res.Fallbacks[0], channel.ErrIndexOutOfBounds)
	})

	t.Run("texture without uv", func(t *testing.T) {
		tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		res := Render(quadScene(), Options{Size: 16, Texture: tex})
		require.Len(t, res.Fallbacks, 1)
		assert.ErrorIs(t, res.Fallbacks[0], channel.ErrChannelNotFound)
	})
}

func TestRenderTexture(t *testing.T) {
	s := quadScene()
	m := s.Root.Children[0].Mesh
	m.UVs = []scene.Element[scene.Vec2]{{
		Name:      "map1",
		Mapping:   scene.ByControlPoint,
		Reference: scene.Direct,
		Direct:    []scene.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	}}
	tex := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(tex.Pix); i += 4 {
		copy(tex.Pix[i:], []uint8{0, 0, 255, 255})
	}

	res := Render(s, Options{Size: 32, Texture: tex, Unlit: true})
	assert.Empty(t, res.Fallbacks)
	c := center(res.Image)
	assert.Greater(t, int(c.B), 200)
	assert.Less(t, int(c.R), 40)
}

func TestParseSource(t *testing.T) {
	for _, s := range []Source{Shaded, Color, Tangent, UV} {
		got, err := ParseSource(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSource("normals")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{10, 200, 30, 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatPNG))
	got, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())
	r, g, b, _ := got.At(1, 1).RGBA()
	assert.Equal(t, []uint32{10, 200, 30}, []uint32{r >> 8, g >> 8, b >> 8})

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatBMP))
	got, err = bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatWebP))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("RIFF")))

	assert.Error(t, Encode(&buf, img, "gif"))
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("out/thumb.WEBP")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, f)

	_, err = FormatFor("thumb.jpg")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.png")
	require.NoError(t, WriteFile(path, image.NewNRGBA(image.Rect(0, 0, 1, 1)), ""))
	assert.FileExists(t, path)
}
