package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx2json/internal/scene"
)

func TestResolveDirectByPolygonVertex(t *testing.T) {
	e := &scene.Element[scene.Vec4]{
		Name:      "c",
		Mapping:   scene.ByPolygonVertex,
		Reference: scene.Direct,
		Direct:    []scene.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}},
	}
	for k := range e.Direct {
		// The control-point argument must be ignored.
		v, err := Resolve(e, 99, k)
		require.NoError(t, err)
		assert.Equal(t, e.Direct[k], v)
	}
}

func TestResolveDirectByControlPoint(t *testing.T) {
	e := &scene.Element[scene.Vec2]{
		Name:      "uv",
		Mapping:   scene.ByControlPoint,
		Reference: scene.Direct,
		Direct:    []scene.Vec2{{0, 0}, {1, 0}},
	}
	v, err := Resolve(e, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, scene.Vec2{1, 0}, v)
}

func TestResolveIndexToDirect(t *testing.T) {
	e := &scene.Element[scene.Vec2]{
		Name:      "uv",
		Mapping:   scene.ByPolygonVertex,
		Reference: scene.IndexToDirect,
		Direct:    []scene.Vec2{{0, 0}, {1, 0}, {1, 1}},
		Index:     []int{2, 0, 1, 1},
	}
	for d, i := range e.Index {
		v, err := Resolve(e, 0, d)
		require.NoError(t, err)
		assert.Equal(t, e.Direct[i], v)
	}
}

func TestResolveIndexOutOfBounds(t *testing.T) {
	e := &scene.Element[scene.Vec2]{
		Name:      "uv",
		Mapping:   scene.ByPolygonVertex,
		Reference: scene.IndexToDirect,
		Direct:    []scene.Vec2{{0, 0}, {1, 0}},
		Index:     []int{0, 2},
	}
	_, err := Resolve(e, 0, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = Resolve(e, 0, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds, "domain index past the index array")

	e.Reference = scene.Direct
	_, err = Resolve(e, 0, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = Resolve(e, 0, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestResolveUnsupported(t *testing.T) {
	for _, m := range []scene.MappingMode{scene.MappingNone, scene.ByPolygon, scene.ByEdge, scene.AllSame} {
		e := &scene.Element[scene.Vec4]{Name: "c", Mapping: m, Direct: []scene.Vec4{{}}}
		_, err := Resolve(e, 0, 0)
		assert.ErrorIs(t, err, ErrUnsupportedMappingMode, m.String())
	}

	e := &scene.Element[scene.Vec4]{
		Name:      "c",
		Mapping:   scene.ByControlPoint,
		Reference: scene.Index,
		Direct:    []scene.Vec4{{}},
		Index:     []int{0},
	}
	_, err := Resolve(e, 0, 0)
	assert.ErrorIs(t, err, ErrUnsupportedReferenceMode)
}

func TestValidate(t *testing.T) {
	e := &scene.Element[scene.Vec4]{
		Name:      "c",
		Mapping:   scene.ByPolygonVertex,
		Reference: scene.IndexToDirect,
		Direct:    []scene.Vec4{{}, {}},
		Index:     []int{0, 1, 1},
	}
	require.NoError(t, Validate(e, 2, 3))
	assert.ErrorIs(t, Validate(e, 2, 4), ErrIndexOutOfBounds)

	e.Index[2] = 5
	assert.ErrorIs(t, Validate(e, 2, 3), ErrIndexOutOfBounds)

	e.Mapping = scene.ByControlPoint
	e.Reference = scene.Direct
	require.NoError(t, Validate(e, 2, 3))
	assert.ErrorIs(t, Validate(e, 3, 3), ErrIndexOutOfBounds)

	e.Mapping = scene.AllSame
	assert.ErrorIs(t, Validate(e, 2, 3), ErrUnsupportedMappingMode)
}
