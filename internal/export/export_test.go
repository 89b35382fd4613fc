package export

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx2json/internal/scene"
)

func quadMesh() *scene.Mesh {
	return &scene.Mesh{
		Name:          "quad",
		ControlPoints: []scene.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}, {1, 1, 0, 1}},
		Polygons:      [][]int{{0, 1, 2}, {1, 3, 2}},
		Colors: []scene.Element[scene.Vec4]{{
			Name:      "OutlineNormal",
			Mapping:   scene.ByPolygonVertex,
			Reference: scene.Direct,
			Direct:    make([]scene.Vec4, 6),
			Index:     []int{9, 9}, // unused for Direct
		}},
		UVs: []scene.Element[scene.Vec2]{
			{
				Name:      "map1",
				Mapping:   scene.ByPolygonVertex,
				Reference: scene.IndexToDirect,
				Direct:    []scene.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
				Index:     []int{0, 1, 2, 1, 3, 2},
			},
			{
				Name:      "map2",
				Mapping:   scene.ByControlPoint,
				Reference: scene.Direct,
				Direct:    []scene.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
			},
		},
	}
}

func TestExportMeshPolygonsVerbatim(t *testing.T) {
	m := quadMesh()
	rec := ExportMesh(m)
	assert.Equal(t, [][]int{{0, 1, 2}, {1, 3, 2}}, rec.Polygons)

	m.ControlPoints = []scene.Vec4{{9, 9, 9, 9}}
	assert.Equal(t, [][]int{{0, 1, 2}, {1, 3, 2}}, ExportMesh(m).Polygons)

	// The record does not alias the mesh.
	rec.Polygons[0][0] = 7
	assert.Equal(t, 0, m.Polygons[0][0])
}

func TestExportMeshChannels(t *testing.T) {
	rec := ExportMesh(quadMesh())

	require.Len(t, rec.VertexColors, 1)
	c := rec.VertexColors[0]
	assert.Equal(t, "OutlineNormal", c.Name)
	assert.Equal(t, "ByPolygonVertex", c.MappingMode)
	assert.Equal(t, "Direct", c.RefMode)
	assert.Equal(t, []int{}, c.IndexArray)
	assert.Len(t, c.DirectArray, 6)

	require.Len(t, rec.UV, 2)
	assert.Equal(t, "map1", rec.UV[0].Name)
	assert.Equal(t, "IndexToDirect", rec.UV[0].RefMode)
	assert.Equal(t, []int{0, 1, 2, 1, 3, 2}, rec.UV[0].IndexArray)
	assert.Equal(t, "map2", rec.UV[1].Name)
	assert.Equal(t, "ByControlPoint", rec.UV[1].MappingMode)

	assert.Equal(t, []ChannelRecord[scene.Vec4]{}, rec.Tangents)
}

func TestExportEmptyMeshKeys(t *testing.T) {
	rec := ExportMesh(&scene.Mesh{Name: "empty", ControlPoints: []scene.Vec4{{1, 2, 3, 1}}})

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, "empty", got["name"])
	assert.Equal(t, []any{[]any{1.0, 2.0, 3.0, 1.0}}, got["controlPoints"])
	for _, k := range []string{"polygons", "vertexColors", "uv", "tangents"} {
		assert.Equal(t, []any{}, got[k], k)
	}
}

func testScene() *scene.Scene {
	return &scene.Scene{Root: &scene.Node{
		Name: "RootNode",
		Children: []*scene.Node{
			{Name: "group", Children: []*scene.Node{
				{Name: "quadA", Mesh: quadMesh()},
				{Name: "quadB", Mesh: quadMesh()},
			}},
			{Name: "quadC", Mesh: quadMesh()},
		},
	}}
}

func TestExportScene(t *testing.T) {
	rec := ExportScene(testScene())

	assert.Equal(t, "RootNode", rec.Name)
	assert.Nil(t, rec.Mesh)
	require.Len(t, rec.Children, 2)
	assert.Equal(t, "group", rec.Children[0].Name)
	assert.Nil(t, rec.Children[0].Mesh)
	require.Len(t, rec.Children[0].Children, 2)
	assert.Equal(t, "quadA", rec.Children[0].Children[0].Name)
	require.NotNil(t, rec.Children[0].Children[0].Mesh)
	assert.Equal(t, []NodeRecord{}, rec.Children[1].Children)

	b, err := json.Marshal(rec.Children[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mesh":null`)
}

func TestExportSceneParallel(t *testing.T) {
	s := testScene()
	want := ExportScene(s)
	got, err := ExportSceneParallel(context.Background(), s, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ExportSceneParallel(ctx, s, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeDecode(t *testing.T) {
	doc := &Document{RootNode: ExportScene(testScene())}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, 4))
	assert.Contains(t, buf.String(), "\n    \"RootNode\"")

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestEncodeNonFinite(t *testing.T) {
	s := testScene()
	bad := s.Root.Children[1].Mesh
	bad.ControlPoints[0] = scene.Vec4{math.NaN(), math.Inf(1), 1e-7, 1}
	bad.Colors[0].Direct[0] = scene.Vec4{math.Inf(-1), 0.5, 0, 1}
	doc := &Document{RootNode: ExportScene(s)}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, 0))
	assert.Contains(t, buf.String(), `[null,null,1e-7,1]`)
	assert.Contains(t, buf.String(), `[null,0.5,0,1]`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got.RootNode.Children, 2)
	assert.Equal(t, scene.Vec4{0, 0, 1e-7, 1}, got.RootNode.Children[1].Mesh.ControlPoints[0])
	assert.Equal(t, doc.RootNode.Children[0], got.RootNode.Children[0])
}
