package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx2json/internal/metrics"
	"fbx2json/internal/preview"
	"fbx2json/internal/scene"
	"fbx2json/internal/scenefile"
)

func triangle(mapping scene.MappingMode) *scene.Scene {
	m := &scene.Mesh{
		Name:          "tri",
		ControlPoints: []scene.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}},
		Polygons:      [][]int{{0, 1, 2}},
		Colors: []scene.Element[scene.Vec4]{{
			Name:      "OutlineNormal",
			Mapping:   mapping,
			Reference: scene.Direct,
			Direct:    []scene.Vec4{{1, 0.5, 0, 1}, {1, 0.5, 0, 1}, {1, 0.5, 0, 1}},
		}},
	}
	return &scene.Scene{Root: &scene.Node{Name: "RootNode", Children: []*scene.Node{{Name: "body", Mesh: m}}}}
}

func writeInputs(t *testing.T, dir string) (good, bad, broken string) {
	t.Helper()
	good = filepath.Join(dir, "good.json")
	bad = filepath.Join(dir, "bad.yaml")
	broken = filepath.Join(dir, "broken.json")
	require.NoError(t, scenefile.Save(triangle(scene.ByPolygonVertex), good, "", false))
	require.NoError(t, scenefile.Save(triangle(scene.ByControlPoint), bad, "", false))
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0644))
	return good, bad, broken
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	good, bad, broken := writeInputs(t, in)

	rec := metrics.New()
	results := Run(context.Background(), Config{
		OutputDir:     out,
		Workers:       2,
		Derive:        true,
		Indent:        2,
		SaveFormat:    scenefile.FormatYAML,
		PreviewFormat: preview.FormatPNG,
		Preview:       preview.Options{Size: 16, Source: preview.Tangent},
		Metrics:       rec,
	}, []string{good, bad, broken})

	require.Len(t, results, 3)

	r := results[0]
	assert.True(t, r.Success, r.Error)
	assert.Equal(t, 1, r.Applied)
	assert.Equal(t, filepath.Join(out, "good.json"), r.Output)
	assert.FileExists(t, r.Output)
	assert.FileExists(t, filepath.Join(out, "good.scene.yaml"))
	assert.FileExists(t, filepath.Join(out, "good.png"))
	assert.Empty(t, r.Warnings)

	exported, err := scenefile.Load(r.Output)
	require.NoError(t, err)
	tan, ok := exported.Root.Children[0].Mesh.TangentChannel("OutlineNormal")
	require.True(t, ok)
	assert.Equal(t, scene.Vec4{1, 0, -1, 0}, tan.Direct[0])

	assert.False(t, results[1].Success)
	assert.Len(t, results[1].Failures, 1)
	assert.NoFileExists(t, filepath.Join(out, "bad.json"))

	assert.False(t, results[2].Success)
	assert.NotEmpty(t, results[2].Error)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Files.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Files.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Meshes.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Meshes.WithLabelValues("failed")))

	success, failed := Summary(results)
	assert.Equal(t, 1, success)
	assert.Equal(t, 2, failed)
}

func TestRunBestEffortAndNoDerive(t *testing.T) {
	in := t.TempDir()
	_, bad, _ := writeInputs(t, in)

	out := t.TempDir()
	results := Run(context.Background(), Config{OutputDir: out, Derive: true, BestEffort: true}, []string{bad})
	require.True(t, results[0].Success, results[0].Error)
	assert.Len(t, results[0].Failures, 1)
	assert.FileExists(t, filepath.Join(out, "bad.json"))

	results = Run(context.Background(), Config{OutputDir: t.TempDir()}, []string{bad})
	require.True(t, results[0].Success)
	assert.Empty(t, results[0].Failures)
}

func TestRunCanceled(t *testing.T) {
	in := t.TempDir()
	good, bad, _ := writeInputs(t, in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, Config{OutputDir: t.TempDir(), Workers: 1}, []string{good, bad})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Contains(t, r.Error, context.Canceled.Error())
	}
}

func TestInputs(t *testing.T) {
	in := t.TempDir()
	good, bad, broken := writeInputs(t, in)
	require.NoError(t, os.WriteFile(filepath.Join(in, "readme.txt"), nil, 0644))

	got, err := Inputs([]string{in})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{good, bad, broken}, got)

	_, err = Inputs([]string{filepath.Join(in, "missing")})
	assert.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	out := t.TempDir()
	path := filepath.Join(out, "manifest.json")
	require.NoError(t, WriteManifest(path, []Result{
		{Input: "a.json", Output: filepath.Join(out, "a.json"), Success: true, Applied: 2},
		{Input: "b.json", Error: "boom"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "a.json", entries[0].Output)
	assert.Equal(t, "ok", entries[0].Status)
	assert.Equal(t, 2, entries[0].Applied)
	assert.Equal(t, "failed", entries[1].Status)
	assert.Equal(t, "boom", entries[1].Error)
}
