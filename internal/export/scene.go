package export

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fbx2json/internal/scene"
)

// ExportScene exports the root node of s and, recursively, its children
// in storage order.
func ExportScene(s *scene.Scene) NodeRecord {
	return exportNode(s.Root, func(m *scene.Mesh) *MeshRecord {
		rec := ExportMesh(m)
		return &rec
	})
}

// ExportSceneParallel returns the same record as ExportScene, exporting the
// meshes on up to workers goroutines. Canceling ctx stops dispatching
// further meshes and returns ctx.Err().
func ExportSceneParallel(ctx context.Context, s *scene.Scene, workers int) (NodeRecord, error) {
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return NodeRecord{}, err
		}
		return ExportScene(s), nil
	}

	meshes := s.Meshes()
	recs := make([]MeshRecord, len(meshes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, mn := range meshes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			recs[i] = ExportMesh(mn.Mesh)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return NodeRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return NodeRecord{}, err
	}

	byMesh := make(map[*scene.Mesh]*MeshRecord, len(meshes))
	for i, mn := range meshes {
		byMesh[mn.Mesh] = &recs[i]
	}
	return exportNode(s.Root, func(m *scene.Mesh) *MeshRecord { return byMesh[m] }), nil
}

func exportNode(n *scene.Node, mesh func(*scene.Mesh) *MeshRecord) NodeRecord {
	if n == nil {
		return NodeRecord{Children: []NodeRecord{}}
	}
	rec := NodeRecord{
		Name:     n.Name,
		Children: make([]NodeRecord, len(n.Children)),
	}
	if n.Mesh != nil {
		rec.Mesh = mesh(n.Mesh)
	}
	for i, c := range n.Children {
		rec.Children[i] = exportNode(c, mesh)
	}
	return rec
}
