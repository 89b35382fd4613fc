package scene

// Walk visits n and its descendants depth-first, parents before children,
// children in storage order. Returning false from fn prunes the subtree
// below the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// MeshNode pairs a mesh with the node that owns it.
type MeshNode struct {
	Node *Node
	Mesh *Mesh
}

// Meshes returns every mesh-bearing node of s in traversal order.
func (s *Scene) Meshes() []MeshNode {
	var out []MeshNode
	Walk(s.Root, func(n *Node) bool {
		if n.Mesh != nil {
			out = append(out, MeshNode{Node: n, Mesh: n.Mesh})
		}
		return true
	})
	return out
}

// Check verifies the topology of every mesh in s.
func (s *Scene) Check() error {
	for _, mn := range s.Meshes() {
		if err := mn.Mesh.Check(); err != nil {
			return err
		}
	}
	return nil
}
