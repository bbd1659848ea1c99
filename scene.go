package orrery

// Scene is the top-level object that owns the node tree and the sky
// background.
type Scene struct {
	root *Node

	// Background is drawn behind everything. May be nil.
	Background *CubeTexture
}

// NewScene creates a new scene with a pre-created root group.
func NewScene() *Scene {
	return &Scene{root: NewGroup("scene")}
}

// Root returns the scene's root group node.
func (s *Scene) Root() *Node {
	return s.root
}

// Add appends nodes to the scene root.
func (s *Scene) Add(nodes ...*Node) {
	s.root.Add(nodes...)
}

// ObjectByName returns the first node with the given name below the root,
// or nil.
func (s *Scene) ObjectByName(name string) *Node {
	for _, c := range s.root.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Traverse calls fn for every node in the scene, root first.
func (s *Scene) Traverse(fn func(*Node)) {
	s.root.Traverse(fn)
}

// Clear detaches every node from the root. Nodes are NOT disposed and their
// resources are not released.
func (s *Scene) Clear() {
	s.root.RemoveChildren()
	s.Background = nil
}
