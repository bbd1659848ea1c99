package orrery

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic: the engine is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Orbit is the orbital userData attached to every body node except the Sun.
// Distance is the orbit radius in the parent's local space; AngularSpeed is
// in radians per second and may be negative.
type Orbit struct {
	Distance     float64
	AngularSpeed float64
}

// --- Node ---

// Node is the scene graph element. Every node carries exactly one Object
// variant; transforms are local to the parent.
type Node struct {
	// Identity
	ID     uint32
	Name   string
	Object Object

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation is Euler XYZ in radians.
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	Visible bool

	// Orbit is nil for the Sun and for non-body nodes.
	Orbit *Orbit

	// Computed
	worldMatrix    affine3
	transformDirty bool

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Scale = Vec3{1, 1, 1}
	n.Visible = true
	n.transformDirty = true
	n.worldMatrix = identityAffine3
}

// NewNode creates a node holding obj. A nil obj becomes an empty Group.
func NewNode(name string, obj Object) *Node {
	if obj == nil {
		obj = &Group{}
	}
	n := &Node{Name: name, Object: obj}
	nodeDefaults(n)
	return n
}

// NewGroup creates a container node with no visual representation.
func NewGroup(name string) *Node {
	return NewNode(name, &Group{})
}

// NewMeshNode creates a mesh node drawing geometry with the given materials.
func NewMeshNode(name string, geometry *Geometry, materials ...*Material) *Node {
	return NewNode(name, &Mesh{Geometry: geometry, Materials: materials})
}

// Kind returns the variant kind of the node's Object.
func (n *Node) Kind() NodeKind {
	return n.Object.Kind()
}

// Mesh returns the node's mesh, or nil if the node is not a mesh.
func (n *Node) Mesh() *Mesh {
	m, _ := n.Object.(*Mesh)
	return m
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("orrery: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("orrery: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// Add appends each node in order. See AddChild.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		n.AddChild(c)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("orrery: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for i, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// FindByName returns the first node named name in a depth-first pre-order
// search starting at n (n included), or nil.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Traverse calls fn for n and every descendant in depth-first pre-order.
// fn must not add or remove children while traversing.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, and
// recursively disposes all descendants. GPU resources held by the Object are
// not released here; see Engine.Teardown for the resource walk.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Orbit = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
