package orrery

import "math"

// affine3 is a 3D affine matrix: a row-major 3x3 linear part followed by a
// translation.
//
//	| m0 m1 m2 | m9  |
//	| m3 m4 m5 | m10 |
//	| m6 m7 m8 | m11 |
type affine3 [12]float64

// identityAffine3 is the identity affine matrix.
var identityAffine3 = affine3{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}

// computeLocalTransform computes the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Scale -> Rotate (Euler XYZ: Rx * Ry * Rz) -> Translate(Position)
func computeLocalTransform(n *Node) affine3 {
	sx, cx := math.Sincos(n.Rotation.X)
	sy, cy := math.Sincos(n.Rotation.Y)
	sz, cz := math.Sincos(n.Rotation.Z)

	// Rx * Ry * Rz
	r := [9]float64{
		cy * cz, -cy * sz, sy,
		cx*sz + sx*sy*cz, cx*cz - sx*sy*sz, -sx * cy,
		sx*sz - cx*sy*cz, sx*cz + cx*sy*sz, cx * cy,
	}

	s := n.Scale
	return affine3{
		r[0] * s.X, r[1] * s.Y, r[2] * s.Z,
		r[3] * s.X, r[4] * s.Y, r[5] * s.Z,
		r[6] * s.X, r[7] * s.Y, r[8] * s.Z,
		n.Position.X, n.Position.Y, n.Position.Z,
	}
}

// multiplyAffine3 multiplies two affine matrices: result = parent * child.
func multiplyAffine3(p, c affine3) affine3 {
	var out affine3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row*3+col] = p[row*3]*c[col] + p[row*3+1]*c[3+col] + p[row*3+2]*c[6+col]
		}
		out[9+row] = p[row*3]*c[9] + p[row*3+1]*c[10] + p[row*3+2]*c[11] + p[9+row]
	}
	return out
}

// transformPoint3 applies an affine matrix to a point.
func transformPoint3(m affine3, v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[9],
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z + m[10],
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z + m[11],
	}
}

// transformDir3 applies only the linear part of m to a direction.
func transformDir3(m affine3, v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// updateWorldTransform recomputes a node's world matrix and its subtree.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parent affine3, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldMatrix = multiplyAffine3(parent, computeLocalTransform(n))
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldMatrix, recompute)
	}
}

// UpdateWorldMatrices refreshes the cached world matrices of n and every
// descendant. Renderers call this once per frame before drawing.
func (n *Node) UpdateWorldMatrices() {
	parent := identityAffine3
	recomputed := false
	if n.Parent != nil {
		parent = n.Parent.computeWorldMatrix()
		recomputed = true
	}
	updateWorldTransform(n, parent, recomputed)
}

// computeWorldMatrix walks up the ancestors and composes a fresh world
// matrix without touching any cached state.
func (n *Node) computeWorldMatrix() affine3 {
	m := computeLocalTransform(n)
	for p := n.Parent; p != nil; p = p.Parent {
		m = multiplyAffine3(computeLocalTransform(p), m)
	}
	return m
}

// WorldPosition returns the node's origin in world space, composed from the
// local transforms of the node and all its ancestors.
func (n *Node) WorldPosition() Vec3 {
	return transformPoint3(n.computeWorldMatrix(), Vec3{})
}

// LocalToWorld converts a point in this node's local space to world space.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return transformPoint3(n.computeWorldMatrix(), p)
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
	n.transformDirty = true
}

// SetScalar sets a uniform local scale and marks the node dirty.
func (n *Node) SetScalar(s float64) {
	n.Scale = Uniform(s)
	n.transformDirty = true
}

// MarkDirty flags the node for world matrix recomputation. Call this after
// modifying Position, Rotation or Scale directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}
