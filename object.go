package orrery

// Object is the variant carried by a Node. The set of implementations is
// closed: *Group, *Mesh, *PointLight, *AmbientLight and *AxesHelper. Each
// variant knows how to release its own GPU-resident resources, so the
// teardown walk dispatches on the variant instead of inspecting names.
type Object interface {
	Kind() NodeKind

	// release frees the variant's resources and returns how many handles
	// were actually released by this call (0 when already released).
	release() int
}

// Group is a container with no visual output.
type Group struct{}

// Kind implements Object.
func (*Group) Kind() NodeKind { return KindGroup }

func (*Group) release() int { return 0 }

// Mesh draws Geometry with one material, or an ordered list of materials.
type Mesh struct {
	Geometry  *Geometry
	Materials []*Material
}

// Kind implements Object.
func (*Mesh) Kind() NodeKind { return KindMesh }

// Material returns the first material, or nil.
func (m *Mesh) Material() *Material {
	if len(m.Materials) == 0 {
		return nil
	}
	return m.Materials[0]
}

// release frees the geometry, then every material along with its bound
// texture map. Geometry shared between meshes is only counted once.
func (m *Mesh) release() int {
	n := 0
	if m.Geometry != nil && m.Geometry.release() {
		n++
	}
	for _, mat := range m.Materials {
		if mat == nil {
			continue
		}
		if mat.Map != nil && mat.Map.release() {
			n++
		}
		if mat.release() {
			n++
		}
	}
	return n
}
