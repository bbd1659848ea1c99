package orrery

import "testing"

// --- Constructor defaults ---

func TestNewGroupDefaults(t *testing.T) {
	n := NewGroup("test")
	assertNodeDefaults(t, n, "test", KindGroup)
}

func TestNewMeshNodeDefaults(t *testing.T) {
	geo := NewSphereGeometry(1, 8, 6)
	mat := NewStandardMaterial(nil)
	n := NewMeshNode("mesh", geo, mat)
	assertNodeDefaults(t, n, "mesh", KindMesh)
	if n.Mesh() == nil || n.Mesh().Geometry != geo || n.Mesh().Material() != mat {
		t.Error("mesh geometry/material not set")
	}
}

func TestNewNodeNilObjectIsGroup(t *testing.T) {
	n := NewNode("n", nil)
	if n.Kind() != KindGroup {
		t.Errorf("Kind = %v, want group", n.Kind())
	}
	if n.Mesh() != nil {
		t.Error("Mesh() should be nil for a group")
	}
}

func TestLightAndHelperKinds(t *testing.T) {
	cases := []struct {
		obj  Object
		want NodeKind
	}{
		{NewPointLight(ColorWhite, 1), KindLight},
		{NewAmbientLight(ColorWhite, 1), KindLight},
		{NewAxesHelper(10), KindHelper},
	}
	for _, c := range cases {
		if got := NewNode("n", c.obj).Kind(); got != c.want {
			t.Errorf("Kind = %v, want %v", got, c.want)
		}
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, kind NodeKind) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Kind() != kind {
		t.Errorf("Kind = %v, want %v", n.Kind(), kind)
	}
	if n.Scale != (Vec3{1, 1, 1}) {
		t.Errorf("Scale = %+v, want (1, 1, 1)", n.Scale)
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
	if n.Orbit != nil {
		t.Error("Orbit should be nil")
	}
	if !n.transformDirty {
		t.Error("transformDirty should be true")
	}
}

// --- Unique IDs ---

func TestUniqueIDs(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewMeshNode("c", nil)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 {
		t.Errorf("NumChildren = %d, want 1", parent.NumChildren())
	}
	if parent.ChildAt(0) != child {
		t.Error("ChildAt(0) should be child")
	}
}

func TestAddKeepsOrder(t *testing.T) {
	parent := NewGroup("parent")
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	parent.Add(a, b, c)
	for i, want := range []*Node{a, b, c} {
		if parent.ChildAt(i) != want {
			t.Errorf("ChildAt(%d) = %q, want %q", i, parent.ChildAt(i).Name, want.Name)
		}
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	child := NewGroup("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 {
		t.Error("p2 should have 1 child")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	grandchild := NewGroup("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for cycle, got none")
		}
	}()
	grandchild.AddChild(parent)
}

func TestAddChildSelfPanic(t *testing.T) {
	n := NewGroup("self")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for self-add, got none")
		}
	}()
	n.AddChild(n)
}

func TestAddChildNilPanic(t *testing.T) {
	n := NewGroup("n")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child, got none")
		}
	}()
	n.AddChild(nil)
}

// --- Removal ---

func TestRemoveChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.RemoveChild(child)

	if child.Parent != nil {
		t.Error("child.Parent should be nil")
	}
	if parent.NumChildren() != 0 {
		t.Error("parent should have no children")
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	child := NewGroup("child")
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic, got none")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveFromParentNoOp(t *testing.T) {
	n := NewGroup("orphan")
	n.RemoveFromParent()
	if n.Parent != nil {
		t.Error("orphan should stay parentless")
	}
}

func TestRemoveChildren(t *testing.T) {
	parent := NewGroup("parent")
	a, b := NewGroup("a"), NewGroup("b")
	parent.Add(a, b)
	parent.RemoveChildren()

	if parent.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", parent.NumChildren())
	}
	if a.Parent != nil || b.Parent != nil {
		t.Error("children should be detached")
	}
	if a.IsDisposed() || b.IsDisposed() {
		t.Error("RemoveChildren must not dispose")
	}
}

// --- Lookup ---

func TestFindByNamePreOrder(t *testing.T) {
	root := NewGroup("root")
	earth := NewGroup("Earth")
	moon := NewGroup("Moon")
	decoy := NewGroup("Moon")
	root.Add(earth, decoy)
	earth.AddChild(moon)

	if got := root.FindByName("Moon"); got != moon {
		t.Error("FindByName should return the first match in pre-order")
	}
	if got := root.FindByName("root"); got != root {
		t.Error("FindByName should include the starting node")
	}
	if got := root.FindByName("Pluto"); got != nil {
		t.Errorf("FindByName(Pluto) = %v, want nil", got)
	}
}

func TestTraverseVisitsAll(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	root.Add(a, b)
	a.AddChild(NewGroup("a1"))

	var names []string
	root.Traverse(func(n *Node) { names = append(names, n.Name) })
	want := []string{"root", "a", "a1", "b"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// --- Dispose ---

func TestDispose(t *testing.T) {
	root := NewGroup("root")
	parent := NewGroup("parent")
	child := NewGroup("child")
	child.Orbit = &Orbit{Distance: 1}
	root.AddChild(parent)
	parent.AddChild(child)

	parent.Dispose()

	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if parent.ID != 0 || child.ID != 0 {
		t.Error("disposed nodes should have ID = 0")
	}
	if child.Orbit != nil {
		t.Error("disposed nodes should drop their orbit")
	}
	if root.NumChildren() != 0 {
		t.Error("root should have 0 children after dispose")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := NewGroup("n")
	n.Dispose()
	n.Dispose()
	if !n.IsDisposed() {
		t.Error("should still be disposed")
	}
}

// --- Dirty propagation ---

func TestDirtyPropagationOnAddChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	grandchild := NewGroup("grandchild")
	child.AddChild(grandchild)

	child.transformDirty = false
	grandchild.transformDirty = false

	parent.AddChild(child)

	if !child.transformDirty || !grandchild.transformDirty {
		t.Error("subtree should be dirty after AddChild")
	}
}

// --- Object release ---

func TestMeshReleaseCountsEachHandleOnce(t *testing.T) {
	geo := NewSphereGeometry(1, 8, 6)
	tex := NewTexture("t", nil)
	a := NewMeshNode("a", geo, NewStandardMaterial(tex), NewBasicMaterial(ColorWhite, nil))
	b := NewMeshNode("b", geo, NewStandardMaterial(nil))

	// geometry + map + two materials
	if got := a.Object.release(); got != 4 {
		t.Errorf("first release = %d, want 4", got)
	}
	// shared geometry already released
	if got := b.Object.release(); got != 1 {
		t.Errorf("second mesh release = %d, want 1", got)
	}
	if got := a.Object.release(); got != 0 {
		t.Errorf("repeat release = %d, want 0", got)
	}
	if !geo.IsDisposed() || !tex.IsDisposed() {
		t.Error("geometry and map should be disposed")
	}
}

func TestLightReleaseOnce(t *testing.T) {
	l := NewPointLight(ColorWhite, 1)
	if got := l.release(); got != 1 {
		t.Errorf("release = %d, want 1", got)
	}
	if got := l.release(); got != 0 {
		t.Errorf("second release = %d, want 0", got)
	}
}

func TestOnDisposeHooks(t *testing.T) {
	tex := NewTexture("t", nil)
	calls := 0
	tex.OnDispose(func() { calls++ })
	tex.Dispose()
	tex.Dispose()
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
	tex.OnDispose(func() { calls++ })
	if calls != 2 {
		t.Error("hook registered after dispose should run immediately")
	}
}
