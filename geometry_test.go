package orrery

import (
	"math"
	"testing"
)

func TestSphereGeometryCounts(t *testing.T) {
	g := NewSphereGeometry(1, 32, 32)
	if got, want := len(g.Positions), 33*33; got != want {
		t.Errorf("vertices = %d, want %d", got, want)
	}
	if len(g.Normals) != len(g.Positions) || len(g.UVs) != len(g.Positions) {
		t.Error("normals and uvs must match positions")
	}
	// Two triangles per quad except the collapsed halves at each pole.
	if got, want := g.NumTriangles(), 32*32*2-2*32; got != want {
		t.Errorf("triangles = %d, want %d", got, want)
	}
}

func TestSphereGeometryOnSurface(t *testing.T) {
	g := NewSphereGeometry(2.5, 12, 8)
	for i, p := range g.Positions {
		if math.Abs(p.Length()-2.5) > 1e-9 {
			t.Fatalf("vertex %d at radius %v, want 2.5", i, p.Length())
		}
		if math.Abs(g.Normals[i].Length()-1) > 1e-9 {
			t.Fatalf("normal %d not unit length", i)
		}
	}
}

func TestSphereGeometryPolesAndUVs(t *testing.T) {
	g := NewSphereGeometry(1, 4, 2)
	assertVec(t, "north pole", g.Positions[0], Vec3{0, 1, 0})
	assertVec(t, "south pole", g.Positions[len(g.Positions)-1], Vec3{0, -1, 0})
	if uv := g.UVs[0]; uv != [2]float64{0, 0} {
		t.Errorf("first uv = %v, want [0 0]", uv)
	}
	if uv := g.UVs[len(g.UVs)-1]; uv != [2]float64{1, 1} {
		t.Errorf("last uv = %v, want [1 1]", uv)
	}
}

func TestSphereGeometryOutwardWinding(t *testing.T) {
	g := NewSphereGeometry(1, 16, 12)
	for i := 0; i < len(g.Indices); i += 3 {
		a, b, c := g.Positions[g.Indices[i]], g.Positions[g.Indices[i+1]], g.Positions[g.Indices[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		center := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(center) <= 0 {
			t.Fatalf("triangle %d faces inward", i/3)
		}
	}
}

func TestSphereGeometryClampsSegments(t *testing.T) {
	g := NewSphereGeometry(1, 0, 0)
	if got, want := len(g.Positions), 4*3; got != want {
		t.Errorf("vertices = %d, want %d", got, want)
	}
}
