package orrery

import "math"

// Geometry is an indexed triangle mesh in local space. UVs use image
// orientation: (0, 0) is the top-left of the texture.
type Geometry struct {
	resource

	Positions []Vec3
	Normals   []Vec3
	UVs       [][2]float64
	Indices   []uint16
}

// NewSphereGeometry builds a UV sphere. widthSegments is clamped to at least
// 3 and heightSegments to at least 2. Seam vertices are duplicated so texture
// coordinates wrap cleanly.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	if (widthSegments+1)*(heightSegments+1) > math.MaxUint16 {
		panic("orrery: sphere has too many vertices for 16-bit indices")
	}

	g := &Geometry{}
	grid := make([][]uint16, heightSegments+1)
	var index uint16

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint16, widthSegments+1)
		sinV, cosV := math.Sincos(v * math.Pi)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			sinU, cosU := math.Sincos(u * 2 * math.Pi)
			p := Vec3{
				X: -radius * cosU * sinV,
				Y: radius * cosV,
				Z: radius * sinU * sinV,
			}
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, p.Normal())
			g.UVs = append(g.UVs, [2]float64{u, v})
			row[ix] = index
			index++
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			// Pole rows collapse to a single point; skip the degenerate half.
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// NumTriangles returns the number of indexed triangles.
func (g *Geometry) NumTriangles() int {
	return len(g.Indices) / 3
}
