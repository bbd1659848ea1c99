package orrery

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// skySubdivisions is the grid resolution of each sky cube face. Finer grids
// hide the affine texture warp of large triangles.
const skySubdivisions = 8

// maxBatchVertices is the vertex limit of one DrawTriangles call.
const maxBatchVertices = math.MaxUint16

// EbitenRenderer is a software-projected triangle renderer on top of
// ebiten.DrawTriangles. Vertices are transformed and lit on the CPU
// (Lambert shading from ambient and point lights), back faces are culled and
// the remaining triangles are drawn back to front.
type EbitenRenderer struct {
	surface Surface

	// ClearColor fills the frame before the sky is drawn.
	ClearColor color.Color

	width, height int
	textures      map[*Texture]*ebiten.Image
	white         *ebiten.Image

	tris   []triangle
	sorter depthSorter
	verts  []ebiten.Vertex
	inds   []uint16

	disposed bool
}

// NewEbitenRenderer creates a renderer drawing onto canvas, which must
// implement Surface. It satisfies RendererFactory.
func NewEbitenRenderer(canvas Canvas) Renderer {
	surface, ok := canvas.(Surface)
	if !ok {
		panic("orrery: EbitenRenderer needs a Surface canvas")
	}
	w, h := canvas.Size()
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &EbitenRenderer{
		surface:    surface,
		ClearColor: color.Black,
		width:      w,
		height:     h,
		textures:   make(map[*Texture]*ebiten.Image),
		white:      white,
	}
}

// SetSize implements Renderer.
func (r *EbitenRenderer) SetSize(width, height int) { r.width, r.height = width, height }

// Size implements Renderer.
func (r *EbitenRenderer) Size() (int, int) { return r.width, r.height }

// Dispose frees every uploaded texture. Safe to call more than once.
func (r *EbitenRenderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	for t, img := range r.textures {
		img.Deallocate()
		delete(r.textures, t)
	}
	r.white.Deallocate()
	r.tris, r.verts, r.inds = nil, nil, nil
}

// image returns the uploaded copy of t, uploading it on first use.
func (r *EbitenRenderer) image(t *Texture) *ebiten.Image {
	if t == nil || t.Image == nil || t.IsDisposed() {
		return r.white
	}
	if img, ok := r.textures[t]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(t.Image)
	r.textures[t] = img
	t.OnDispose(func() {
		if r.disposed {
			return
		}
		img.Deallocate()
		delete(r.textures, t)
	})
	return img
}

// sceneLights is the lighting environment gathered once per frame.
type sceneLights struct {
	ambient Color
	points  []worldPointLight
}

type worldPointLight struct {
	light *PointLight
	pos   Vec3
}

func gatherLights(scene *Scene) sceneLights {
	var ls sceneLights
	scene.Traverse(func(n *Node) {
		if !n.Visible {
			return
		}
		switch l := n.Object.(type) {
		case *AmbientLight:
			c := l.Color.Scale(l.Intensity)
			ls.ambient = Color{ls.ambient.R + c.R, ls.ambient.G + c.G, ls.ambient.B + c.B, 1}
		case *PointLight:
			ls.points = append(ls.points, worldPointLight{light: l, pos: transformPoint3(n.worldMatrix, Vec3{})})
		}
	})
	return ls
}

// shade returns the light reaching a surface point with normal n.
func (ls *sceneLights) shade(p, n Vec3) Color {
	out := ls.ambient
	for _, pl := range ls.points {
		toLight := pl.pos.Sub(p)
		d := toLight.Length()
		if d == 0 {
			continue
		}
		lambert := n.Dot(toLight.Mul(1 / d))
		if lambert <= 0 {
			continue
		}
		e := pl.light.Color.Scale(pl.light.Irradiance(d) * lambert)
		out.R += e.R
		out.G += e.G
		out.B += e.B
	}
	out.A = 1
	return out
}

// Render implements Renderer.
func (r *EbitenRenderer) Render(scene *Scene, camera *PerspectiveCamera) {
	if r.disposed || scene == nil || camera == nil {
		return
	}
	target := r.surface.Target()
	if target == nil {
		return
	}
	scene.Root().UpdateWorldMatrices()
	proj := camera.Projector(r.width, r.height)

	target.Fill(r.ClearColor)
	if scene.Background != nil && !scene.Background.IsDisposed() {
		r.drawSky(target, scene.Background, camera, proj)
	}

	r.tris = r.tris[:0]
	lights := gatherLights(scene)
	scene.Traverse(func(n *Node) {
		if !n.Visible {
			return
		}
		switch obj := n.Object.(type) {
		case *Mesh:
			r.collectMesh(n, obj, camera.Position, &lights, proj)
		case *AxesHelper:
			drawAxes(target, n, obj, proj)
		}
	})
	r.sorter.sort(r.tris)
	r.submit(target)
}

// collectMesh projects and shades the front-facing triangles of a mesh.
func (r *EbitenRenderer) collectMesh(n *Node, m *Mesh, eye Vec3, lights *sceneLights, proj Projector) {
	geo := m.Geometry
	mat := m.Material()
	if geo == nil || mat == nil || geo.IsDisposed() || mat.IsDisposed() {
		return
	}
	img := r.image(mat.Map)
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()

	world := make([]Vec3, len(geo.Positions))
	for i, p := range geo.Positions {
		world[i] = transformPoint3(n.worldMatrix, p)
	}

	for i := 0; i+2 < len(geo.Indices); i += 3 {
		ia, ib, ic := geo.Indices[i], geo.Indices[i+1], geo.Indices[i+2]
		a, b, c := world[ia], world[ib], world[ic]
		if b.Sub(a).Cross(c.Sub(a)).Dot(eye.Sub(a)) <= 0 {
			continue
		}

		var tri triangle
		visible := true
		for k, idx := range [3]uint16{ia, ib, ic} {
			x, y, depth, ok := proj.Project(world[idx])
			if !ok {
				visible = false
				break
			}
			col := mat.Color
			if mat.Lit() {
				normal := transformDir3(n.worldMatrix, geo.Normals[idx]).Normal()
				col = col.Mul(lights.shade(world[idx], normal))
			}
			uv := geo.UVs[idx]
			tri.verts[k] = ebiten.Vertex{
				DstX:   float32(x),
				DstY:   float32(y),
				SrcX:   float32(uv[0] * float64(iw)),
				SrcY:   float32(uv[1] * float64(ih)),
				ColorR: float32(math.Min(col.R, 1)),
				ColorG: float32(math.Min(col.G, 1)),
				ColorB: float32(math.Min(col.B, 1)),
				ColorA: float32(col.A),
			}
			tri.depth += depth / 3
		}
		if !visible {
			continue
		}
		tri.img = img
		tri.order = len(r.tris)
		r.tris = append(r.tris, tri)
	}
}

// submit draws the sorted triangles, coalescing consecutive triangles that
// share a texture into one DrawTriangles call.
func (r *EbitenRenderer) submit(target *ebiten.Image) {
	var current *ebiten.Image
	flush := func() {
		if len(r.inds) > 0 {
			target.DrawTriangles(r.verts, r.inds, current, nil)
		}
		r.verts = r.verts[:0]
		r.inds = r.inds[:0]
	}
	for i := range r.tris {
		t := &r.tris[i]
		if t.img != current || len(r.verts)+3 > maxBatchVertices {
			flush()
			current = t.img
		}
		base := uint16(len(r.verts))
		r.verts = append(r.verts, t.verts[0], t.verts[1], t.verts[2])
		r.inds = append(r.inds, base, base+1, base+2)
	}
	flush()
}

// skyFace describes one cube face as a center plus the world directions of
// the image's x and y axes.
type skyFace struct {
	center, u, v Vec3
}

var skyFaces = [6]skyFace{
	CubePosX: {Vec3{1, 0, 0}, Vec3{0, 0, -1}, Vec3{0, -1, 0}},
	CubeNegX: {Vec3{-1, 0, 0}, Vec3{0, 0, 1}, Vec3{0, -1, 0}},
	CubePosY: {Vec3{0, 1, 0}, Vec3{1, 0, 0}, Vec3{0, 0, 1}},
	CubeNegY: {Vec3{0, -1, 0}, Vec3{1, 0, 0}, Vec3{0, 0, -1}},
	CubePosZ: {Vec3{0, 0, 1}, Vec3{1, 0, 0}, Vec3{0, -1, 0}},
	CubeNegZ: {Vec3{0, 0, -1}, Vec3{-1, 0, 0}, Vec3{0, -1, 0}},
}

// drawSky draws the background cube centered on the camera, so it never
// moves relative to the viewer.
func (r *EbitenRenderer) drawSky(target *ebiten.Image, cube *CubeTexture, camera *PerspectiveCamera, proj Projector) {
	radius := camera.Far * 0.5
	const n = skySubdivisions
	for fi, face := range skyFaces {
		img := r.image(cube.Faces[fi])
		iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
		r.verts = r.verts[:0]
		r.inds = r.inds[:0]

		var grid [n + 1][n + 1]struct {
			x, y float32
			ok   bool
		}
		for j := 0; j <= n; j++ {
			for i := 0; i <= n; i++ {
				s := float64(i) / n
				t := float64(j) / n
				dir := face.center.Add(face.u.Mul(2*s - 1)).Add(face.v.Mul(2*t - 1))
				x, y, _, ok := proj.Project(camera.Position.Add(dir.Mul(radius)))
				grid[j][i].x, grid[j][i].y, grid[j][i].ok = float32(x), float32(y), ok
			}
		}
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				if !grid[j][i].ok || !grid[j][i+1].ok || !grid[j+1][i].ok || !grid[j+1][i+1].ok {
					continue
				}
				base := uint16(len(r.verts))
				for _, c := range [4][2]int{{i, j}, {i + 1, j}, {i, j + 1}, {i + 1, j + 1}} {
					g := grid[c[1]][c[0]]
					r.verts = append(r.verts, ebiten.Vertex{
						DstX:   g.x,
						DstY:   g.y,
						SrcX:   float32(float64(c[0]) / n * iw),
						SrcY:   float32(float64(c[1]) / n * ih),
						ColorR: 1,
						ColorG: 1,
						ColorB: 1,
						ColorA: 1,
					})
				}
				r.inds = append(r.inds, base, base+1, base+2, base+1, base+3, base+2)
			}
		}
		if len(r.inds) > 0 {
			target.DrawTriangles(r.verts, r.inds, img, nil)
		}
	}
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

var axisColors = [3]color.RGBA{
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xff, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
}

// drawAxes draws the X, Y and Z axes of the helper's node as red, green and
// blue lines, clipped against the near plane.
func drawAxes(target *ebiten.Image, n *Node, h *AxesHelper, proj Projector) {
	origin := transformPoint3(n.worldMatrix, Vec3{})
	ends := [3]Vec3{{h.Size, 0, 0}, {0, h.Size, 0}, {0, 0, h.Size}}
	for i, end := range ends {
		a := proj.Clip(origin)
		b := proj.Clip(transformPoint3(n.worldMatrix, end))
		near := float32(proj.Near())
		if a.W < near && b.W < near {
			continue
		}
		if a.W < near || b.W < near {
			t := (near - a.W) / (b.W - a.W)
			cut := a.Lerp(b, t)
			if a.W < near {
				a = cut
			} else {
				b = cut
			}
		}
		x0, y0, _, ok0 := proj.ToScreen(a)
		x1, y1, _, ok1 := proj.ToScreen(b)
		if !ok0 || !ok1 {
			continue
		}
		vector.StrokeLine(target, float32(x0), float32(y0), float32(x1), float32(y1), 1, axisColors[i], true)
	}
}
