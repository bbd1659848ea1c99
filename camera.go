package orrery

import (
	"cogentcore.org/core/math32"
)

// Default camera parameters for a session.
const (
	DefaultFOV  = 35.0 // vertical field of view, degrees
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// DefaultCameraPosition is the viewpoint a session starts from; the camera
// looks at the origin from here.
var DefaultCameraPosition = Vec3{0, 5, 100}

// PerspectiveCamera projects the scene with a symmetric perspective frustum.
// After changing FOV, Aspect, Near or Far call UpdateProjectionMatrix.
type PerspectiveCamera struct {
	// FOV is the vertical field of view in degrees.
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	// Position is the eye location and Target the point it looks at.
	Position Vec3
	Target   Vec3
	Up       Vec3

	projection math32.Matrix4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: Vec3{0, 0, -1},
		Up:     Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the projection from FOV, Aspect, Near
// and Far.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection.SetPerspective(float32(c.FOV), float32(aspect), float32(c.Near), float32(c.Far))
}

// ProjectionMatrix returns the current projection matrix.
func (c *PerspectiveCamera) ProjectionMatrix() math32.Matrix4 {
	return c.projection
}

// LookAt points the camera at target, keeping the current up direction.
func (c *PerspectiveCamera) LookAt(target Vec3) {
	c.Target = target
}

// ViewMatrix returns the world-to-camera matrix for the current pose.
func (c *PerspectiveCamera) ViewMatrix() math32.Matrix4 {
	up := c.Up
	if up == (Vec3{}) {
		up = Vec3{0, 1, 0}
	}
	pos := vec3f(c.Position)
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(pos, vec3f(c.Target), vec3f(up)))
	var cview math32.Matrix4
	cview.SetTransform(pos, lookq, math32.Vec3(1, 1, 1))
	view, err := cview.Inverse()
	if err != nil {
		var id math32.Matrix4
		id.SetIdentity()
		return id
	}
	return *view
}

// ViewProjection returns projection * view.
func (c *PerspectiveCamera) ViewProjection() math32.Matrix4 {
	view := c.ViewMatrix()
	var vp math32.Matrix4
	vp.MulMatrices(&c.projection, &view)
	return vp
}

// Direction returns the unit vector from Position toward Target.
func (c *PerspectiveCamera) Direction() Vec3 {
	return c.Target.Sub(c.Position).Normal()
}

// Projector maps world points to screen pixels for one frame. Build it once
// per frame with Camera.Projector so the view matrix is computed only once.
type Projector struct {
	vp            math32.Matrix4
	near          float64
	width, height float64
}

// Projector captures the camera's current view-projection for a viewport of
// the given size.
func (c *PerspectiveCamera) Projector(width, height int) Projector {
	return Projector{
		vp:     c.ViewProjection(),
		near:   c.Near,
		width:  float64(width),
		height: float64(height),
	}
}

// Clip returns the homogeneous clip-space coordinates of p.
func (p Projector) Clip(v Vec3) math32.Vector4 {
	return math32.Vector4{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z), W: 1}.MulMatrix4(&p.vp)
}

// Project maps a world point to screen pixels with the origin at the
// top-left. depth is the distance along the view axis. ok is false when the
// point lies behind the near plane.
func (p Projector) Project(v Vec3) (x, y, depth float64, ok bool) {
	clip := p.Clip(v)
	return p.ToScreen(clip)
}

// ToScreen converts clip coordinates to screen pixels. See Project.
func (p Projector) ToScreen(clip math32.Vector4) (x, y, depth float64, ok bool) {
	w := float64(clip.W)
	if w < p.near {
		return 0, 0, w, false
	}
	ndcX := float64(clip.X) / w
	ndcY := float64(clip.Y) / w
	x = (ndcX + 1) * 0.5 * p.width
	y = (1 - ndcY) * 0.5 * p.height
	return x, y, w, true
}

// Near returns the near plane distance captured by the projector.
func (p Projector) Near() float64 {
	return p.near
}

func vec3f(v Vec3) math32.Vector3 {
	return math32.Vec3(float32(v.X), float32(v.Y), float32(v.Z))
}
