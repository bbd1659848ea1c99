package orrery

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ControlDelta is the user input gathered since the previous poll.
type ControlDelta struct {
	// DragX and DragY are pointer drag distances in pixels.
	DragX, DragY float64
	// Wheel is the scroll amount; positive zooms in.
	Wheel float64
	// Reset requests a fly back to the home viewpoint.
	Reset bool
}

// ControlInput supplies user input to OrbitControls.
type ControlInput interface {
	Poll() ControlDelta
}

// Default orbit control tuning.
const (
	DefaultDampingFactor = 0.05
	DefaultResetDuration = 1.2 // seconds
	minPolarAngle        = 1e-6
)

// flyTween holds the active fly-back tweens for the camera position.
type flyTween struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// OrbitControls orbits the camera around Target in response to drag and
// wheel input. With damping enabled, rotation keeps easing out after input
// stops; Update must then be called every frame.
type OrbitControls struct {
	Camera *PerspectiveCamera
	Target Vec3

	EnableDamping bool
	DampingFactor float64
	RotateSpeed   float64
	ZoomSpeed     float64
	MinDistance   float64
	MaxDistance   float64

	// Home is the viewpoint Reset flies back to.
	Home Vec3

	canvas Canvas
	input  ControlInput

	deltaTheta float64
	deltaPhi   float64
	scale      float64

	fly      *flyTween
	disposed bool
}

// NewOrbitControls binds controls to camera. canvas provides the viewport
// height used to convert drag pixels into angles; input may be nil for a
// scripted camera.
func NewOrbitControls(camera *PerspectiveCamera, canvas Canvas, input ControlInput) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		DampingFactor: DefaultDampingFactor,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		Home:          camera.Position,
		canvas:        canvas,
		input:         input,
		scale:         1,
	}
}

// Rotate queues an orbit of dTheta radians around the vertical axis and
// dPhi radians toward the poles.
func (c *OrbitControls) Rotate(dTheta, dPhi float64) {
	c.deltaTheta += dTheta
	c.deltaPhi += dPhi
}

// Dolly scales the camera distance from Target by factor on the next
// Update. Values below 1 move closer.
func (c *OrbitControls) Dolly(factor float64) {
	if factor > 0 {
		c.scale *= factor
	}
}

// Reset flies the camera back to Home over duration seconds.
func (c *OrbitControls) Reset(duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.OutCubic
	}
	p := c.Camera.Position
	c.fly = &flyTween{tweens: [3]*gween.Tween{
		gween.New(float32(p.X), float32(c.Home.X), duration, fn),
		gween.New(float32(p.Y), float32(c.Home.Y), duration, fn),
		gween.New(float32(p.Z), float32(c.Home.Z), duration, fn),
	}}
	c.deltaTheta, c.deltaPhi, c.scale = 0, 0, 1
}

// Flying reports whether a Reset animation is in progress.
func (c *OrbitControls) Flying() bool {
	return c.fly != nil
}

// Update applies pending input and one damping step, then points the camera
// at Target. dt (seconds) only drives the Reset animation. Returns true if
// the camera moved.
func (c *OrbitControls) Update(dt float64) bool {
	if c.disposed || c.Camera == nil {
		return false
	}
	c.applyInput()

	if c.fly != nil {
		c.stepFly(float32(dt))
		c.Camera.LookAt(c.Target)
		return true
	}

	offset := c.Camera.Position.Sub(c.Target)
	radius := offset.Length()
	theta := math.Atan2(offset.X, offset.Z)
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(clamp(offset.Y/radius, -1, 1))
	}

	if c.EnableDamping {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}
	phi = clamp(phi, minPolarAngle, math.Pi-minPolarAngle)
	radius = clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	next := c.Target.Add(Vec3{
		X: radius * sinPhi * sinTheta,
		Y: radius * cosPhi,
		Z: radius * sinPhi * cosTheta,
	})

	moved := next.Sub(c.Camera.Position).Length() > 1e-9
	c.Camera.Position = next
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
	}
	c.scale = 1
	return moved
}

func (c *OrbitControls) applyInput() {
	if c.input == nil {
		return
	}
	d := c.input.Poll()
	if d.Reset {
		c.Reset(DefaultResetDuration, ease.OutCubic)
		return
	}
	if d.DragX != 0 || d.DragY != 0 {
		h := 1.0
		if c.canvas != nil {
			if _, ch := c.canvas.Size(); ch > 0 {
				h = float64(ch)
			}
		}
		c.Rotate(-2*math.Pi*d.DragX/h*c.RotateSpeed, -2*math.Pi*d.DragY/h*c.RotateSpeed)
	}
	if d.Wheel != 0 {
		c.Dolly(math.Pow(0.95, c.ZoomSpeed*d.Wheel))
	}
}

// stepFly advances the Reset tweens, writing the camera position.
func (c *OrbitControls) stepFly(dt float32) {
	f := c.fly
	pos := [3]*float64{&c.Camera.Position.X, &c.Camera.Position.Y, &c.Camera.Position.Z}
	for i, tw := range f.tweens {
		if f.done[i] {
			continue
		}
		val, finished := tw.Update(dt)
		*pos[i] = float64(val)
		f.done[i] = finished
	}
	if f.done[0] && f.done[1] && f.done[2] {
		c.fly = nil
	}
}

// Dispose detaches the controls from their input and camera. Further
// Update calls are no-ops. Safe to call more than once.
func (c *OrbitControls) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.input = nil
	c.canvas = nil
	c.Camera = nil
	c.fly = nil
}

// IsDisposed reports whether Dispose has been called.
func (c *OrbitControls) IsDisposed() bool {
	return c.disposed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
