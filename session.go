package orrery

import "errors"

// ErrNilCanvas is returned when a session is created without a canvas.
var ErrNilCanvas = errors.New("orrery: nil canvas")

// Session lighting and helper constants.
const (
	pointLightHex       = "#ffdd00"
	PointLightIntensity = 300.0
	ambientLightHex     = "#ffffff"
	AmbientIntensity    = 0.1
	AxesHelperSize      = 500.0
)

// SessionOptions configures NewSession. Every field is optional.
type SessionOptions struct {
	// Background is the sky cubemap drawn behind the scene.
	Background *CubeTexture
	// NewRenderer creates the renderer; defaults to NewHeadlessRenderer.
	NewRenderer RendererFactory
	// Input drives the orbit controls. Nil leaves the camera still.
	Input ControlInput
}

// Session binds a scene, camera, renderer and orbit controls to one canvas.
type Session struct {
	scene    *Scene
	camera   *PerspectiveCamera
	renderer Renderer
	controls *OrbitControls
	cleared  bool
}

// NewSession creates the render surface binding for canvas: a renderer
// sized to the canvas, a camera at DefaultCameraPosition looking at the
// origin, damped orbit controls, a warm point light, a faint ambient light
// and a large axes helper.
func NewSession(canvas Canvas, opts SessionOptions) (*Session, error) {
	if canvas == nil {
		return nil, ErrNilCanvas
	}
	factory := opts.NewRenderer
	if factory == nil {
		factory = NewHeadlessRenderer
	}

	w, h := canvas.Size()
	renderer := factory(canvas)
	renderer.SetSize(w, h)

	camera := NewPerspectiveCamera(DefaultFOV, aspectRatio(w, h), DefaultNear, DefaultFar)
	camera.Position = DefaultCameraPosition
	camera.LookAt(Vec3{})

	controls := NewOrbitControls(camera, canvas, opts.Input)
	controls.EnableDamping = true

	scene := NewScene()
	scene.Background = opts.Background
	scene.Add(
		NewNode("PointLight", NewPointLight(ColorHex(pointLightHex), PointLightIntensity)),
		NewNode("AmbientLight", NewAmbientLight(ColorHex(ambientLightHex), AmbientIntensity)),
		NewNode("AxesHelper", NewAxesHelper(AxesHelperSize)),
	)

	return &Session{
		scene:    scene,
		camera:   camera,
		renderer: renderer,
		controls: controls,
	}, nil
}

// Scene returns the session scene, or nil after Clear.
func (s *Session) Scene() *Scene { return s.scene }

// Camera returns the session camera, or nil after Clear.
func (s *Session) Camera() *PerspectiveCamera { return s.camera }

// Renderer returns the session renderer.
func (s *Session) Renderer() Renderer { return s.renderer }

// Controls returns the orbit controls.
func (s *Session) Controls() *OrbitControls { return s.controls }

// Clear empties the scene and drops the scene and camera references. Call it
// only once frames have stopped. Safe to call more than once.
func (s *Session) Clear() {
	if s.cleared {
		return
	}
	s.cleared = true
	if s.scene != nil {
		s.scene.Clear()
	}
	s.scene = nil
	s.camera = nil
}

// aspectRatio returns width/height, or 1 for a degenerate viewport.
func aspectRatio(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}
