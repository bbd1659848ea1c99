package orrery

// Renderer draws a scene through a camera onto its bound surface.
type Renderer interface {
	// SetSize resizes the draw buffer.
	SetSize(width, height int)
	// Size returns the current draw buffer size.
	Size() (width, height int)
	// Render draws one frame.
	Render(scene *Scene, camera *PerspectiveCamera)
	// Dispose releases the graphics context and every uploaded resource.
	// Safe to call more than once.
	Dispose()
}

// RendererFactory creates a renderer bound to canvas.
type RendererFactory func(canvas Canvas) Renderer

// HeadlessRenderer draws nothing. It tracks size and counts frames, which is
// all a headless run or a test needs.
type HeadlessRenderer struct {
	width, height int
	frames        int
	disposed      bool
}

// NewHeadlessRenderer creates a renderer sized to canvas.
func NewHeadlessRenderer(canvas Canvas) Renderer {
	r := &HeadlessRenderer{}
	if canvas != nil {
		r.width, r.height = canvas.Size()
	}
	return r
}

func (r *HeadlessRenderer) SetSize(width, height int) { r.width, r.height = width, height }

func (r *HeadlessRenderer) Size() (int, int) { return r.width, r.height }

// Render counts the frame. Calls after Dispose are ignored.
func (r *HeadlessRenderer) Render(scene *Scene, camera *PerspectiveCamera) {
	if r.disposed || scene == nil || camera == nil {
		return
	}
	scene.Root().UpdateWorldMatrices()
	r.frames++
}

func (r *HeadlessRenderer) Dispose() { r.disposed = true }

// Frames returns the number of frames rendered.
func (r *HeadlessRenderer) Frames() int { return r.frames }

// IsDisposed reports whether Dispose has been called.
func (r *HeadlessRenderer) IsDisposed() bool { return r.disposed }
