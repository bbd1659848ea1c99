package orrery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNilHost is returned by Mount when no host is configured.
var ErrNilHost = errors.New("orrery: nil host")

// LifecycleState is the run state of a mounted engine.
type LifecycleState uint8

const (
	// StateActive: frames render and reschedule.
	StateActive LifecycleState = iota
	// StateStopping: stop was requested while a frame was in flight.
	StateStopping
	// StateStopped: no frame is running and none will be scheduled.
	StateStopped
)

func (s LifecycleState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("LifecycleState(%d)", uint8(s))
	}
}

// Lifecycle is the single stop signal of an engine. Stop turns looping off,
// withdraws the pending frame and cancels the listener context in one call.
type Lifecycle struct {
	mu      sync.Mutex
	state   LifecycleState
	inFrame bool

	ctx    context.Context
	cancel context.CancelFunc
	onStop func()
}

func newLifecycle(ctx context.Context, cancel context.CancelFunc) *Lifecycle {
	return &Lifecycle{ctx: ctx, cancel: cancel}
}

// State returns the current state.
func (l *Lifecycle) State() LifecycleState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Looping reports whether frames keep rescheduling.
func (l *Lifecycle) Looping() bool {
	return l.State() == StateActive
}

// Context returns the context scoping window-level listeners. It is done
// once Stop has been called.
func (l *Lifecycle) Context() context.Context {
	return l.ctx
}

// Stop leaves Active. It reports whether this call made the transition.
// A frame already running completes, then the state settles to Stopped.
func (l *Lifecycle) Stop() bool {
	l.mu.Lock()
	if l.state != StateActive {
		l.mu.Unlock()
		return false
	}
	if l.inFrame {
		l.state = StateStopping
	} else {
		l.state = StateStopped
	}
	onStop := l.onStop
	l.mu.Unlock()

	if onStop != nil {
		onStop()
	}
	l.cancel()
	return true
}

// enterFrame admits a frame if the lifecycle is active.
func (l *Lifecycle) enterFrame() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateActive {
		return false
	}
	l.inFrame = true
	return true
}

func (l *Lifecycle) exitFrame() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFrame = false
	if l.state == StateStopping {
		l.state = StateStopped
	}
}

// InFrame reports whether a frame is currently running.
func (l *Lifecycle) InFrame() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFrame
}

// MountConfig configures Mount. Host is required; everything else has a
// default.
type MountConfig struct {
	// Host supplies the frame clock and resize events.
	Host Host
	// Canvas is the render surface. Defaults to Host when it implements
	// Canvas.
	Canvas Canvas
	// Loader binds body textures. Nil leaves bodies untextured.
	Loader MaterialLoader
	// Catalog lists the bodies to build. Nil uses DefaultCatalog.
	Catalog []CelestialBody
	// Background is the sky cubemap.
	Background *CubeTexture
	// NewRenderer creates the renderer. Nil renders headless.
	NewRenderer RendererFactory
	// Input drives the orbit controls.
	Input ControlInput
	// OnDelta receives each frame's delta in seconds.
	OnDelta func(delta float64)
	// Session is updated with the mount generation. Nil uses a private one.
	Session *SessionContext

	Logger  *slog.Logger
	Metrics *Metrics
	// Debug enables per-frame debug stats and scene checks.
	Debug bool
}

// Engine is a mounted scene session: the scene graph, its frame loop and the
// lifecycle that stops them.
type Engine struct {
	session *Session
	loop    *FrameLoop
	life    *Lifecycle

	log        *slog.Logger
	metrics    *Metrics
	generation uint64

	mu             sync.Mutex
	tornDown       bool
	teardownQueued bool
	released       int
}

type untexturedLoader struct{}

func (untexturedLoader) Load(string) *Texture { return nil }

// Mount builds the scene for cfg, registers the resize listener under a
// context derived from ctx and schedules the first frame. Cancelling ctx
// stops the engine at its next frame; Teardown must still be called.
func Mount(ctx context.Context, cfg MountConfig) (*Engine, error) {
	if cfg.Host == nil {
		return nil, ErrNilHost
	}
	canvas := cfg.Canvas
	if canvas == nil {
		canvas, _ = cfg.Host.(Canvas)
	}
	loader := cfg.Loader
	if loader == nil {
		loader = untexturedLoader{}
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog(loader)
	}
	if err := ValidateCatalog(catalog); err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}
	sc := cfg.Session
	if sc == nil {
		sc = &SessionContext{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	session, err := NewSession(canvas, SessionOptions{
		Background:  cfg.Background,
		NewRenderer: cfg.NewRenderer,
		Input:       cfg.Input,
	})
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}
	session.Scene().Add(BuildPlanets(catalog, loader))

	gen := sc.begin()
	log = log.With("component", "engine", "generation", gen)

	lctx, cancel := context.WithCancel(ctx)
	life := newLifecycle(lctx, cancel)
	loop := newFrameLoop(cfg.Host, session, life)
	loop.onDelta = cfg.OnDelta
	loop.log = log
	loop.metrics = cfg.Metrics
	loop.debug = cfg.Debug
	life.onStop = loop.cancelPending

	e := &Engine{
		session:    session,
		loop:       loop,
		life:       life,
		log:        log,
		metrics:    cfg.Metrics,
		generation: gen,
	}
	loop.after = e.runQueuedTeardown

	if cfg.Debug {
		debugCheckScene(log, session.Scene())
	}

	cfg.Host.AddResizeListener(lctx, e.resize)
	loop.schedule()

	e.metrics.RecordLifecycle("mount")
	e.metrics.SetGeneration(gen)
	log.Info("mounted", "bodies", len(catalog), "reload", sc.Reloaded())
	return e, nil
}

// resize matches the camera aspect and the draw buffer to the new viewport.
func (e *Engine) resize(width, height int) {
	camera := e.session.Camera()
	if camera == nil {
		return
	}
	camera.Aspect = aspectRatio(width, height)
	camera.UpdateProjectionMatrix()
	e.session.Renderer().SetSize(width, height)
	e.log.Debug("resized", "width", width, "height", height)
}

// Stop ends the frame loop and cancels the resize listener. Safe to call
// more than once and from any goroutine.
func (e *Engine) Stop() {
	if e.life.Stop() {
		e.metrics.RecordLifecycle("stop")
		e.log.Info("stopped")
	}
}

// Teardown stops the engine and releases every resource it owns: the
// geometry, materials, texture maps, lights and helpers reachable from the
// scene, then the background, the controls and the renderer. Called from
// inside a frame callback it runs once that frame finishes. A second call
// is a no-op.
func (e *Engine) Teardown() {
	e.Stop()
	if e.life.InFrame() {
		e.mu.Lock()
		e.teardownQueued = true
		e.mu.Unlock()
		return
	}
	e.teardown()
}

func (e *Engine) runQueuedTeardown() {
	e.mu.Lock()
	queued := e.teardownQueued
	e.teardownQueued = false
	e.mu.Unlock()
	if queued {
		e.teardown()
	}
}

func (e *Engine) teardown() {
	e.mu.Lock()
	if e.tornDown {
		e.mu.Unlock()
		return
	}
	e.tornDown = true
	e.mu.Unlock()

	released := 0
	if scene := e.session.Scene(); scene != nil {
		scene.Traverse(func(n *Node) {
			if n.Object != nil {
				released += n.Object.release()
			}
		})
		if bg := scene.Background; bg != nil {
			released += bg.releaseAll()
		}
		for _, n := range append([]*Node(nil), scene.Root().Children()...) {
			n.Dispose()
		}
	}
	e.session.Clear()
	e.session.Controls().Dispose()
	e.session.Renderer().Dispose()

	e.released = released
	e.metrics.RecordReleased(released)
	e.metrics.RecordLifecycle("teardown")
	e.log.Info("torn down", "released", released, "frames", e.loop.Frames())
}

// State returns the lifecycle state.
func (e *Engine) State() LifecycleState { return e.life.State() }

// Session returns the mounted session.
func (e *Engine) Session() *Session { return e.session }

// Loop returns the frame loop.
func (e *Engine) Loop() *FrameLoop { return e.loop }

// Generation returns the mount generation taken from the SessionContext.
func (e *Engine) Generation() uint64 { return e.generation }

// Released returns how many resource handles teardown freed.
func (e *Engine) Released() int { return e.released }

// TornDown reports whether teardown has completed.
func (e *Engine) TornDown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tornDown
}
