package orrery

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// FrameLoop is the per-frame update and render loop. Each invocation
// advances the orbits by the time elapsed since the previous one, steps the
// orbit controls, renders, and asks the host for the next frame while the
// lifecycle is active.
type FrameLoop struct {
	host    Host
	session *Session
	life    *Lifecycle
	onDelta func(delta float64)

	log     *slog.Logger
	metrics *Metrics
	debug   bool

	// after runs once each admitted frame has finished.
	after func()

	pending   atomic.Uint64
	last      float64
	lastDelta float64
	frames    uint64
}

func newFrameLoop(host Host, session *Session, life *Lifecycle) *FrameLoop {
	return &FrameLoop{
		host:    host,
		session: session,
		life:    life,
		log:     slog.Default(),
	}
}

// Frame runs one loop iteration. timestamp is in milliseconds and is
// expected to increase monotonically.
//
// A frame that arrives once the lifecycle has left Active does nothing: it
// neither renders nor reschedules.
func (f *FrameLoop) Frame(timestamp float64) {
	f.pending.Store(0)
	if f.life.Context().Err() != nil {
		f.life.Stop()
	}
	if !f.life.enterFrame() {
		f.metrics.RecordStaleFrame()
		f.log.Debug("declined stale frame", "timestamp", timestamp)
		return
	}
	defer f.finish()

	// The first frame measures from zero.
	delta := (timestamp - f.last) / 1000
	if delta < 0 {
		delta = 0
	}
	f.last = timestamp
	f.lastDelta = delta
	if f.onDelta != nil {
		f.onDelta(delta)
	}

	scene, camera := f.session.Scene(), f.session.Camera()

	orbitStart := time.Now()
	AdvanceOrbits(scene, delta)
	orbitTime := time.Since(orbitStart)

	renderStart := time.Now()
	f.session.Controls().Update(delta)
	f.session.Renderer().Render(scene, camera)
	renderTime := time.Since(renderStart)

	f.frames++
	f.metrics.RecordFrame(delta, renderTime)
	if f.debug {
		debugLog(f.log, debugStats{
			frame:      f.frames,
			delta:      delta,
			orbitTime:  orbitTime,
			renderTime: renderTime,
		})
	}

	f.schedule()
}

func (f *FrameLoop) finish() {
	f.life.exitFrame()
	if f.after != nil {
		f.after()
	}
}

// schedule requests the next frame if the lifecycle is still active.
func (f *FrameLoop) schedule() {
	if !f.life.Looping() {
		return
	}
	f.pending.Store(uint64(f.host.RequestFrame(f.Frame)))
}

// cancelPending withdraws the outstanding frame request, if any.
func (f *FrameLoop) cancelPending() {
	if h := FrameHandle(f.pending.Swap(0)); h != 0 {
		f.host.CancelFrame(h)
	}
}

// Frames returns the number of frames rendered.
func (f *FrameLoop) Frames() uint64 { return f.frames }

// LastDelta returns the delta published by the most recent frame.
func (f *FrameLoop) LastDelta() float64 { return f.lastDelta }

// Pending reports whether a frame request is outstanding.
func (f *FrameLoop) Pending() bool { return f.pending.Load() != 0 }
