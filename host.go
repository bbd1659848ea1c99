package orrery

import (
	"context"
	"sync"
)

// Canvas is the render surface a session binds to.
type Canvas interface {
	// Size returns the current drawable size in pixels.
	Size() (width, height int)
}

// FrameCallback receives a monotonically increasing timestamp in
// milliseconds from the host's frame clock.
type FrameCallback func(timestamp float64)

// FrameHandle identifies a pending frame request. The zero handle is never
// issued.
type FrameHandle uint64

// Host is the environment the engine runs in: a frame clock synchronized to
// the display and a window that can be resized. Hosts call back on a single
// thread; callbacks never run concurrently with each other.
type Host interface {
	// RequestFrame schedules cb to run once on the next frame.
	RequestFrame(cb FrameCallback) FrameHandle
	// CancelFrame drops a pending request. Unknown handles are ignored.
	CancelFrame(h FrameHandle)
	// AddResizeListener calls fn with the new window size after every
	// resize until ctx is done.
	AddResizeListener(ctx context.Context, fn func(width, height int))
	// Viewport returns the current window size.
	Viewport() (width, height int)
}

type pendingFrame struct {
	handle FrameHandle
	cb     FrameCallback
}

type resizeListener struct {
	ctx context.Context
	fn  func(width, height int)
}

// hostCore holds the frame queue and resize listeners shared by every Host
// implementation. Registration may come from any goroutine; dispatch happens
// on the host thread.
type hostCore struct {
	mu         sync.Mutex
	nextHandle FrameHandle
	frames     []pendingFrame
	listeners  []resizeListener
	width      int
	height     int
}

func (h *hostCore) RequestFrame(cb FrameCallback) FrameHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextHandle++
	h.frames = append(h.frames, pendingFrame{handle: h.nextHandle, cb: cb})
	return h.nextHandle
}

func (h *hostCore) CancelFrame(handle FrameHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, f := range h.frames {
		if f.handle == handle {
			copy(h.frames[i:], h.frames[i+1:])
			h.frames[len(h.frames)-1] = pendingFrame{}
			h.frames = h.frames[:len(h.frames)-1]
			return
		}
	}
}

func (h *hostCore) AddResizeListener(ctx context.Context, fn func(width, height int)) {
	if ctx.Err() != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, resizeListener{ctx: ctx, fn: fn})
}

func (h *hostCore) Viewport() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// Size implements Canvas with the host's viewport.
func (h *hostCore) Size() (int, int) {
	return h.Viewport()
}

// PendingFrames returns the number of outstanding frame requests.
func (h *hostCore) PendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

// Listeners returns the number of live resize listeners. Listeners whose
// context is done are pruned.
func (h *hostCore) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked()
	return len(h.listeners)
}

func (h *hostCore) pruneLocked() {
	live := h.listeners[:0]
	for _, l := range h.listeners {
		if l.ctx.Err() == nil {
			live = append(live, l)
		}
	}
	for i := len(live); i < len(h.listeners); i++ {
		h.listeners[i] = resizeListener{}
	}
	h.listeners = live
}

// runFrames invokes every callback that was pending when the call began.
// Callbacks requested during dispatch run on the next frame.
func (h *hostCore) runFrames(timestamp float64) int {
	h.mu.Lock()
	batch := h.frames
	h.frames = nil
	h.mu.Unlock()

	for _, f := range batch {
		f.cb(timestamp)
	}
	return len(batch)
}

// resize records the new viewport and notifies live listeners.
func (h *hostCore) resize(width, height int) {
	h.mu.Lock()
	h.width, h.height = width, height
	h.pruneLocked()
	ls := make([]resizeListener, len(h.listeners))
	copy(ls, h.listeners)
	h.mu.Unlock()

	for _, l := range ls {
		if l.ctx.Err() == nil {
			l.fn(width, height)
		}
	}
}

// ManualHost is a Host driven explicitly by the caller: Step fires a frame
// and Resize simulates a window resize. It backs tests and headless runs.
type ManualHost struct {
	hostCore
}

// NewManualHost creates a host with the given initial viewport.
func NewManualHost(width, height int) *ManualHost {
	h := &ManualHost{}
	h.width, h.height = width, height
	return h
}

// Step fires all pending frame callbacks with timestamp (milliseconds) and
// returns how many ran.
func (h *ManualHost) Step(timestamp float64) int {
	return h.runFrames(timestamp)
}

// Resize sets the viewport and dispatches resize listeners.
func (h *ManualHost) Resize(width, height int) {
	h.resize(width, height)
}
