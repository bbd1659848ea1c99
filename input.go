package orrery

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const defaultDragDeadZone = 4.0 // pixels

// dragTracker turns pointer samples into drag deltas. Movement is reported
// only once the pointer has moved past the dead zone since it went down.
type dragTracker struct {
	deadZone float64

	down     bool
	dragging bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
}

func (t *dragTracker) update(x, y float64, pressed bool) (dx, dy float64) {
	if !pressed {
		t.down, t.dragging = false, false
		return 0, 0
	}
	if !t.down {
		t.down = true
		t.startX, t.startY = x, y
		t.lastX, t.lastY = x, y
		return 0, 0
	}
	if !t.dragging {
		ddx, ddy := x-t.startX, y-t.startY
		if math.Sqrt(ddx*ddx+ddy*ddy) <= t.deadZone {
			return 0, 0
		}
		t.dragging = true
	}
	dx, dy = x-t.lastX, y-t.lastY
	t.lastX, t.lastY = x, y
	return dx, dy
}

// EbitenInput reads mouse, touch and keyboard state each tick and hands the
// accumulated ControlDelta to OrbitControls. Left drag (or one-finger
// touch) orbits, the wheel zooms and Space flies back to the home view.
type EbitenInput struct {
	// ResetKey triggers ControlDelta.Reset.
	ResetKey ebiten.Key

	mu       sync.Mutex
	pending  ControlDelta
	mouse    dragTracker
	touch    dragTracker
	touchIDs []ebiten.TouchID
}

// NewEbitenInput creates an input source with the default bindings.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{
		ResetKey: ebiten.KeySpace,
		mouse:    dragTracker{deadZone: defaultDragDeadZone},
		touch:    dragTracker{deadZone: defaultDragDeadZone},
	}
}

// Sample reads the current input state. EbitenHost calls it from Update.
func (in *EbitenInput) Sample() {
	mx, my := ebiten.CursorPosition()
	mdx, mdy := in.mouse.update(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	var tdx, tdy float64
	if len(in.touchIDs) == 1 {
		tx, ty := ebiten.TouchPosition(in.touchIDs[0])
		tdx, tdy = in.touch.update(float64(tx), float64(ty), true)
	} else {
		in.touch.update(0, 0, false)
	}

	_, wheel := ebiten.Wheel()
	reset := inpututil.IsKeyJustPressed(in.ResetKey)

	in.mu.Lock()
	in.pending.DragX += mdx + tdx
	in.pending.DragY += mdy + tdy
	in.pending.Wheel += wheel
	in.pending.Reset = in.pending.Reset || reset
	in.mu.Unlock()
}

// Poll implements ControlInput. It returns the input sampled since the
// previous Poll.
func (in *EbitenInput) Poll() ControlDelta {
	in.mu.Lock()
	defer in.mu.Unlock()
	d := in.pending
	in.pending = ControlDelta{}
	return d
}
