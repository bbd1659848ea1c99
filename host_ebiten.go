package orrery

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Surface is a Canvas that exposes the image frames are drawn onto. The
// image is only valid while frame callbacks run.
type Surface interface {
	Canvas
	Target() *ebiten.Image
}

// EbitenHost runs the engine inside an Ebitengine game loop. Draw is the
// frame clock: every Draw fires the pending frame callbacks with the
// milliseconds elapsed since the host was created. Layout reports window
// resizes.
type EbitenHost struct {
	hostCore

	// Input is sampled every tick when set.
	Input *EbitenInput
	// OnUpdate runs every tick after input is sampled; a non-nil error ends
	// the game.
	OnUpdate func() error
	// HUD is drawn over the frame when set.
	HUD *HUD

	// ScreenshotKey queues a screenshot; ScreenshotDir receives the PNGs.
	ScreenshotKey ebiten.Key
	ScreenshotDir string

	log         *slog.Logger
	start       time.Time
	screen      *ebiten.Image
	screenshots []string
	quit        atomic.Bool
}

// NewEbitenHost creates a host with the given initial window size.
func NewEbitenHost(width, height int, log *slog.Logger) *EbitenHost {
	if log == nil {
		log = slog.Default()
	}
	h := &EbitenHost{
		ScreenshotKey: ebiten.KeyF12,
		ScreenshotDir: "screenshots",
		log:           log.With("component", "host"),
		start:         time.Now(),
	}
	h.width, h.height = width, height
	return h
}

// Target implements Surface.
func (h *EbitenHost) Target() *ebiten.Image {
	return h.screen
}

// Close ends the game loop at the next tick.
func (h *EbitenHost) Close() {
	h.quit.Store(true)
}

// Update implements ebiten.Game.
func (h *EbitenHost) Update() error {
	if h.quit.Load() {
		return ebiten.Termination
	}
	if h.Input != nil {
		h.Input.Sample()
	}
	if inpututil.IsKeyJustPressed(h.ScreenshotKey) {
		h.Screenshot("frame")
	}
	if h.OnUpdate != nil {
		return h.OnUpdate()
	}
	return nil
}

// Draw implements ebiten.Game.
func (h *EbitenHost) Draw(screen *ebiten.Image) {
	h.screen = screen
	ts := float64(time.Since(h.start)) / float64(time.Millisecond)
	h.runFrames(ts)
	if h.HUD != nil {
		h.HUD.Draw(screen)
	}
	h.flushScreenshots(screen)
	h.screen = nil
}

// Layout implements ebiten.Game. A change in the outside size is dispatched
// to resize listeners.
func (h *EbitenHost) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, ht := h.Viewport(); w != outsideWidth || ht != outsideHeight {
		h.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
