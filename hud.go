package orrery

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is how often, in seconds of frame delta, the HUD text is
// rebuilt.
const hudRefresh = 0.5

// HUD is a small overlay showing the published frame delta, FPS and the
// reload generation.
type HUD struct {
	mu         sync.Mutex
	delta      float64
	generation uint64
	elapsed    float64
	text       string
	img        *ebiten.Image
}

// SetDelta records the latest frame delta. Use it as MountConfig.OnDelta.
func (h *HUD) SetDelta(delta float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delta = delta
	h.elapsed += delta
}

// SetGeneration records the mounted session generation.
func (h *HUD) SetGeneration(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generation = gen
	h.elapsed = hudRefresh
}

// Delta returns the last recorded delta.
func (h *HUD) Delta() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.delta
}

// Draw renders the overlay in the top-left corner of screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	h.mu.Lock()
	if h.text == "" || h.elapsed >= hudRefresh {
		h.elapsed = 0
		h.text = hudText(h.delta, ebiten.ActualFPS(), h.generation)
	}
	text := h.text
	h.mu.Unlock()

	if h.img == nil {
		// 160x48 fits three lines of the debug font.
		h.img = ebiten.NewImage(160, 48)
	}
	h.img.Clear()
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, text)
	screen.DrawImage(h.img, nil)
}

func hudText(delta, fps float64, generation uint64) string {
	return fmt.Sprintf("d: %.4fs\nFPS: %.1f\ngen: %d", delta, fps, generation)
}
