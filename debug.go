package orrery

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timing. Only logged in debug mode.
type debugStats struct {
	frame      uint64
	delta      float64
	orbitTime  time.Duration
	renderTime time.Duration
}

// debugLogEvery throttles the per-frame debug line.
const debugLogEvery = 60

// debugLog writes frame stats at Debug level every debugLogEvery frames.
func debugLog(log *slog.Logger, stats debugStats) {
	if stats.frame%debugLogEvery != 0 {
		return
	}
	log.Debug("frame",
		"n", stats.frame,
		"delta", stats.delta,
		"orbit", stats.orbitTime,
		"render", stats.renderTime,
		"total", stats.orbitTime+stats.renderTime)
}

// debugMaxTreeDepth is the depth past which a scene is reported as suspicious.
const debugMaxTreeDepth = 32

// debugCheckScene warns about unusually deep trees and about body nodes the
// frame loop will never animate (orbits nested below satellites).
func debugCheckScene(log *slog.Logger, scene *Scene) {
	planets := scene.ObjectByName(PlanetsGroupName)
	if planets == nil {
		log.Warn("scene has no planets group", "name", PlanetsGroupName)
	}
	scene.Traverse(func(n *Node) {
		depth := 0
		for p := n; p != nil; p = p.Parent {
			depth++
		}
		if depth > debugMaxTreeDepth {
			log.Warn("tree depth exceeds threshold", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
		}
		if planets != nil && n.Orbit != nil && depth > planetsDepth(planets)+2 {
			log.Warn("orbit too deep to animate", "node", n.Name)
		}
	})
}

func planetsDepth(planets *Node) int {
	depth := 0
	for p := planets; p != nil; p = p.Parent {
		depth++
	}
	return depth
}
