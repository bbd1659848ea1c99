package orrery

import "math"

// SunSpinRate is the Sun's spin about the vertical axis in radians per
// second.
const SunSpinRate = 0.1

const twoPi = 2 * math.Pi

// AdvanceOrbits moves every body in the scene's "Planets" group forward by
// delta seconds. Orbit-less children (the Sun) spin in place. Orbiting
// children accumulate their phase in Rotation.Y and are placed on a circle of
// radius Distance in the horizontal plane of their parent; their orbiting
// children get the same treatment relative to them.
//
// A scene without a "Planets" group is left untouched.
func AdvanceOrbits(scene *Scene, delta float64) {
	if scene == nil {
		return
	}
	planets := scene.ObjectByName(PlanetsGroupName)
	if planets == nil {
		return
	}
	for _, body := range planets.children {
		if body.Orbit == nil {
			body.Rotation.Y = wrapAngle(body.Rotation.Y + delta*SunSpinRate)
			body.MarkDirty()
			continue
		}
		advanceBody(body, delta)
		for _, moon := range body.children {
			if moon.Orbit != nil {
				advanceBody(moon, delta)
			}
		}
	}
}

func advanceBody(n *Node, delta float64) {
	rot := wrapAngle(n.Rotation.Y + delta*n.Orbit.AngularSpeed)
	n.Rotation.Y = rot
	sin, cos := math.Sincos(rot)
	n.Position.X = sin * n.Orbit.Distance
	n.Position.Z = cos * n.Orbit.Distance
	n.MarkDirty()
}

// wrapAngle keeps a the same modulo 2π while bounding it to (-2π, 2π).
func wrapAngle(a float64) float64 {
	if a >= twoPi || a <= -twoPi {
		return math.Mod(a, twoPi)
	}
	return a
}
