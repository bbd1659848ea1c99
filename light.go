package orrery

import "math"

// PointLight is an omnidirectional light at its node's world position.
// Intensity falls off with distance^Decay; Distance 0 means unlimited range.
type PointLight struct {
	resource

	Color     Color
	Intensity float64
	Distance  float64
	Decay     float64
}

// NewPointLight creates a point light with physically based decay (2).
func NewPointLight(color Color, intensity float64) *PointLight {
	return &PointLight{Color: color, Intensity: intensity, Decay: 2}
}

// Kind implements Object.
func (*PointLight) Kind() NodeKind { return KindLight }

func (l *PointLight) release() int { return boolCount(l.resource.release()) }

// Irradiance returns the light reaching a point at distance d.
func (l *PointLight) Irradiance(d float64) float64 {
	if l.Distance > 0 && d >= l.Distance {
		return 0
	}
	if d < 1 {
		d = 1
	}
	return l.Intensity / math.Pow(d, l.Decay)
}

// AmbientLight lights every lit surface uniformly.
type AmbientLight struct {
	resource

	Color     Color
	Intensity float64
}

// NewAmbientLight creates an ambient light.
func NewAmbientLight(color Color, intensity float64) *AmbientLight {
	return &AmbientLight{Color: color, Intensity: intensity}
}

// Kind implements Object.
func (*AmbientLight) Kind() NodeKind { return KindLight }

func (l *AmbientLight) release() int { return boolCount(l.resource.release()) }

// AxesHelper draws the X (red), Y (green) and Z (blue) axes from its node's
// origin out to Size.
type AxesHelper struct {
	resource

	Size float64
}

// NewAxesHelper creates an axes helper of the given length.
func NewAxesHelper(size float64) *AxesHelper {
	return &AxesHelper{Size: size}
}

// Kind implements Object.
func (*AxesHelper) Kind() NodeKind { return KindHelper }

func (h *AxesHelper) release() int { return boolCount(h.resource.release()) }

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
