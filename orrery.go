package orrery

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorHex parses a "#rrggbb" design color into an opaque Color.
// Panics on malformed input; use ParseColorHex for untrusted strings.
func ColorHex(hex string) Color {
	c, err := ParseColorHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColorHex parses a "#rrggbb" or "#rgb" string into an opaque Color.
func ParseColorHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("orrery: parse color %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// Mul returns the component-wise product of c and o.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Scale multiplies the RGB components by s, leaving alpha untouched.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// RGBA converts c to a straight-alpha color.RGBA, clamping each channel.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: clampByte(c.R * c.A),
		G: clampByte(c.G * c.A),
		B: clampByte(c.B * c.A),
		A: clampByte(c.A),
	}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Vec3 is a 3D vector used for positions, rotations, scales, and directions.
// The coordinate system is right-handed with Y up.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns v scaled by s.
func (v Vec3) Mul(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normal returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec3) Normal() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Uniform returns a Vec3 with every component set to s.
func Uniform(s float64) Vec3 { return Vec3{s, s, s} }

// NodeKind distinguishes the variant held by a Node's Object.
type NodeKind uint8

const (
	KindGroup   NodeKind = iota // container with no visual output
	KindMesh                    // geometry plus one or more materials
	KindLight                   // point or ambient light
	KindHelper                  // debug helper (axes)
)

// String returns the kind name used in logs.
func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	case KindHelper:
		return "helper"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}
