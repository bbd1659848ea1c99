package orrery

// MaterialKind selects how a material responds to scene lights.
type MaterialKind uint8

const (
	MaterialBasic    MaterialKind = iota // unlit: color * map
	MaterialStandard                     // lit by ambient and point lights
)

// Material describes the surface of a mesh. Map may be nil, in which case
// only Color is used.
type Material struct {
	resource

	Kind  MaterialKind
	Color Color
	Map   *Texture
}

// NewBasicMaterial creates an unlit material tinted by color.
func NewBasicMaterial(color Color, m *Texture) *Material {
	return &Material{Kind: MaterialBasic, Color: color, Map: m}
}

// NewStandardMaterial creates a lit material with a white tint.
func NewStandardMaterial(m *Texture) *Material {
	return &Material{Kind: MaterialStandard, Color: ColorWhite, Map: m}
}

// Lit reports whether the material is affected by lights.
func (m *Material) Lit() bool {
	return m.Kind == MaterialStandard
}
