package orrery

// Texture asset names understood by MaterialLoader implementations. Paths are
// relative to the loader's asset root.
const (
	TextureSun     = "sun.png"
	TextureMercury = "mercury.png"
	TextureVenus   = "venus.png"
	TextureEarth   = "earth.png"
	TextureMars    = "mars.png"
	TextureMoon    = "moon.png"
)

// SkyboxFaces lists the background cube faces in CubePosX..CubeNegZ order.
var SkyboxFaces = [6]string{
	"milkyway-cubemap/px.png",
	"milkyway-cubemap/nx.png",
	"milkyway-cubemap/py.png",
	"milkyway-cubemap/ny.png",
	"milkyway-cubemap/pz.png",
	"milkyway-cubemap/nz.png",
}

// MaterialLoader binds texture assets. Load never fails: an asset that
// cannot be read yields the loader's fallback texture.
type MaterialLoader interface {
	Load(name string) *Texture
}

// CelestialBody is one catalog entry. Distance is measured from the parent
// (the Sun for planets); AngularSpeed is in radians per second.
type CelestialBody struct {
	Name         string
	Radius       float64
	Distance     float64
	AngularSpeed float64
	Material     *Material
	Satellites   []CelestialBody
}

// DefaultCatalog returns the inner solar system: Mercury, Venus, Earth with
// the Moon, and Mars with Phobos and Deimos. Each call binds fresh materials
// through loader.
func DefaultCatalog(loader MaterialLoader) []CelestialBody {
	standard := func(texture string) *Material {
		return NewStandardMaterial(loader.Load(texture))
	}
	return []CelestialBody{
		{
			Name:         "Mercury",
			Distance:     10,
			Radius:       0.3,
			AngularSpeed: 0.5,
			Material:     standard(TextureMercury),
		},
		{
			Name:         "Venus",
			Distance:     18,
			Radius:       0.8,
			AngularSpeed: 0.3,
			Material:     standard(TextureVenus),
		},
		{
			Name:         "Earth",
			Distance:     30,
			Radius:       1,
			AngularSpeed: 0.1,
			Material:     standard(TextureEarth),
			Satellites: []CelestialBody{
				{
					Name:         "Moon",
					Distance:     5,
					Radius:       0.3,
					AngularSpeed: 0.5,
					Material:     standard(TextureMoon),
				},
			},
		},
		{
			Name:         "Mars",
			Distance:     50,
			Radius:       0.6,
			AngularSpeed: 0.08,
			Material:     standard(TextureMars),
			Satellites: []CelestialBody{
				{
					Name:         "Phobos",
					Distance:     5,
					Radius:       0.3,
					AngularSpeed: 0.8,
					Material:     standard(TextureMoon),
				},
				{
					Name:         "Deimos",
					Distance:     10,
					Radius:       0.3,
					AngularSpeed: 0.5,
					Material:     standard(TextureMoon),
				},
			},
		},
	}
}
