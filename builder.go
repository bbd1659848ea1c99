package orrery

// PlanetsGroupName is the name of the root group holding every animated
// body. The frame loop finds it by this name.
const PlanetsGroupName = "Planets"

// Sun appearance and sphere tessellation.
const (
	SunScale       = 5.0
	sphereSegments = 32
	sunTintHex     = "#ffae00"
)

// BuildPlanets converts a catalog into the "Planets" group: one mesh node per
// top-level body, each holding its satellites as children, followed by the
// Sun. Every body node carries an Orbit, starts at (Distance, 0, 0) in its
// parent's space and is scaled uniformly by Radius. The Sun has no Orbit.
//
// All meshes share a single unit sphere geometry. loader binds the Sun
// texture.
func BuildPlanets(catalog []CelestialBody, loader MaterialLoader) *Node {
	planets := NewGroup(PlanetsGroupName)
	sphere := NewSphereGeometry(1, sphereSegments, sphereSegments)

	for _, body := range catalog {
		planet := newBodyNode(body, sphere)
		for _, moon := range body.Satellites {
			planet.AddChild(newBodyNode(moon, sphere))
		}
		planets.AddChild(planet)
	}

	var sunMap *Texture
	if loader != nil {
		sunMap = loader.Load(TextureSun)
	}
	sun := NewMeshNode(SunName, sphere, NewBasicMaterial(ColorHex(sunTintHex), sunMap))
	sun.SetScalar(SunScale)
	planets.AddChild(sun)

	return planets
}

func newBodyNode(body CelestialBody, sphere *Geometry) *Node {
	mat := body.Material
	if mat == nil {
		mat = NewStandardMaterial(nil)
	}
	n := NewMeshNode(body.Name, sphere, mat)
	n.Orbit = &Orbit{Distance: body.Distance, AngularSpeed: body.AngularSpeed}
	n.SetScalar(body.Radius)
	n.SetPosition(body.Distance, 0, 0)
	return n
}
