package orrery

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is wrapped by every catalog validation failure.
var ErrInvalidCatalog = errors.New("orrery: invalid catalog")

// SunName is reserved for the builder's central star.
const SunName = "Sun"

// bodyFile is the on-disk form of a CelestialBody.
type bodyFile struct {
	Name         string     `yaml:"name"`
	Radius       float64    `yaml:"radius"`
	Distance     float64    `yaml:"distance"`
	AngularSpeed float64    `yaml:"angular_speed"`
	Texture      string     `yaml:"texture"`
	Color        string     `yaml:"color"`
	Satellites   []bodyFile `yaml:"satellites"`
}

type catalogFile struct {
	Bodies []bodyFile `yaml:"bodies"`
}

// LoadCatalog parses a YAML catalog and binds each body's texture through
// loader:
//
//	bodies:
//	  - name: Earth
//	    radius: 1
//	    distance: 30
//	    angular_speed: 0.1
//	    texture: earth.png
//	    satellites:
//	      - {name: Moon, radius: 0.3, distance: 5, angular_speed: 0.5, texture: moon.png}
func LoadCatalog(data []byte, loader MaterialLoader) ([]CelestialBody, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	bodies := make([]CelestialBody, 0, len(f.Bodies))
	for _, bf := range f.Bodies {
		b, err := bf.toBody(loader)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	if err := ValidateCatalog(bodies); err != nil {
		return nil, err
	}
	return bodies, nil
}

// LoadCatalogFile reads and parses a YAML catalog from path.
func LoadCatalogFile(path string, loader MaterialLoader) ([]CelestialBody, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return LoadCatalog(data, loader)
}

func (bf bodyFile) toBody(loader MaterialLoader) (CelestialBody, error) {
	var tex *Texture
	if bf.Texture != "" && loader != nil {
		tex = loader.Load(bf.Texture)
	}
	mat := NewStandardMaterial(tex)
	if bf.Color != "" {
		c, err := ParseColorHex(bf.Color)
		if err != nil {
			return CelestialBody{}, fmt.Errorf("%w: body %q: %w", ErrInvalidCatalog, bf.Name, err)
		}
		mat.Color = c
	}
	b := CelestialBody{
		Name:         bf.Name,
		Radius:       bf.Radius,
		Distance:     bf.Distance,
		AngularSpeed: bf.AngularSpeed,
		Material:     mat,
	}
	for _, sf := range bf.Satellites {
		s, err := sf.toBody(loader)
		if err != nil {
			return CelestialBody{}, err
		}
		b.Satellites = append(b.Satellites, s)
	}
	return b, nil
}

// ValidateCatalog checks that names are unique and non-empty, radii are
// positive, distances are non-negative, and satellites do not nest deeper
// than one level (the frame loop animates planets and their moons only).
func ValidateCatalog(bodies []CelestialBody) error {
	seen := make(map[string]bool)
	var check func(b CelestialBody, depth int) error
	check = func(b CelestialBody, depth int) error {
		switch {
		case b.Name == "":
			return fmt.Errorf("%w: body with empty name", ErrInvalidCatalog)
		case b.Name == SunName:
			return fmt.Errorf("%w: name %q is reserved", ErrInvalidCatalog, SunName)
		case seen[b.Name]:
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidCatalog, b.Name)
		case !(b.Radius > 0):
			return fmt.Errorf("%w: body %q: radius must be > 0, got %v", ErrInvalidCatalog, b.Name, b.Radius)
		case !(b.Distance >= 0):
			return fmt.Errorf("%w: body %q: distance must be >= 0, got %v", ErrInvalidCatalog, b.Name, b.Distance)
		case depth > 1 && len(b.Satellites) > 0:
			return fmt.Errorf("%w: body %q: satellites nest too deep", ErrInvalidCatalog, b.Name)
		}
		seen[b.Name] = true
		for _, s := range b.Satellites {
			if err := check(s, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, b := range bodies {
		if err := check(b, 1); err != nil {
			return err
		}
	}
	return nil
}
