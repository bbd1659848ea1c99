package orrery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
bodies:
  - name: Earth
    radius: 1
    distance: 30
    angular_speed: 0.1
    texture: earth.png
    satellites:
      - {name: Moon, radius: 0.3, distance: 5, angular_speed: 0.5, texture: moon.png}
  - name: Vulcan
    radius: 0.2
    distance: 4
    angular_speed: -1.5
    color: "#ff8800"
`

func TestLoadCatalog(t *testing.T) {
	loader := &recordingLoader{}
	bodies, err := LoadCatalog([]byte(testCatalogYAML), loader)
	require.NoError(t, err)
	require.Len(t, bodies, 2)

	earth := bodies[0]
	assert.Equal(t, "Earth", earth.Name)
	assert.Equal(t, 30.0, earth.Distance)
	require.Len(t, earth.Satellites, 1)
	assert.Equal(t, "Moon", earth.Satellites[0].Name)
	assert.Equal(t, 0.5, earth.Satellites[0].AngularSpeed)
	assert.True(t, earth.Material.Lit())
	assert.Equal(t, TextureEarth, earth.Material.Map.Name)

	vulcan := bodies[1]
	assert.Equal(t, -1.5, vulcan.AngularSpeed)
	assert.Nil(t, vulcan.Material.Map)
	assert.Equal(t, ColorHex("#ff8800"), vulcan.Material.Color)

	assert.Equal(t, []string{"earth.png", "moon.png"}, loader.names)
}

func TestLoadCatalogNilLoader(t *testing.T) {
	bodies, err := LoadCatalog([]byte(testCatalogYAML), nil)
	require.NoError(t, err)
	assert.Nil(t, bodies[0].Material.Map)
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o644))

	bodies, err := LoadCatalogFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, bodies, 2)

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCatalogParseError(t *testing.T) {
	_, err := LoadCatalog([]byte("bodies: [unclosed"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoadCatalogBadColor(t *testing.T) {
	_, err := LoadCatalog([]byte(`bodies: [{name: X, radius: 1, color: "#nothex"}]`), nil)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestValidateCatalog(t *testing.T) {
	moon := CelestialBody{Name: "Moon", Radius: 0.3, Distance: 5}
	cases := map[string][]CelestialBody{
		"empty name":   {{Radius: 1}},
		"reserved":     {{Name: SunName, Radius: 1}},
		"duplicate":    {{Name: "A", Radius: 1}, {Name: "A", Radius: 2}},
		"dup sat":      {{Name: "Moon", Radius: 1, Satellites: []CelestialBody{moon}}},
		"zero radius":  {{Name: "A"}},
		"neg distance": {{Name: "A", Radius: 1, Distance: -1}},
		"too deep": {{
			Name: "A", Radius: 1,
			Satellites: []CelestialBody{{
				Name: "B", Radius: 1,
				Satellites: []CelestialBody{{Name: "C", Radius: 1}},
			}},
		}},
	}
	for name, cat := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateCatalog(cat), ErrInvalidCatalog)
		})
	}

	assert.NoError(t, ValidateCatalog(nil))
	assert.NoError(t, ValidateCatalog([]CelestialBody{{Name: "A", Radius: 1, Satellites: []CelestialBody{moon}}}))
}
