package orrery

import "image"

// Texture is a decoded image bound to materials or the sky background.
// Image is treated as immutable once the texture is created; renderers
// upload it lazily and free their copy through OnDispose.
type Texture struct {
	resource

	Name  string
	Image image.Image
}

// NewTexture wraps a decoded image in a disposable texture handle.
func NewTexture(name string, img image.Image) *Texture {
	return &Texture{Name: name, Image: img}
}

// Size returns the pixel dimensions of the texture image, or 0, 0 when the
// image is missing.
func (t *Texture) Size() (int, int) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Cube face indices, in the order face images are supplied to LoadCube.
const (
	CubePosX = iota
	CubeNegX
	CubePosY
	CubeNegY
	CubePosZ
	CubeNegZ
)

// CubeTexture is a six-face sky background.
type CubeTexture struct {
	resource

	Faces [6]*Texture
}

// Dispose releases the cube and each of its faces. Safe to call more than once.
func (c *CubeTexture) Dispose() {
	c.releaseAll()
}

// releaseAll releases the cube and its faces and returns how many handles
// this call freed.
func (c *CubeTexture) releaseAll() int {
	if !c.release() {
		return 0
	}
	n := 1
	for _, f := range c.Faces {
		if f != nil && f.release() {
			n++
		}
	}
	return n
}
