package orrery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // texture formats
	_ "image/png"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"golang.org/x/sync/errgroup"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnknownTexture is returned when an asset is not a decodable image.
var ErrUnknownTexture = errors.New("orrery: unknown texture format")

// preloadWorkers bounds concurrent decodes in Preload.
const preloadWorkers = 4

// TextureLoader decodes texture assets from a file system. Decoded images
// are cached by name; every Load returns a fresh Texture handle so each
// material owns and disposes its own map. It implements MaterialLoader.
type TextureLoader struct {
	fsys fs.FS
	log  *slog.Logger

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewTextureLoader creates a loader reading from fsys.
func NewTextureLoader(fsys fs.FS, log *slog.Logger) *TextureLoader {
	if log == nil {
		log = slog.Default()
	}
	return &TextureLoader{
		fsys:  fsys,
		log:   log.With("component", "assets"),
		cache: make(map[string]image.Image),
	}
}

// Load returns a texture for name. Assets that cannot be read or decoded
// fall back to a checkerboard and are logged.
func (l *TextureLoader) Load(name string) *Texture {
	img, err := l.Decode(name)
	if err != nil {
		l.log.Warn("texture fallback", "name", name, "err", err)
		img = fallbackImage()
	}
	return NewTexture(name, img)
}

// Decode returns the decoded image for name, decoding it on first use.
func (l *TextureLoader) Decode(name string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[name]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read texture %s: %w", name, err)
	}
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnknownTexture, name, kind.MIME.Value)
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = img
	l.mu.Unlock()
	return img, nil
}

// Preload decodes names concurrently so later Loads hit the cache. It
// returns the first error; the remaining decodes are abandoned.
func (l *TextureLoader) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadWorkers)
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := l.Decode(name)
			return err
		})
	}
	return g.Wait()
}

// LoadCube loads six faces in CubePosX..CubeNegZ order. Faces are resized
// to a common square edge, the smallest edge among them, so the sky has no
// visible seams.
func (l *TextureLoader) LoadCube(faces [6]string) *CubeTexture {
	var imgs [6]image.Image
	edge := 0
	for i, name := range faces {
		img, err := l.Decode(name)
		if err != nil {
			l.log.Warn("cube face fallback", "name", name, "err", err)
			img = fallbackImage()
		}
		imgs[i] = img
		b := img.Bounds()
		if e := min(b.Dx(), b.Dy()); edge == 0 || e < edge {
			edge = e
		}
	}

	cube := &CubeTexture{}
	for i, img := range imgs {
		if b := img.Bounds(); b.Dx() != edge || b.Dy() != edge {
			img = transform.Resize(img, edge, edge, transform.Linear)
		}
		cube.Faces[i] = NewTexture(faces[i], img)
	}
	return cube
}

// Invalidate drops cached images for names, or the whole cache when called
// without names.
func (l *TextureLoader) Invalidate(names ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(names) == 0 {
		clear(l.cache)
		return
	}
	for _, name := range names {
		delete(l.cache, name)
	}
}

// Cached reports whether name has been decoded.
func (l *TextureLoader) Cached(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[name]
	return ok
}

const fallbackSize = 16

var (
	fallbackOnce sync.Once
	fallbackImg  image.Image
)

// fallbackImage is a grey checkerboard standing in for a missing texture.
func fallbackImage() image.Image {
	fallbackOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, fallbackSize, fallbackSize))
		light := color.RGBA{0x99, 0x99, 0x99, 0xff}
		dark := color.RGBA{0x55, 0x55, 0x55, 0xff}
		for y := 0; y < fallbackSize; y++ {
			for x := 0; x < fallbackSize; x++ {
				if (x/4+y/4)%2 == 0 {
					img.SetRGBA(x, y, light)
				} else {
					img.SetRGBA(x, y, dark)
				}
			}
		}
		fallbackImg = img
	})
	return fallbackImg
}
