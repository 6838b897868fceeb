package icon

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// Loader resolves a source name to a decoded bitmap. Implementations that
// fetch over the network may return long after Resolve; the registry keeps
// the asset in the loading state until then.
type Loader interface {
	Load(src string) (image.Image, error)
}

// Registry deduplicates icon assets by source name and applies a fixed
// display density to every decoded image.
type Registry struct {
	mu      sync.Mutex
	assets  map[string]*Asset
	loader  Loader
	density float64
}

// NewRegistry creates a registry. A nil loader leaves every resolved asset
// in the loading state until the host marks it ready. Density scales
// decoded images for the display (1 = native size).
func NewRegistry(loader Loader, density float64) *Registry {
	if density <= 0 {
		density = 1
	}
	return &Registry{
		assets:  make(map[string]*Asset),
		loader:  loader,
		density: density,
	}
}

// Resolve returns the asset for a source name, creating it on first use.
// With a loader configured the asset is loaded synchronously on creation;
// load failures leave a silently failed asset, never an error.
func (r *Registry) Resolve(src string) *Asset {
	r.mu.Lock()
	if a, ok := r.assets[src]; ok {
		r.mu.Unlock()
		return a
	}
	a := &Asset{src: src}
	r.assets[src] = a
	loader := r.loader
	r.mu.Unlock()

	if loader != nil {
		img, err := loader.Load(src)
		if err != nil || img == nil {
			a.MarkFailed()
		} else {
			a.MarkReady(r.scaleForDensity(img))
		}
	}
	return a
}

// Density returns the registry's display density.
func (r *Registry) Density() float64 {
	return r.density
}

// scaleForDensity resizes the image by the display density using
// Catmull-Rom interpolation. Density 1 keeps the image as decoded.
func (r *Registry) scaleForDensity(img image.Image) image.Image {
	if r.density == 1 {
		return img
	}
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * r.density))
	h := int(math.Round(float64(b.Dy()) * r.density))
	if w < 1 || h < 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// FileLoader loads icon images from a directory. PNG, JPEG and WebP are
// supported; anything else fails the asset.
type FileLoader struct {
	Dir string
}

// Load opens and decodes the named image file.
func (l FileLoader) Load(src string) (image.Image, error) {
	f, err := os.Open(filepath.Join(l.Dir, filepath.Clean(src)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, src)
}

// Decode decodes an image stream, selecting the codec from the source
// name's extension.
func Decode(r io.Reader, src string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".webp":
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported icon image type: %s", src)
	}
}
