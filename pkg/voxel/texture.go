package voxel

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
)

const (
	proceduralSize = 16
	// loaded images larger than this are resampled down; block faces
	// never need more detail and smaller textures keep sampling cheap
	maxTextureSize = 64
)

// Texture is a small color atlas sampled per voxel face. It is either
// decoded from a PNG on disk or generated procedurally, and is shared
// read-only by all render workers.
type Texture struct {
	pixels        []geom.Color
	width, height int
	fallback      geom.Color

	// decoded images are sampled bilinearly; procedural pixel patterns
	// keep their hard edges
	smooth bool
}

var (
	textureCacheMu sync.Mutex
	textureCache   = map[string]*Texture{}
)

// NewTexture returns the texture for a material, loading
// <dir>/<name>.png when present and falling back to the material's
// procedural pattern. Results are cached process-wide by name.
func NewTexture(dir, name string, fallback geom.Color) *Texture {
	textureCacheMu.Lock()
	defer textureCacheMu.Unlock()

	if tex, ok := textureCache[name]; ok {
		return tex
	}

	var tex *Texture
	if dir != "" {
		if img, err := loadPNG(filepath.Join(dir, name+".png")); err == nil {
			tex = fromImage(img, fallback)
		}
	}
	if tex == nil {
		tex = procedural(name, fallback)
	}
	textureCache[name] = tex
	return tex
}

// solid creates a single-pixel texture of one color
func solid(c geom.Color) *Texture {
	return &Texture{pixels: []geom.Color{c}, width: 1, height: 1, fallback: c}
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func fromImage(img image.Image, fallback geom.Color) *Texture {
	b := img.Bounds()
	if b.Dx() > maxTextureSize || b.Dy() > maxTextureSize {
		dst := image.NewRGBA(image.Rect(0, 0, maxTextureSize, maxTextureSize))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
		b = dst.Bounds()
	}

	w, h := b.Dx(), b.Dy()
	pixels := make([]geom.Color, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			pixels = append(pixels, geom.NewColor(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(bb)/65535.0,
			))
		}
	}
	return &Texture{pixels: pixels, width: w, height: h, fallback: fallback, smooth: true}
}

// procedural generates the 16x16 pattern used when no image exists on
// disk. Each material family gets its own noise signature.
func procedural(name string, base geom.Color) *Texture {
	size := proceduralSize
	pixels := make([]geom.Color, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			factor := patternFor(name, x, y, size)
			pixels = append(pixels, base.Multiply(factor).Clamp(0, 1))
		}
	}
	return &Texture{pixels: pixels, width: size, height: size, fallback: base}
}

func patternFor(name string, x, y, size int) float64 {
	fx := float64(x) / float64(size)
	fy := float64(y) / float64(size)

	contains := func(sub string) bool { return strings.Contains(name, sub) }

	switch {
	case contains("grass"):
		return 0.8 + math.Sin(fx*8+fy*6)*0.2
	case contains("glowing"):
		return 1.2 + math.Sin(fx*6+fy*6)*0.4
	case contains("stone"):
		blockX := math.Floor(fx * 4)
		blockY := math.Floor(fy * 4)
		return 0.9 + math.Mod(blockX+blockY, 2)*0.1
	case contains("gold"):
		return 1.0 + math.Sin(fx*16)*math.Cos(fy*16)*0.15
	case contains("obsidian"):
		return 0.7 + math.Sin(fx*12+fy*8)*0.3
	case contains("magma"):
		return 1.0 + math.Sin(fx*10)*math.Cos(fy*8)*0.3
	case contains("dirt"):
		return 0.85 + math.Sin(fx*12+fy*10)*0.15
	case contains("netherrack"):
		return 0.9 + math.Cos(fx*14)*math.Sin(fy*11)*0.25
	default:
		return 0.9 + math.Sin(fx*8+fy*8)*0.1
	}
}

// Sample reads the texture at a UV with the filter matching its origin
func (t *Texture) Sample(u, v float64) geom.Color {
	if t.smooth {
		return t.Bilinear(u, v)
	}
	return t.Nearest(u, v)
}

// Nearest samples the texture at a UV with nearest-neighbor filtering.
// UVs wrap to [0,1).
func (t *Texture) Nearest(u, v float64) geom.Color {
	if len(t.pixels) <= 1 {
		return t.fallback
	}
	x := int(wrap01(u) * float64(t.width))
	y := int(wrap01(v) * float64(t.height))
	x = min(x, t.width-1)
	y = min(y, t.height-1)
	return t.pixels[y*t.width+x]
}

// Bilinear samples the texture at a UV with bilinear filtering
func (t *Texture) Bilinear(u, v float64) geom.Color {
	if len(t.pixels) <= 1 {
		return t.fallback
	}
	tx := wrap01(u) * float64(t.width-1)
	ty := wrap01(v) * float64(t.height-1)

	x0, y0 := int(tx), int(ty)
	x1 := min(x0+1, t.width-1)
	y1 := min(y0+1, t.height-1)
	fx := tx - float64(x0)
	fy := ty - float64(y0)

	c00 := t.pixels[y0*t.width+x0]
	c10 := t.pixels[y0*t.width+x1]
	c01 := t.pixels[y1*t.width+x0]
	c11 := t.pixels[y1*t.width+x1]

	top := c00.Multiply(1 - fx).Add(c10.Multiply(fx))
	bottom := c01.Multiply(1 - fx).Add(c11.Multiply(fx))
	return top.Multiply(1 - fy).Add(bottom.Multiply(fy))
}

func wrap01(v float64) float64 {
	w := v - math.Floor(v)
	if w < 0 {
		w += 1
	}
	return w
}

// ResetTextureCache clears the process-wide texture cache. Only used by
// tests that exercise both the PNG and procedural paths.
func ResetTextureCache() {
	textureCacheMu.Lock()
	textureCache = map[string]*Texture{}
	textureCacheMu.Unlock()
}
