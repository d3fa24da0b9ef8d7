package texture

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
	"log"
	"math"
	"os"

	"github.com/echoflaresat/tiff"

	"github.com/echoflaresat/orrery/colors"
)

// Texture is anything that can be sampled in normalized (u,v)
// coordinates, u wrapping around the equator and v running from the
// north pole (0) to the south pole (1).
type Texture interface {
	Sample(u, v float64) colors.Color4
}

// Flat is the placeholder texture: a single color everywhere. Bodies
// whose image asset failed to load degrade to it instead of failing
// the render loop.
type Flat struct {
	C colors.Color4
}

func (f Flat) Sample(u, v float64) colors.Color4 { return f.C }

// imageTexture samples a decoded or memory-mapped image by (u,v).
type imageTexture struct {
	img    image.Image
	width  int
	height int
}

func (t *imageTexture) Sample(u, v float64) colors.Color4 {
	x := int(u * float64(t.width))
	y := int(v * float64(t.height))
	if x < 0 {
		x = 0
	} else if x >= t.width {
		x = t.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.height {
		y = t.height - 1
	}
	return colors.FromStandardColor(t.img.At(x, y))
}

// SphereUV maps a unit surface normal in the body's local frame to
// (u,v) with the usual lon-lat projection.
func SphereUV(nx, ny, nz float64) (u, v float64) {
	u = 0.5 + math.Atan2(nz, nx)/(2*math.Pi)
	v = 0.5 - math.Asin(clamp(ny, -1, 1))/math.Pi
	return u, v
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Store loads and caches body surface textures. Loading never fails:
// a missing or undecodable asset is logged once and replaced with the
// flat fallback color.
type Store struct {
	loaded map[string]Texture
	logger *log.Logger
}

func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		loaded: make(map[string]Texture),
		logger: logger,
	}
}

// Load resolves path to a texture, degrading to Flat{fallback} on any
// error. An empty path is not an error, just a flat-colored body.
func (s *Store) Load(path string, fallback colors.Color4) Texture {
	if path == "" {
		return Flat{C: fallback}
	}
	if t, ok := s.loaded[path]; ok {
		return t
	}
	t, err := open(path)
	if err != nil {
		s.logger.Printf("texture %s: %v; using flat color", path, err)
		t = Flat{C: fallback}
	}
	s.loaded[path] = t
	return t
}

func open(path string) (Texture, error) {
	// Large TIFF assets get the memory-mapped tile reader so only the
	// sampled tiles are ever decompressed.
	if img, err := loadTiled(path); err == nil {
		return &imageTexture{img: img, width: img.Bounds().Dx(), height: img.Bounds().Dy()}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		// fallback to stdlib image codecs
		if _, err2 := f.Seek(0, 0); err2 != nil {
			return nil, err2
		}
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &imageTexture{img: img, width: img.Bounds().Dx(), height: img.Bounds().Dy()}, nil
}
