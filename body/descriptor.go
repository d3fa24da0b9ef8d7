package body

import (
	"errors"
	"fmt"

	"github.com/echoflaresat/orrery/colors"
)

// ErrInvalidDescriptor marks a malformed static body configuration.
// Scene construction fails fast on the first descriptor that wraps it.
var ErrInvalidDescriptor = errors.New("invalid body descriptor")

// Path describes the closed-form elliptical track of a decorative body
// that bypasses the pivot system. The ellipse has semi-axes RadiusX and
// RadiusZ, is tilted about the X axis by Tilt radians, and is
// parameterized directly by elapsed time times Speed.
type Path struct {
	RadiusX float64
	RadiusZ float64
	Speed   float64
	Tilt    float64
}

// Descriptor is the static configuration of one celestial body. All
// fields are compile-time constants; the only runtime state derived from
// them is the pair of accumulated angles owned by the scene.
type Descriptor struct {
	Name    string
	Radius  float64
	Color   colors.Color4
	Central bool
	HasRing bool

	// OrbitRadius is the distance from the scene origin to the body
	// mesh. Zero (absent) for the central body, positive otherwise.
	OrbitRadius float64

	// OrbitSpeed and SpinSpeed are radians added per tick to the orbit
	// pivot and to the body's self-rotation, respectively.
	OrbitSpeed float64
	SpinSpeed  float64

	// TexturePath optionally names a surface texture. A missing or
	// unreadable file degrades to the flat Color, it never fails the
	// build.
	TexturePath string

	// Parametric switches the body from the pivot system to the
	// closed-form Path. Parametric bodies ignore OrbitRadius/OrbitSpeed
	// and re-derive their orientation toward the camera every tick.
	Parametric bool
	Path       Path
}

// Validate checks the invariants that hold for every well-formed
// descriptor. All returned errors wrap ErrInvalidDescriptor.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: unnamed body", ErrInvalidDescriptor)
	}
	if d.Radius <= 0 {
		return fmt.Errorf("%w: %s: radius %v must be positive", ErrInvalidDescriptor, d.Name, d.Radius)
	}
	if d.Central {
		if d.OrbitRadius != 0 || d.OrbitSpeed != 0 {
			return fmt.Errorf("%w: %s: central body cannot orbit", ErrInvalidDescriptor, d.Name)
		}
		if d.Parametric {
			return fmt.Errorf("%w: %s: central body cannot follow a parametric path", ErrInvalidDescriptor, d.Name)
		}
		return nil
	}
	if d.Parametric {
		if d.Path.RadiusX <= 0 || d.Path.RadiusZ <= 0 {
			return fmt.Errorf("%w: %s: parametric path needs positive semi-axes", ErrInvalidDescriptor, d.Name)
		}
		return nil
	}
	if d.OrbitRadius <= 0 {
		return fmt.Errorf("%w: %s: non-central body needs a positive orbit radius", ErrInvalidDescriptor, d.Name)
	}
	return nil
}

// ValidateAll validates a whole catalog, additionally rejecting
// duplicate names and more than one central body.
func ValidateAll(descs []Descriptor) error {
	seen := make(map[string]bool, len(descs))
	central := 0
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate body name %q", ErrInvalidDescriptor, d.Name)
		}
		seen[d.Name] = true
		if d.Central {
			central++
		}
	}
	if central > 1 {
		return fmt.Errorf("%w: %d central bodies, want at most one", ErrInvalidDescriptor, central)
	}
	return nil
}
