package body

import (
	"math"

	"github.com/echoflaresat/orrery/colors"
)

// Catalog returns the default solar-system body set: the Sun at the
// origin, the eight planets on circular orbits, a ring on Saturn, and a
// comet on a tilted closed-form ellipse. Radii and distances are stage
// units picked for legibility, not astronomy.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:        "Sun",
			Radius:      16,
			Color:       colors.New(0.99, 0.75, 0.21, 1.0),
			Central:     true,
			SpinSpeed:   0.004,
			TexturePath: "assets/sun.jpg",
		},
		{
			Name:        "Mercury",
			Radius:      3.2,
			Color:       colors.New(0.66, 0.62, 0.59, 1.0),
			OrbitRadius: 28,
			OrbitSpeed:  0.04,
			SpinSpeed:   0.004,
			TexturePath: "assets/mercury.jpg",
		},
		{
			Name:        "Venus",
			Radius:      5.8,
			Color:       colors.New(0.90, 0.77, 0.55, 1.0),
			OrbitRadius: 44,
			OrbitSpeed:  0.015,
			SpinSpeed:   0.002,
			TexturePath: "assets/venus.jpg",
		},
		{
			Name:        "Earth",
			Radius:      6,
			Color:       colors.New(0.24, 0.47, 0.76, 1.0),
			OrbitRadius: 62,
			OrbitSpeed:  0.01,
			SpinSpeed:   0.02,
			TexturePath: "assets/earth.jpg",
		},
		{
			Name:        "Mars",
			Radius:      4,
			Color:       colors.New(0.80, 0.38, 0.22, 1.0),
			OrbitRadius: 78,
			OrbitSpeed:  0.008,
			SpinSpeed:   0.018,
			TexturePath: "assets/mars.jpg",
		},
		{
			Name:        "Jupiter",
			Radius:      12,
			Color:       colors.New(0.83, 0.69, 0.52, 1.0),
			OrbitRadius: 100,
			OrbitSpeed:  0.002,
			SpinSpeed:   0.04,
			TexturePath: "assets/jupiter.jpg",
		},
		{
			Name:        "Saturn",
			Radius:      10,
			Color:       colors.New(0.89, 0.80, 0.60, 1.0),
			HasRing:     true,
			OrbitRadius: 138,
			OrbitSpeed:  0.0009,
			SpinSpeed:   0.038,
			TexturePath: "assets/saturn.jpg",
		},
		{
			Name:        "Uranus",
			Radius:      7,
			Color:       colors.New(0.62, 0.83, 0.88, 1.0),
			OrbitRadius: 176,
			OrbitSpeed:  0.0004,
			SpinSpeed:   0.03,
			TexturePath: "assets/uranus.jpg",
		},
		{
			Name:        "Neptune",
			Radius:      7,
			Color:       colors.New(0.25, 0.41, 0.87, 1.0),
			OrbitRadius: 200,
			OrbitSpeed:  0.0001,
			SpinSpeed:   0.032,
			TexturePath: "assets/neptune.jpg",
		},
		{
			Name:       "Halley",
			Radius:     2.5,
			Color:      colors.New(0.80, 0.86, 0.94, 1.0),
			Parametric: true,
			SpinSpeed:  0,
			Path: Path{
				RadiusX: 300,
				RadiusZ: 200,
				Speed:   0.1,
				Tilt:    math.Pi / 6,
			},
		},
	}
}
