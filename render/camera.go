package render

import (
	"math"

	"github.com/echoflaresat/orrery/vectors"
)

// Camera models a free-roaming pinhole camera in scene coordinates
// (Y up). Its basis is rebuilt from a look-at point, so orientation is
// always derived, never accumulated.
type Camera struct {
	FOVDeg     float64
	TanHalfFOV float64
	Aspect     float64
	Position   vectors.Vec3
	Forward    vectors.Vec3
	Right      vectors.Vec3
	Up         vectors.Vec3
}

// NewCamera constructs a camera at pos looking at target with the given
// vertical field of view in degrees and a square aspect.
func NewCamera(pos, target vectors.Vec3, fovDeg float64) *Camera {
	fovRad := fovDeg * math.Pi / 180.0
	c := &Camera{
		FOVDeg:     fovDeg,
		TanHalfFOV: math.Tan(fovRad / 2.0),
		Aspect:     1.0,
		Position:   pos,
	}
	c.LookAt(target)
	return c
}

// LookAt rebuilds the orthonormal basis so Forward points from the
// camera position to target.
func (c *Camera) LookAt(target vectors.Vec3) {
	fwd := target.Sub(c.Position).Normalize()
	if fwd.Norm() == 0 {
		fwd = vectors.Vec3{Z: -1}
	}
	globalUp := vectors.Vec3{Y: 1}
	right := fwd.Cross(globalUp)
	if right.Norm() < 1e-6 {
		right = vectors.Vec3{X: 1} // looking straight up or down
	}
	right = right.Normalize()
	up := right.Cross(fwd).Normalize()

	c.Forward = fwd
	c.Right = right
	c.Up = up
}

// SetAspect sets the width/height aspect ratio used by ray generation
// and projection.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// ComputeRay returns the normalized viewing direction for pixel (i,j)
// given the image dimensions (width,height). i,j can be fractional (for
// supersampling).
func (c *Camera) ComputeRay(i, j float64, width, height int) vectors.Vec3 {
	w := float64(width)
	h := float64(height)

	// NDC in [-1, +1] (centered), flip Y to make +up in screen space.
	xNDC := (i - (w-1)/2.0) / ((w - 1) / 2.0)
	yNDC := -((j - (h-1)/2.0) / ((h - 1) / 2.0))

	xPlane := xNDC * c.TanHalfFOV * c.Aspect
	yPlane := yNDC * c.TanHalfFOV
	zPlane := 1.0

	dir := c.Right.Scale(xPlane).
		Add(c.Up.Scale(yPlane)).
		Add(c.Forward.Scale(zPlane))

	return dir.Normalize()
}

// Project maps a world point to pixel coordinates. ok is false when the
// point is behind the camera. Project is the exact inverse of
// ComputeRay's pixel mapping, so overlay labels land on the same spot
// the ray tracer shades.
func (c *Camera) Project(p vectors.Vec3, width, height int) (x, y float64, ok bool) {
	rel := p.Sub(c.Position)
	z := rel.Dot(c.Forward)
	if z <= 1e-9 {
		return 0, 0, false
	}
	xNDC := rel.Dot(c.Right) / (z * c.TanHalfFOV * c.Aspect)
	yNDC := rel.Dot(c.Up) / (z * c.TanHalfFOV)

	w := float64(width)
	h := float64(height)
	x = xNDC*((w-1)/2.0) + (w-1)/2.0
	y = -yNDC*((h-1)/2.0) + (h-1)/2.0
	return x, y, true
}
