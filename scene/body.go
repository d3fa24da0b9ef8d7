package scene

import (
	"math"

	"github.com/echoflaresat/orrery/body"
	"github.com/echoflaresat/orrery/vectors"
)

// Ring geometry and label placement are proportional to the body
// radius. The orbit damping factor is a visual constant, not physics.
const (
	RingInnerRatio   = 1.3
	RingOuterRatio   = 2.0
	LabelOffsetRatio = 1.5
	OrbitDamping     = 0.5
)

// Body is one celestial body at runtime: its descriptor, the transform
// nodes it owns, and the motion policy that advances it each tick.
type Body struct {
	Desc body.Descriptor

	// Pivot is the zero-geometry node at the scene origin whose Yaw is
	// advanced to drive the orbit. Nil for the central body and for
	// parametric bodies.
	Pivot *Node

	// Mesh is the sphere node. Its Yaw accumulates self-rotation; for
	// pivot bodies its Pos is the fixed (OrbitRadius, 0, 0) offset, for
	// parametric bodies Pos is rewritten from the closed form each tick.
	Mesh *Node

	// Ring is the flat annulus node, a child of Mesh so it inherits
	// spin and orbit. Nil unless the descriptor has a ring.
	Ring *Node

	// Label is the anchor the 2D overlay projects, a child of Mesh
	// offset along +Y.
	Label *Node

	// Facing is the billboard normal of a parametric body, re-derived
	// from the camera position every tick rather than accumulated.
	Facing vectors.Vec3

	Motion Motion
}

// WorldPosition returns the mesh center in world space at this instant.
func (b *Body) WorldPosition() vectors.Vec3 {
	return b.Mesh.WorldPosition()
}

// RingInner returns the inner annulus radius, or 0 without a ring.
func (b *Body) RingInner() float64 {
	if b.Ring == nil {
		return 0
	}
	return RingInnerRatio * b.Desc.Radius
}

// RingOuter returns the outer annulus radius, or 0 without a ring.
func (b *Body) RingOuter() float64 {
	if b.Ring == nil {
		return 0
	}
	return RingOuterRatio * b.Desc.Radius
}

// Motion advances one body by one tick. scale is 1 in the default
// frame-based mode and delta/reference in time-scaled mode; elapsed is
// total simulated seconds since start; eye is the current camera
// position, needed only by billboarding policies.
type Motion interface {
	Advance(b *Body, scale, elapsed float64, eye vectors.Vec3)
}

// OrbitalPivot is the default accumulated-angle policy: spin the mesh
// by SpinSpeed and the orbit pivot by OrbitSpeed damped by
// OrbitDamping, once per tick.
type OrbitalPivot struct {
	OrbitSpeed float64
	SpinSpeed  float64
}

func (m OrbitalPivot) Advance(b *Body, scale, elapsed float64, eye vectors.Vec3) {
	b.Mesh.Yaw += m.SpinSpeed * scale
	if b.Pivot != nil {
		b.Pivot.Yaw += m.OrbitSpeed * OrbitDamping * scale
	}
}

// ParametricPath places the body on a tilted ellipse parameterized
// directly by elapsed time, and turns it to face the camera. Position
// and orientation are both closed-form: nothing accumulates, so the
// body cannot drift.
type ParametricPath struct {
	Path body.Path
}

func (m ParametricPath) Advance(b *Body, scale, elapsed float64, eye vectors.Vec3) {
	a := elapsed * m.Path.Speed
	x := math.Cos(a) * m.Path.RadiusX
	rawZ := math.Sin(a) * m.Path.RadiusZ
	b.Mesh.Pos = vectors.Vec3{
		X: x,
		Y: rawZ * math.Sin(m.Path.Tilt),
		Z: rawZ * math.Cos(m.Path.Tilt),
	}
	b.Facing = eye.Sub(b.Mesh.WorldPosition()).Normalize()
}
