package render

import (
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

// DefaultDamping matches the smoothing the scene was tuned with.
const DefaultDamping = 0.05

// Controller owns the camera's mutable focus target and advances the
// damped look-at interpolation once per frame. The target set by Focus
// is captured by value: later motion of the selected body does not move
// an already captured target.
type Controller struct {
	Cam *Camera

	// Damping in [0,1) is the per-frame interpolation weight toward
	// the focus target. Enabled false makes retargeting instantaneous.
	Damping float64
	Enabled bool

	lookAt vectors.Vec3 // current interpolated look-at point
	target vectors.Vec3 // the focus target
}

// NewController returns a controller looking at the origin with
// damping enabled.
func NewController(cam *Camera) *Controller {
	return &Controller{
		Cam:     cam,
		Damping: DefaultDamping,
		Enabled: true,
	}
}

// Focus sets the camera focus target to the given world point.
func (c *Controller) Focus(p vectors.Vec3) {
	c.target = p
}

// FocusBody samples the body's world position now, walking all
// ancestor transforms, and sets it as the focus target. Camera
// distance and zoom are deliberately untouched.
func (c *Controller) FocusBody(b *scene.Body) {
	c.Focus(b.WorldPosition())
}

// Target returns the current focus target.
func (c *Controller) Target() vectors.Vec3 {
	return c.target
}

// LookAt returns the current interpolated look-at point.
func (c *Controller) LookAt() vectors.Vec3 {
	return c.lookAt
}

// Update advances the interpolation one frame and reorients the camera.
func (c *Controller) Update() {
	if c.Enabled && c.Damping > 0 && c.Damping < 1 {
		c.lookAt = c.lookAt.Lerp(c.target, c.Damping)
	} else {
		c.lookAt = c.target
	}
	c.Cam.LookAt(c.lookAt)
}
