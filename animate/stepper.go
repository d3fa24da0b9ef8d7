package animate

import (
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

// DefaultReferenceFrame is the tick length the per-tick angular speeds
// were tuned against: one tick of a 60 Hz display.
const DefaultReferenceFrame = 1.0 / 60.0

// Stepper advances every body by one tick. The default mode adds each
// body's fixed per-tick increments regardless of wall time, which ties
// animation speed to the tick rate; TimeScaled trades that documented
// behavior for refresh-rate independence by scaling increments with the
// measured delta.
type Stepper struct {
	Bodies []*scene.Body

	// TimeScaled scales increments by delta/ReferenceFrame instead of
	// applying one fixed increment per tick.
	TimeScaled     bool
	ReferenceFrame float64

	// Eye supplies the current camera position for billboarding
	// policies. Nil is fine when no parametric bodies exist.
	Eye func() vectors.Vec3
}

// NewStepper returns a frame-based stepper over bodies. A nil or empty
// body list makes Step a no-op, so the stepper may be started before
// the scene is built.
func NewStepper(bodies []*scene.Body) *Stepper {
	return &Stepper{
		Bodies:         bodies,
		ReferenceFrame: DefaultReferenceFrame,
	}
}

// Step advances all bodies given the wall-clock delta since the last
// tick and the total elapsed simulated time, both in seconds.
func (s *Stepper) Step(delta, elapsed float64) {
	if len(s.Bodies) == 0 {
		return
	}
	scale := 1.0
	if s.TimeScaled && s.ReferenceFrame > 0 {
		scale = delta / s.ReferenceFrame
	}
	var eye vectors.Vec3
	if s.Eye != nil {
		eye = s.Eye()
	}
	for _, b := range s.Bodies {
		b.Motion.Advance(b, scale, elapsed, eye)
	}
}
