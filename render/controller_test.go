package render

import (
	"math"
	"testing"

	"github.com/echoflaresat/orrery/body"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

func controllerScene(t *testing.T) *scene.Graph {
	t.Helper()
	g, err := scene.Build([]body.Descriptor{
		{Name: "P", Radius: 5, OrbitRadius: 120, OrbitSpeed: 0.015, SpinSpeed: 0.02},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFocusCapturesPositionByValue(t *testing.T) {
	g := controllerScene(t)
	p := g.ByName("P")
	p.Pivot.Yaw = 0.75

	cam := NewCamera(vectors.Vec3{Z: 400}, vectors.Zero(), 60)
	ctrl := NewController(cam)
	ctrl.FocusBody(p)

	captured := ctrl.Target()
	want := p.WorldPosition()
	if captured != want {
		t.Fatalf("target %v, want body position %v", captured, want)
	}

	// A later orbit tick must not retroactively move the captured target.
	p.Pivot.Yaw += 0.5
	if ctrl.Target() != captured {
		t.Fatal("focus target changed after the body moved")
	}
	if ctrl.Target() == p.WorldPosition() {
		t.Fatal("focus target tracked the body instead of sampling it")
	}
}

func TestFocusDoesNotMoveCamera(t *testing.T) {
	g := controllerScene(t)
	cam := NewCamera(vectors.Vec3{Z: 400}, vectors.Zero(), 60)
	ctrl := NewController(cam)

	before := cam.Position
	ctrl.FocusBody(g.ByName("P"))
	ctrl.Update()
	if cam.Position != before {
		t.Fatal("focus must change the look-at only, not the camera position")
	}
}

func TestDampedUpdateConverges(t *testing.T) {
	cam := NewCamera(vectors.Vec3{Z: 400}, vectors.Zero(), 60)
	ctrl := NewController(cam)
	ctrl.Damping = 0.1

	goal := vectors.Vec3{X: 50, Y: 10, Z: -20}
	ctrl.Focus(goal)

	prev := vectors.Distance(ctrl.LookAt(), goal)
	for i := 0; i < 200; i++ {
		ctrl.Update()
		d := vectors.Distance(ctrl.LookAt(), goal)
		if d > prev+1e-12 {
			t.Fatalf("iteration %d: distance grew from %v to %v", i, prev, d)
		}
		prev = d
	}
	if prev > 1e-6 {
		t.Fatalf("look-at still %v away after 200 damped updates", prev)
	}
}

func TestDisabledDampingSnaps(t *testing.T) {
	cam := NewCamera(vectors.Vec3{Z: 400}, vectors.Zero(), 60)
	ctrl := NewController(cam)
	ctrl.Enabled = false

	goal := vectors.Vec3{X: 50}
	ctrl.Focus(goal)
	ctrl.Update()
	if ctrl.LookAt() != goal {
		t.Fatalf("look-at %v, want instant snap to %v", ctrl.LookAt(), goal)
	}
	// Forward must now aim at the goal.
	want := goal.Sub(cam.Position).Normalize()
	if math.Abs(cam.Forward.Dot(want)-1) > 1e-9 {
		t.Errorf("camera forward %v not aimed at goal", cam.Forward)
	}
}
