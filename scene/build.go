package scene

import (
	"math"

	"github.com/echoflaresat/orrery/body"
	"github.com/echoflaresat/orrery/vectors"
)

// Graph is the constructed scene: the root transform and the owned body
// list the stepper iterates. The builder creates every node once at
// startup; nothing is added or removed afterwards.
type Graph struct {
	Root   *Node
	Bodies []*Body
}

// Build validates descs and constructs one Body per descriptor plus the
// supporting orbit pivots, wiring everything under a fresh root node.
// All descriptors are validated before any node is created, so a
// malformed catalog never yields a partially built scene.
func Build(descs []body.Descriptor) (*Graph, error) {
	if err := body.ValidateAll(descs); err != nil {
		return nil, err
	}

	g := &Graph{Root: NewNode("root")}
	for _, d := range descs {
		g.Bodies = append(g.Bodies, buildBody(g.Root, d))
	}
	return g, nil
}

func buildBody(root *Node, d body.Descriptor) *Body {
	b := &Body{Desc: d}
	b.Mesh = NewNode(d.Name)

	switch {
	case d.Central:
		// Central body: mesh directly under the root, no pivot.
		root.AddChild(b.Mesh)
		b.Motion = OrbitalPivot{SpinSpeed: d.SpinSpeed}

	case d.Parametric:
		// Parametric body: no pivot either; its Pos is rewritten from
		// the closed form every tick.
		root.AddChild(b.Mesh)
		b.Motion = ParametricPath{Path: d.Path}

	default:
		b.Pivot = NewNode(d.Name + "-pivot")
		root.AddChild(b.Pivot)
		b.Mesh.Pos = vectors.Vec3{X: d.OrbitRadius}
		b.Pivot.AddChild(b.Mesh)
		b.Motion = OrbitalPivot{OrbitSpeed: d.OrbitSpeed, SpinSpeed: d.SpinSpeed}
	}

	if d.HasRing {
		// The annulus starts in the XY plane; a 90° pitch lays it into
		// the body's equatorial plane so it rides spin and orbit but
		// has no motion of its own.
		b.Ring = NewNode(d.Name + "-ring")
		b.Ring.Pitch = math.Pi / 2
		b.Mesh.AddChild(b.Ring)
	}

	b.Label = NewNode(d.Name + "-label")
	b.Label.Pos = vectors.Vec3{Y: LabelOffsetRatio * d.Radius}
	b.Mesh.AddChild(b.Label)

	return b
}

// SeedOrbitAngles sets each body's initial pivot angle from the given
// name-keyed map. Unknown names are ignored; bodies without a pivot
// keep their closed-form or fixed placement.
func (g *Graph) SeedOrbitAngles(angles map[string]float64) {
	for _, b := range g.Bodies {
		if b.Pivot == nil {
			continue
		}
		if a, ok := angles[b.Desc.Name]; ok {
			b.Pivot.Yaw = a
		}
	}
}

// ByName returns the body with the given name, or nil.
func (g *Graph) ByName(name string) *Body {
	for _, b := range g.Bodies {
		if b.Desc.Name == name {
			return b
		}
	}
	return nil
}
