package scene

import (
	"github.com/echoflaresat/orrery/vectors"
)

// Node is one transform in the owned scene tree. Each node carries a
// translation and two rotation angles relative to its parent; world
// queries walk the ancestor chain composing transforms explicitly, so
// there is no hidden scene-graph traversal behind them.
//
// A node with no geometry of its own (an orbit pivot) is just a Node
// whose only job is rooting a rotation for its children.
type Node struct {
	name     string
	parent   *Node
	children []*Node

	// Pos is the translation relative to the parent.
	Pos vectors.Vec3

	// Yaw is the rotation about the +Y axis in radians. Orbit pivots
	// and body spin both accumulate here; wrapping is left to the
	// periodic trig functions downstream.
	Yaw float64

	// Pitch is the rotation about the +X axis in radians, applied
	// before Yaw. Only ring nodes use it.
	Pitch float64
}

// NewNode returns a detached node at the local origin.
func NewNode(name string) *Node {
	return &Node{name: name}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// AddChild attaches c under n. A child detaches from any previous
// parent first; cycles are the caller's responsibility to avoid.
func (n *Node) AddChild(c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) removeChild(c *Node) {
	for i, k := range n.children {
		if k == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// LocalToWorld maps a point in n's local space to world space by
// composing this node's transform and then every ancestor's.
func (n *Node) LocalToWorld(p vectors.Vec3) vectors.Vec3 {
	q := p.RotateX(n.Pitch).RotateY(n.Yaw).Add(n.Pos)
	if n.parent == nil {
		return q
	}
	return n.parent.LocalToWorld(q)
}

// WorldPosition returns the node origin in world space, accounting for
// all ancestor transforms.
func (n *Node) WorldPosition() vectors.Vec3 {
	return n.LocalToWorld(vectors.Zero())
}
