package stream

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

// Message types on the wire. Clients receive create/update/pong/info;
// they send select/resize/ping.
const (
	MessageTypeCreate = "create"
	MessageTypeUpdate = "update"
	MessageTypeSelect = "select"
	MessageTypeResize = "resize"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"
	MessageTypeInfo   = "info"
)

// Position is a JSON-friendly 3D point.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is a JSON-friendly quaternion.
type Rotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// RingInfo describes a body's annulus so the client can build it once.
type RingInfo struct {
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

// CreateMessage tells a newly connected client to build one body.
type CreateMessage struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	Radius      float64   `json:"radius"`
	Color       string    `json:"color"`
	Emissive    bool      `json:"emissive"`
	OrbitRadius float64   `json:"orbit_radius,omitempty"`
	Ring        *RingInfo `json:"ring,omitempty"`
	LabelOffset float64   `json:"label_offset"`
}

// UpdateMessage carries one body's transform for one tick.
type UpdateMessage struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Position   Position `json:"position"`
	Rotation   Rotation `json:"rotation"`
	ServerTime int64    `json:"server_time"`
}

// PongMessage answers a client ping for latency measurement.
type PongMessage struct {
	Type       string  `json:"type"`
	ClientTime float64 `json:"client_time"`
	ServerTime int64   `json:"server_time"`
}

// InfoMessage is a free-form server notice.
type InfoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// InboundMessage is the union of everything a client may send.
type InboundMessage struct {
	Type       string  `json:"type"`
	Name       string  `json:"name,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	ClientTime float64 `json:"client_time,omitempty"`
}

// serverTime returns the current server time in milliseconds.
func serverTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func newCreateMessage(b *scene.Body) CreateMessage {
	msg := CreateMessage{
		Type:        MessageTypeCreate,
		ID:          b.Desc.Name,
		Radius:      b.Desc.Radius,
		Color:       hexColor(b.Desc.Color),
		Emissive:    b.Desc.Central,
		OrbitRadius: b.Desc.OrbitRadius,
		LabelOffset: scene.LabelOffsetRatio * b.Desc.Radius,
	}
	if b.Ring != nil {
		msg.Ring = &RingInfo{Inner: b.RingInner(), Outer: b.RingOuter()}
	}
	return msg
}

func newUpdateMessage(b *scene.Body, now int64) UpdateMessage {
	p := b.WorldPosition()
	return UpdateMessage{
		Type:       MessageTypeUpdate,
		ID:         b.Desc.Name,
		Position:   Position{X: p.X, Y: p.Y, Z: p.Z},
		Rotation:   bodyRotation(b),
		ServerTime: now,
	}
}

// bodyRotation encodes the body's orientation as a quaternion: spin
// about +Y for pivot bodies, the billboard facing for parametric ones.
func bodyRotation(b *scene.Body) Rotation {
	var q mgl64.Quat
	if b.Desc.Parametric && b.Facing != (vectors.Vec3{}) {
		q = mgl64.QuatBetweenVectors(
			mgl64.Vec3{0, 0, 1},
			mgl64.Vec3{b.Facing.X, b.Facing.Y, b.Facing.Z},
		)
	} else {
		yaw := b.Mesh.Yaw
		if b.Pivot != nil {
			yaw += b.Pivot.Yaw
		}
		q = mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
	}
	return Rotation{X: q.X(), Y: q.Y(), Z: q.Z(), W: q.W}
}

func hexColor(c colors.Color4) string {
	n := c.Clamp01().ToNRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
