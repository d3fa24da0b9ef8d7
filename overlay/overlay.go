// Package overlay draws 2D name labels that track the screen
// projection of their 3D anchors, and maps clicks back to bodies.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/scene"
)

// clickPadding widens the hit rectangle a little so labels are easy to
// click at small sizes.
const clickPadding = 3

// Label is one body's screen-space label: its text, the rectangle it
// occupied in the most recent frame, and whether it was visible.
type Label struct {
	Body    *scene.Body
	Rect    image.Rectangle
	Visible bool
}

// Overlay projects each body's label anchor every frame and remembers
// where the text landed for hit-testing.
type Overlay struct {
	face   font.Face
	labels []*Label
}

// New builds one label per body.
func New(bodies []*scene.Body) *Overlay {
	o := &Overlay{face: basicfont.Face7x13}
	for _, b := range bodies {
		o.labels = append(o.labels, &Label{Body: b})
	}
	return o
}

// Labels returns the overlay's labels in body order.
func (o *Overlay) Labels() []*Label {
	return o.labels
}

// Draw renders every visible label into img, anchored at the screen
// projection of the body's label node. Labels behind the camera are
// skipped and become unclickable until they reappear.
func (o *Overlay) Draw(img draw.Image, cam *render.Camera) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	for _, l := range o.labels {
		x, y, ok := cam.Project(l.Body.Label.WorldPosition(), w, h)
		if !ok {
			l.Visible = false
			continue
		}
		o.drawLabel(img, l, x, y)
	}
}

func (o *Overlay) drawLabel(img draw.Image, l *Label, x, y float64) {
	name := l.Body.Desc.Name
	width := font.MeasureString(o.face, name).Ceil()
	m := o.face.Metrics()

	// Center the text horizontally on the anchor.
	left := int(x) - width/2
	baseline := int(y)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: o.face,
		Dot:  fixed.P(left, baseline),
	}
	d.DrawString(name)

	l.Rect = image.Rect(
		left-clickPadding,
		baseline-m.Ascent.Ceil()-clickPadding,
		left+width+clickPadding,
		baseline+m.Descent.Ceil()+clickPadding,
	)
	l.Visible = true
}

// Hit returns the body whose label contains the click point, or nil.
// Coordinates are in the same pixel space Draw rendered into.
func (o *Overlay) Hit(x, y int) *scene.Body {
	p := image.Pt(x, y)
	for _, l := range o.labels {
		if l.Visible && p.In(l.Rect) {
			return l.Body
		}
	}
	return nil
}
