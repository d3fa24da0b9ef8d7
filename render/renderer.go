package render

import (
	"image"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

const (
	ambientLight = 0.08
	ringAlpha    = 0.45
)

// Renderer ray-traces the scene into NRGBA frames. It owns the
// viewport dimensions; the camera aspect is kept in sync by the resize
// handler, not by the renderer itself.
type Renderer struct {
	width       int
	height      int
	Supersample int
	Workers     int
	Background  colors.Color4

	textures *texture.Store
}

// NewRenderer returns a renderer with a square size-by-size viewport.
func NewRenderer(size, supersample, workers int, store *texture.Store) *Renderer {
	if supersample < 1 {
		supersample = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Renderer{
		width:       size,
		height:      size,
		Supersample: supersample,
		Workers:     workers,
		Background:  colors.Black(),
		textures:    store,
	}
}

// Resize updates both viewport dimensions. It never touches scene
// state, so it is safe between any two animation ticks.
func (r *Renderer) Resize(width, height int) {
	if width > 0 {
		r.width = width
	}
	if height > 0 {
		r.height = height
	}
}

// Size returns the current viewport dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// sphere is the per-frame snapshot of one body: everything the shader
// needs, decoupled from the live scene nodes so a frame is internally
// consistent even though rows render in parallel.
type sphere struct {
	center    vectors.Vec3
	radius    float64
	yaw       float64 // total world yaw, for texture orientation
	emissive  bool
	tex       texture.Texture
	color     colors.Color4
	ringInner float64
	ringOuter float64
}

// Render traces one frame of the scene from the camera.
func (r *Renderer) Render(g *scene.Graph, cam *Camera) *image.NRGBA {
	spheres, sunPos := r.snapshot(g)

	W, H := r.width, r.height
	img := image.NewNRGBA(image.Rect(0, 0, W, H))
	offsets := GenerateSupersamplingOffsets(r.Supersample)
	invN := 1.0 / float64(len(offsets))

	grp := new(errgroup.Group)
	rows := (H + r.Workers - 1) / r.Workers
	for w := 0; w < r.Workers; w++ {
		y0 := w * rows
		y1 := y0 + rows
		if y1 > H {
			y1 = H
		}
		if y0 >= y1 {
			break
		}
		grp.Go(func() error {
			for y := y0; y < y1; y++ {
				for x := 0; x < W; x++ {
					acc := colors.Color4{}
					for _, off := range offsets {
						dir := cam.ComputeRay(float64(x)+off[0], float64(y)+off[1], W, H)
						acc = acc.Add(r.trace(spheres, sunPos, cam.Position, dir))
					}
					out := acc.Scale(invN).CompositeOverBlack()
					img.SetNRGBA(x, y, out.ToNRGBA())
				}
			}
			return nil
		})
	}
	// Workers only write disjoint rows and never fail.
	_ = grp.Wait()
	return img
}

// snapshot freezes the current transforms into flat shading records.
func (r *Renderer) snapshot(g *scene.Graph) ([]sphere, vectors.Vec3) {
	var sunPos vectors.Vec3
	spheres := make([]sphere, 0, len(g.Bodies))
	for _, b := range g.Bodies {
		s := sphere{
			center:   b.WorldPosition(),
			radius:   b.Desc.Radius,
			yaw:      b.Mesh.Yaw,
			emissive: b.Desc.Central,
			color:    b.Desc.Color,
		}
		if b.Pivot != nil {
			s.yaw += b.Pivot.Yaw
		}
		if r.textures != nil {
			s.tex = r.textures.Load(b.Desc.TexturePath, b.Desc.Color)
		} else {
			s.tex = texture.Flat{C: b.Desc.Color}
		}
		if b.Ring != nil {
			s.ringInner = b.RingInner()
			s.ringOuter = b.RingOuter()
		}
		if b.Desc.Central {
			sunPos = s.center
		}
		spheres = append(spheres, s)
	}
	return spheres, sunPos
}

// hit is one ray intersection, either a sphere surface or a ring.
type hit struct {
	t    float64
	s    *sphere
	ring bool
}

// trace shades a single ray: nearest opaque sphere, with any
// semi-transparent rings composited front to back in front of it.
func (r *Renderer) trace(spheres []sphere, sunPos, origin vectors.Vec3, dir vectors.Vec3) colors.Color4 {
	var hits []hit
	for i := range spheres {
		s := &spheres[i]
		if t := intersectSphere(origin.Sub(s.center), dir, s.radius); t > 0 {
			hits = append(hits, hit{t: t, s: s})
		}
		if s.ringOuter > 0 {
			if t, ok := intersectRing(origin, dir, s); ok {
				hits = append(hits, hit{t: t, s: s, ring: true})
			}
		}
	}
	if len(hits) == 0 {
		return r.Background
	}

	// Insertion sort: the hit list is tiny.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].t < hits[j-1].t; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	out := colors.Color4{}
	remaining := 1.0
	for _, h := range hits {
		if h.ring {
			c := r.shadeRing(h.s, sunPos, origin, dir, h.t)
			out = out.Add(c.Scale(remaining * ringAlpha))
			remaining *= 1 - ringAlpha
			continue
		}
		c := r.shadeSphere(h.s, sunPos, origin, dir, h.t)
		out = out.Add(c.Scale(remaining))
		return out.WithAlpha(1)
	}
	return out.Add(r.Background.Scale(remaining)).WithAlpha(1)
}

func (r *Renderer) shadeSphere(s *sphere, sunPos, origin vectors.Vec3, dir vectors.Vec3, t float64) colors.Color4 {
	p := origin.Add(dir.Scale(t))
	n := p.Sub(s.center).Normalize()

	// Undo the body's spin so the texture turns with the surface.
	nl := n.RotateY(-s.yaw)
	u, v := texture.SphereUV(nl.X, nl.Y, nl.Z)
	c := s.tex.Sample(u, v)

	if s.emissive {
		// Self-illuminated: no lighting applied.
		return c
	}

	light := sunPos.Sub(p).Normalize()
	intensity := n.Dot(light)
	if intensity < 0 {
		intensity = 0
	}
	return c.Scale(ambientLight + (1-ambientLight)*intensity)
}

// shadeRing lights the flat annulus from both sides; the plane normal
// is the body's spin axis.
func (r *Renderer) shadeRing(s *sphere, sunPos, origin vectors.Vec3, dir vectors.Vec3, t float64) colors.Color4 {
	p := origin.Add(dir.Scale(t))
	light := sunPos.Sub(p).Normalize()
	intensity := math.Abs(light.Y) // double-sided
	base := s.color.Mix(colors.White(), 0.35)
	return base.Scale(ambientLight + (1-ambientLight)*intensity)
}

// intersectRing intersects the ray with the body's equatorial annulus:
// the plane through the body center perpendicular to the spin axis,
// clipped between the inner and outer radii.
func intersectRing(origin vectors.Vec3, dir vectors.Vec3, s *sphere) (float64, bool) {
	if math.Abs(dir.Y) < 1e-12 {
		return 0, false
	}
	t := (s.center.Y - origin.Y) / dir.Y
	if t <= 0 {
		return 0, false
	}
	p := origin.Add(dir.Scale(t))
	d := vectors.Distance(vectors.Vec3{X: p.X, Z: p.Z}, vectors.Vec3{X: s.center.X, Z: s.center.Z})
	if d < s.ringInner || d > s.ringOuter {
		return 0, false
	}
	return t, true
}

// intersectSphere calculates the intersection of a ray (O + t*D) with a
// sphere of the given radius centered at the origin of O's frame.
// Returns the closest positive t, or -1.0 if there is no intersection.
func intersectSphere(O, D vectors.Vec3, radius float64) float64 {
	// b = 2*O·D, c = O·O - r^2, solve t^2 + b t + c = 0
	b := 2.0 * O.Dot(D)
	c := O.Dot(O) - radius*radius

	discriminant := b*b - 4.0*c
	if discriminant < 0 {
		return -1.0
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-b - sqrtDisc) / 2.0
	t2 := (-b + sqrtDisc) / 2.0

	if t1 > 0 {
		return t1
	}
	if t2 > 0 {
		return t2
	}
	return -1.0
}

// GenerateSupersamplingOffsets returns n×n offsets in [-0.5, +0.5] for
// supersampling, as pairs (dx, dy) with pixel-center spacing.
func GenerateSupersamplingOffsets(n int) [][2]float64 {
	if n <= 0 {
		return nil
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}
