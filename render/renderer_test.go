package render

import (
	"testing"

	"github.com/echoflaresat/orrery/body"
	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

func TestRenderEmissiveCentralBody(t *testing.T) {
	g, err := scene.Build([]body.Descriptor{
		{Name: "Sun", Radius: 10, Central: true, Color: colors.White()},
	})
	if err != nil {
		t.Fatal(err)
	}

	cam := NewCamera(vectors.Vec3{Z: 100}, vectors.Zero(), 60)
	r := NewRenderer(64, 1, 2, nil)
	img := r.Render(g, cam)

	center := img.NRGBAAt(32, 32)
	if center.R < 200 || center.G < 200 || center.B < 200 {
		t.Errorf("center pixel %v, want bright emissive surface", center)
	}
	corner := img.NRGBAAt(1, 1)
	if corner.R != 0 || corner.G != 0 || corner.B != 0 {
		t.Errorf("corner pixel %v, want black background", corner)
	}
}

func TestRenderLitBodyFacesTheSun(t *testing.T) {
	// Planet at (80,0,0), sun at the origin, camera on the planet's
	// sunny side: the disc should be clearly lit.
	g, err := scene.Build([]body.Descriptor{
		{Name: "Sun", Radius: 5, Central: true, Color: colors.White()},
		{Name: "P", Radius: 8, OrbitRadius: 80, Color: colors.New(1, 0, 0, 1)},
	})
	if err != nil {
		t.Fatal(err)
	}

	cam := NewCamera(vectors.Vec3{X: 40}, vectors.Vec3{X: 80}, 60)
	r := NewRenderer(64, 1, 2, nil)
	img := r.Render(g, cam)

	center := img.NRGBAAt(32, 32)
	if center.R < 150 {
		t.Errorf("sunlit face %v, want strong red", center)
	}
	if center.G > 60 || center.B > 60 {
		t.Errorf("sunlit face %v, want body color, not white", center)
	}
}

func TestRenderRing(t *testing.T) {
	// Looking straight down at a ringed body: the annulus between
	// 1.3R and 2.0R shows up, the gap between sphere and ring stays
	// background black.
	g, err := scene.Build([]body.Descriptor{
		{Name: "S", Radius: 4, HasRing: true, OrbitRadius: 5, Color: colors.New(0.9, 0.8, 0.6, 1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	bodyPos := g.ByName("S").WorldPosition()

	cam := NewCamera(bodyPos.Add(vectors.Vec3{Y: 60}), bodyPos, 60)
	const size = 128
	r := NewRenderer(size, 1, 2, nil)
	img := r.Render(g, cam)

	ringWorld := bodyPos.Add(vectors.Vec3{X: 1.65 * 4}) // mid-annulus
	x, y, ok := cam.Project(ringWorld, size, size)
	if !ok {
		t.Fatal("ring point did not project")
	}
	ring := img.NRGBAAt(int(x), int(y))
	if ring.R == 0 && ring.G == 0 && ring.B == 0 {
		t.Errorf("ring pixel at (%v,%v) is black, want annulus", int(x), int(y))
	}

	gapWorld := bodyPos.Add(vectors.Vec3{X: 1.15 * 4}) // between sphere and inner edge
	x, y, ok = cam.Project(gapWorld, size, size)
	if !ok {
		t.Fatal("gap point did not project")
	}
	gap := img.NRGBAAt(int(x), int(y))
	if gap.R != 0 || gap.G != 0 || gap.B != 0 {
		t.Errorf("gap pixel at (%v,%v) = %v, want background", int(x), int(y), gap)
	}
}

func TestRendererResize(t *testing.T) {
	r := NewRenderer(640, 1, 1, nil)
	r.Resize(1280, 720)
	w, h := r.Size()
	if w != 1280 || h != 720 {
		t.Fatalf("viewport (%d,%d), want (1280,720)", w, h)
	}
	r.Resize(0, -5)
	if w, h := r.Size(); w != 1280 || h != 720 {
		t.Fatalf("invalid resize applied: (%d,%d)", w, h)
	}
}

func TestGenerateSupersamplingOffsets(t *testing.T) {
	offsets := GenerateSupersamplingOffsets(3)
	if len(offsets) != 9 {
		t.Fatalf("got %d offsets, want 9", len(offsets))
	}
	for _, off := range offsets {
		if off[0] < -0.5 || off[0] > 0.5 || off[1] < -0.5 || off[1] > 0.5 {
			t.Errorf("offset %v outside [-0.5, 0.5]", off)
		}
	}
	if GenerateSupersamplingOffsets(0) != nil {
		t.Error("n=0 should give no offsets")
	}
}
