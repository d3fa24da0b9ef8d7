package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/echoflaresat/orrery/animate"
	"github.com/echoflaresat/orrery/body"
	"github.com/echoflaresat/orrery/overlay"
	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/stream"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

type config struct {
	fov               *float64
	camX, camY, camZ  *float64
	damping           *float64
	size, supersample *int
	frames, tps       *int
	workers           *int
	timeScaled        *bool
	epochStr          *string
	focus             *string
	out               *string
	serve             *string
	showHelp          *bool
}

func defineFlags() config {
	return config{
		fov:     flag.Float64("fov", 55.0, "Camera field of view in degrees"),
		camX:    flag.Float64("camx", -90.0, "Camera X position"),
		camY:    flag.Float64("camy", 140.0, "Camera Y position"),
		camZ:    flag.Float64("camz", 140.0, "Camera Z position"),
		damping: flag.Float64("damping", render.DefaultDamping, "Camera focus damping factor in [0,1)"),

		size:        flag.Int("size", 640, "Output image size (width/height in pixels)"),
		supersample: flag.Int("supersample", 2, "Supersampling factor (higher is slower but smoother)"),
		frames:      flag.Int("frames", 1, "Number of frames to render in offline mode"),
		tps:         flag.Int("tps", 60, "Animation ticks per second"),
		workers:     flag.Int("workers", runtime.GOMAXPROCS(0), "Parallel render workers"),
		timeScaled:  flag.Bool("timescaled", false, "Scale angular increments by measured delta instead of one increment per tick"),
		epochStr:    flag.String("epoch", "", "Seed planet positions from real mean longitudes at this RFC3339 time (or 'now')"),
		focus:       flag.String("focus", "", "Body name the camera focuses on at start"),

		out:   flag.String("out", "orrery_%04d.png", "Output PNG path pattern for offline frames"),
		serve: flag.String("serve", "", "Run the live loop and serve scene updates over websocket at this address"),

		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Orrery - Animated Solar System Renderer

Usage:
  %[1]s [options]

`, os.Args[0])

	printGroup("Camera Options", []string{"fov", "camx", "camy", "camz", "damping", "focus"})
	printGroup("Animation Options", []string{"tps", "timescaled", "epoch"})
	printGroup("Rendering Options", []string{"size", "supersample", "frames", "workers"})
	printGroup("Output", []string{"out", "serve"})
	printGroup("Misc", []string{"h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-12s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	logger := log.Default()

	graph, err := scene.Build(body.Catalog())
	if err != nil {
		log.Fatal(err)
	}
	if *cfg.epochStr != "" {
		epoch, err := parseEpoch(*cfg.epochStr)
		if err != nil {
			log.Fatal(err)
		}
		graph.SeedOrbitAngles(body.SeedAngles(body.Catalog(), epoch))
	}

	cam := render.NewCamera(
		vectors.Vec3{X: *cfg.camX, Y: *cfg.camY, Z: *cfg.camZ},
		vectors.Zero(),
		*cfg.fov,
	)
	ctrl := render.NewController(cam)
	ctrl.Damping = *cfg.damping
	if *cfg.focus != "" {
		b := graph.ByName(*cfg.focus)
		if b == nil {
			log.Fatalf("unknown focus body %q", *cfg.focus)
		}
		ctrl.FocusBody(b)
	}

	stepper := animate.NewStepper(graph.Bodies)
	stepper.TimeScaled = *cfg.timeScaled
	stepper.Eye = func() vectors.Vec3 { return cam.Position }

	if *cfg.serve != "" {
		runServe(cfg, graph, cam, ctrl, stepper, logger)
		return
	}
	runOffline(cfg, graph, cam, ctrl, stepper, logger)
}

func parseEpoch(s string) (time.Time, error) {
	if s == "now" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch: %w", err)
	}
	return t, nil
}

// runOffline steps the scene deterministically and writes each frame
// as a PNG, one tick per frame.
func runOffline(cfg config, graph *scene.Graph, cam *render.Camera, ctrl *render.Controller, stepper *animate.Stepper, logger *log.Logger) {
	store := texture.NewStore(logger)
	renderer := render.NewRenderer(*cfg.size, *cfg.supersample, *cfg.workers, store)
	labels := overlay.New(graph.Bodies)

	delta := 1.0 / float64(*cfg.tps)
	for frame := 0; frame < *cfg.frames; frame++ {
		stepper.Step(delta, float64(frame)*delta)
		ctrl.Update()

		img := renderer.Render(graph, cam)
		labels.Draw(img, cam)

		path := fmt.Sprintf(*cfg.out, frame)
		if err := writePNG(path, img); err != nil {
			log.Fatalf("failed to write PNG: %v", err)
		}
		logger.Printf("wrote %s", path)
	}
}

// runServe runs the live animation loop and streams transforms to
// websocket clients; selection and resize events arrive on the same
// connection.
func runServe(cfg config, graph *scene.Graph, cam *render.Camera, ctrl *render.Controller, stepper *animate.Stepper, logger *log.Logger) {
	// Hooks run on websocket read goroutines, so both selection and
	// resizes are queued into the loop and land between two ticks.
	// FocusBody reads live angles; it must run on the loop goroutine.
	var loop *animate.Loop
	server := stream.NewServer(graph, stream.Hooks{
		Select: func(name string) bool {
			b := graph.ByName(name)
			if b == nil {
				return false
			}
			loop.Do(func() { ctrl.FocusBody(b) })
			return true
		},
		Resize: func(w, h int) { loop.Resize(w, h) },
	}, logger)

	loop = animate.NewLoop(
		*cfg.tps,
		stepper,
		ctrl.Update,
		func(tick uint64) error {
			server.Broadcast(tick)
			return nil
		},
		func(w, h int) {
			cam.SetAspect(float64(w) / float64(h))
		},
		logger,
	)

	loop.Start()
	defer loop.Stop()

	http.HandleFunc("/ws", server.HandleWS)
	logger.Printf("serving scene stream on %s/ws", *cfg.serve)
	if err := http.ListenAndServe(*cfg.serve, nil); err != nil {
		log.Fatal(err)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
