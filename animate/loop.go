package animate

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrContextLost signals that the rendering surface went away. A frame
// callback returning it (or wrapping it) suspends further frame calls
// until RestoreSurface; stepping continues so the scene stays live.
var ErrContextLost = errors.New("render context lost")

// Frame delivers one rendered frame; it runs at the end of a tick,
// after all entity updates and the camera update.
type Frame func(tick uint64) error

type resizeEvent struct {
	width, height int
}

// Loop is the fixed-rate animation loop: it owns the clock, steps the
// scene, runs the camera update and frame callback, and applies resize
// notifications atomically between ticks. Stop is the explicit cancel
// handle; the loop never relies on ambient teardown.
type Loop struct {
	TPS int

	stepper *Stepper
	update  func() // camera controller per-frame update, may be nil
	frame   Frame  // may be nil (headless stepping)
	resize  func(width, height int)
	logger  *log.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	resizeC chan resizeEvent
	doC     chan func()

	mu          sync.Mutex
	tick        uint64
	surfaceLost bool
	running     bool
}

// NewLoop wires a loop at targetTPS ticks per second. update runs after
// the stepper each tick, frame after update, resize between ticks.
func NewLoop(targetTPS int, stepper *Stepper, update func(), frame Frame, resize func(width, height int), logger *log.Logger) *Loop {
	if targetTPS <= 0 {
		targetTPS = 60
	}
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		TPS:     targetTPS,
		stepper: stepper,
		update:  update,
		frame:   frame,
		resize:  resize,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		resizeC: make(chan resizeEvent, 8),
		doC:     make(chan func(), 64),
	}
}

// Start launches the loop goroutine. Starting twice is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.wg.Add(1)
	go l.run()
}

// Stop cancels the loop and waits for the current tick to finish.
func (l *Loop) Stop() {
	l.cancel()
	l.wg.Wait()
}

// Resize queues a viewport change. It is applied between two ticks,
// never in the middle of one.
func (l *Loop) Resize(width, height int) {
	select {
	case l.resizeC <- resizeEvent{width, height}:
	default:
		// coalesce: drop the oldest pending resize
		select {
		case <-l.resizeC:
		default:
		}
		l.resizeC <- resizeEvent{width, height}
	}
}

// Do queues fn to run on the loop goroutine at the start of the next
// tick, before any motion is stepped. Events from other goroutines that
// read or write scene state (body selection, anything touching live
// angles) go through here so they never interleave with a tick in
// progress. After Stop, queued functions are discarded.
func (l *Loop) Do(fn func()) {
	select {
	case l.doC <- fn:
	case <-l.ctx.Done():
	}
}

// RestoreSurface re-enables frame delivery after ErrContextLost.
func (l *Loop) RestoreSurface() {
	l.mu.Lock()
	l.surfaceLost = false
	l.mu.Unlock()
}

// Tick returns the number of completed ticks.
func (l *Loop) Tick() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tick
}

func (l *Loop) run() {
	defer l.wg.Done()

	clock := NewClock()
	ticker := time.NewTicker(time.Second / time.Duration(l.TPS))
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			l.step(clock)
		}
	}
}

// step is one bounded, synchronous unit of work.
func (l *Loop) step(clock *Clock) {
	l.applyResizes()
	l.applyPending()

	delta, elapsed := clock.Tick()
	l.stepper.Step(delta, elapsed)
	if l.update != nil {
		l.update()
	}

	l.mu.Lock()
	l.tick++
	tick := l.tick
	lost := l.surfaceLost
	l.mu.Unlock()

	if l.frame == nil || lost {
		return
	}
	if err := l.frame(tick); err != nil {
		if errors.Is(err, ErrContextLost) {
			l.mu.Lock()
			l.surfaceLost = true
			l.mu.Unlock()
			l.logger.Printf("render surface lost at tick %d; suspending frames", tick)
			return
		}
		l.logger.Printf("frame %d: %v", tick, err)
	}
}

func (l *Loop) applyPending() {
	for {
		select {
		case fn := <-l.doC:
			fn()
		default:
			return
		}
	}
}

func (l *Loop) applyResizes() {
	for {
		select {
		case ev := <-l.resizeC:
			if l.resize != nil {
				l.resize(ev.width, ev.height)
			}
		default:
			return
		}
	}
}
