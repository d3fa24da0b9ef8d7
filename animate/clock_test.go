package animate

import (
	"math"
	"testing"
	"time"
)

func TestClockTick(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c := newClockAt(func() time.Time { return now })

	delta, elapsed := c.Tick()
	if delta != 0 || elapsed != 0 {
		t.Fatalf("first tick = (%v, %v), want (0, 0)", delta, elapsed)
	}

	now = now.Add(16 * time.Millisecond)
	delta, elapsed = c.Tick()
	if math.Abs(delta-0.016) > 1e-9 {
		t.Errorf("delta = %v, want 0.016", delta)
	}
	if math.Abs(elapsed-0.016) > 1e-9 {
		t.Errorf("elapsed = %v, want 0.016", elapsed)
	}

	now = now.Add(2 * time.Second)
	delta, elapsed = c.Tick()
	if math.Abs(delta-2.0) > 1e-9 {
		t.Errorf("delta = %v, want 2.0", delta)
	}
	if math.Abs(elapsed-2.016) > 1e-9 {
		t.Errorf("elapsed = %v, want 2.016", elapsed)
	}
}

func TestClockFirstTickCoversTimeSinceCreation(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c := newClockAt(func() time.Time { return now })

	// The loop's first tick fires one ticker period after the clock
	// starts; that interval belongs to the first delta.
	now = now.Add(50 * time.Millisecond)
	delta, elapsed := c.Tick()
	if math.Abs(delta-0.05) > 1e-9 {
		t.Errorf("first delta = %v, want 0.05", delta)
	}
	if delta != elapsed {
		t.Errorf("first tick delta %v != elapsed %v", delta, elapsed)
	}
}
