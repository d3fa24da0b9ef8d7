package animate

import "time"

// Clock reports the delta since its last query and the total elapsed
// time since start, both as non-negative seconds on the monotonic
// clock. The first Tick reports the interval since the clock was
// created, so delta and elapsed agree on it.
type Clock struct {
	now   func() time.Time
	start time.Time
	last  time.Time
}

// NewClock starts a clock at the current instant.
func NewClock() *Clock {
	return newClockAt(time.Now)
}

func newClockAt(now func() time.Time) *Clock {
	t := now()
	return &Clock{now: now, start: t, last: t}
}

// Tick returns the seconds since the previous Tick call and the
// seconds since the clock was created.
func (c *Clock) Tick() (delta, elapsed float64) {
	t := c.now()
	delta = t.Sub(c.last).Seconds()
	elapsed = t.Sub(c.start).Seconds()
	c.last = t
	return delta, elapsed
}
