package session

import "time"

// Clock turns wall-clock tick timestamps into clamped simulation deltas and
// keeps the simulated time every gameplay deadline is measured against.
type Clock struct {
	maxDelta time.Duration
	last     time.Time
	started  bool
	now      time.Duration
}

// NewClock creates a clock whose per-tick delta never exceeds maxDelta.
func NewClock(maxDelta time.Duration) Clock {
	return Clock{maxDelta: maxDelta}
}

// Advance records a tick at wall time t and returns the delta to simulate.
// The first tick yields zero. Backwards jumps yield zero; gaps longer than
// the maximum (stalls, suspended terminals) are clamped.
func (c *Clock) Advance(t time.Time) time.Duration {
	if !c.started {
		c.started = true
		c.last = t
		return 0
	}

	delta := t.Sub(c.last)
	c.last = t
	if delta < 0 {
		delta = 0
	}
	if c.maxDelta > 0 && delta > c.maxDelta {
		delta = c.maxDelta
	}
	c.now += delta
	return delta
}

// Now returns the simulated time since the first tick.
func (c *Clock) Now() time.Duration {
	return c.now
}
