// Package clock is the single tick driver behind every timer in the
// experience. The game loop advances it once per frame; fades, inertia,
// auto-play and subtitle cues schedule work on it instead of owning
// goroutines or wall-clock timers.
package clock

import "time"

// FrameInterval is the nominal duration of one ebiten tick at 60 TPS.
const FrameInterval = time.Second / 60

// minInterval keeps a zero or negative Every interval from spinning forever
// inside a single Advance.
const minInterval = time.Millisecond

// Clock is a manually advanced timer queue. It is not safe for concurrent
// use; everything runs on the game loop.
type Clock struct {
	now    time.Duration
	seq    uint64
	timers []*Timer
}

// Timer is a handle to a scheduled callback.
type Timer struct {
	clock    *Clock
	seq      uint64
	due      time.Duration
	interval time.Duration
	fn       func()
	stopped  bool
}

func New() *Clock {
	return &Clock{}
}

// Now returns the elapsed virtual time.
func (c *Clock) Now() time.Duration {
	if c == nil {
		return 0
	}
	return c.now
}

// After schedules fn once, d from now.
func (c *Clock) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return c.schedule(d, 0, fn)
}

// Every schedules fn repeatedly every d, first firing d from now.
func (c *Clock) Every(d time.Duration, fn func()) *Timer {
	if d < minInterval {
		d = minInterval
	}
	return c.schedule(d, d, fn)
}

func (c *Clock) schedule(d, interval time.Duration, fn func()) *Timer {
	c.seq++
	t := &Timer{
		clock:    c,
		seq:      c.seq,
		due:      c.now + d,
		interval: interval,
		fn:       fn,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by dt, running every timer that falls due in
// deadline order. Timers scheduled by callbacks run in the same Advance if
// they fall due before its end.
func (c *Clock) Advance(dt time.Duration) {
	if c == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	end := c.now + dt
	for {
		t := c.nextDue(end)
		if t == nil {
			break
		}
		c.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			t.stopped = true
		}
		if t.fn != nil {
			t.fn()
		}
	}
	c.now = end
	c.compact()
}

// Pending reports how many timers are still scheduled.
func (c *Clock) Pending() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Delay returns a future resolved after d.
func (c *Clock) Delay(d time.Duration) *Future {
	f := NewFuture()
	c.After(d, func() { f.Resolve(nil) })
	return f
}

func (c *Clock) nextDue(end time.Duration) *Timer {
	var best *Timer
	for _, t := range c.timers {
		if t.stopped || t.due > end {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *Clock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(c.timers); i++ {
		c.timers[i] = nil
	}
	c.timers = live
}

// Stop cancels the timer. It reports whether the timer was still active.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Active reports whether the timer will fire again.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}

// Elapsed returns how far the timer is into its current period.
func (t *Timer) Elapsed() time.Duration {
	if t == nil || t.stopped {
		return 0
	}
	period := t.interval
	if period == 0 {
		return 0
	}
	start := t.due - period
	return t.clock.now - start
}

// Period returns the repeat interval, or zero for one-shot timers.
func (t *Timer) Period() time.Duration {
	if t == nil {
		return 0
	}
	return t.interval
}
