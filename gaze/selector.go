// Package gaze turns a continuous look at a target into a single
// activation, for hands-free selection.
package gaze

import "time"

const DefaultDwell = 1500 * time.Millisecond

// Selector tracks how long the same target has been looked at. It fires
// once per continuous look; looking away re-arms it.
type Selector struct {
	dwell   time.Duration
	target  string
	elapsed time.Duration
	fired   bool
}

func New(dwell time.Duration) *Selector {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	return &Selector{dwell: dwell}
}

// Update advances the look at target by dt. An empty target means nothing
// is under the reticle. It returns the target when the dwell completes.
func (s *Selector) Update(target string, dt time.Duration) (string, bool) {
	if target != s.target {
		s.target = target
		s.elapsed = 0
		s.fired = false
	}
	if target == "" || s.fired {
		return "", false
	}
	s.elapsed += dt
	if s.elapsed < s.dwell {
		return "", false
	}
	s.fired = true
	return target, true
}

// Progress is the dwell fraction for the current target, 1 once fired.
func (s *Selector) Progress() float64 {
	if s.target == "" {
		return 0
	}
	if s.fired {
		return 1
	}
	return float64(s.elapsed) / float64(s.dwell)
}

// Reset forgets the current look.
func (s *Selector) Reset() {
	s.target = ""
	s.elapsed = 0
	s.fired = false
}
