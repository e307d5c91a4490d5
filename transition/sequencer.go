// Package transition fades the whole screen to and from black.
package transition

import (
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/common"
	"github.com/rs/zerolog"
)

const DefaultDuration = 500 * time.Millisecond

// Overlay is the full-screen surface the sequencer drives.
type Overlay interface {
	SetOpacity(alpha float64)
}

// Phase mirrors the overlay ramp in progress.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseFadeOut
	PhaseFadeIn
)

// Sequencer ramps overlay opacity once per frame. Without an overlay it
// logs once and every fade completes immediately.
type Sequencer struct {
	clock    *clock.Clock
	log      zerolog.Logger
	overlay  Overlay
	duration time.Duration

	phase   Phase
	opacity float64
	timer   *clock.Timer
	pending *clock.Future
	warned  bool
}

func New(c *clock.Clock, logger zerolog.Logger, overlay Overlay, d time.Duration) *Sequencer {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Sequencer{clock: c, log: logger, overlay: overlay, duration: d}
}

// FadeToOpaque ramps the overlay to fully opaque.
func (s *Sequencer) FadeToOpaque() *clock.Future {
	return s.ramp(PhaseFadeOut, 1)
}

// FadeFromOpaque ramps the overlay back to transparent.
func (s *Sequencer) FadeFromOpaque() *clock.Future {
	return s.ramp(PhaseFadeIn, 0)
}

func (s *Sequencer) Opacity() float64 { return s.opacity }

func (s *Sequencer) Phase() Phase { return s.phase }

// Cancel stops any ramp and leaves the overlay where it is.
func (s *Sequencer) Cancel() {
	s.stop().Resolve(nil)
	s.phase = PhaseNone
}

func (s *Sequencer) ramp(phase Phase, to float64) *clock.Future {
	if s.overlay == nil {
		if !s.warned {
			s.warned = true
			s.log.Warn().Msg("no fade overlay, transitions skip the fade")
		}
		s.opacity = to
		return clock.Resolved(nil)
	}

	superseded := s.stop()
	defer superseded.Resolve(nil)

	from := s.opacity
	done := clock.NewFuture()
	if from == to {
		s.set(to)
		done.Resolve(nil)
		return done
	}

	s.phase = phase
	s.pending = done
	start := s.clock.Now()
	var timer *clock.Timer
	timer = s.clock.Every(clock.FrameInterval, func() {
		elapsed := s.clock.Now() - start
		if elapsed >= s.duration {
			timer.Stop()
			s.timer = nil
			s.pending = nil
			s.phase = PhaseNone
			s.set(to)
			done.Resolve(nil)
			return
		}
		s.set(common.Lerp(from, to, float64(elapsed)/float64(s.duration)))
	})
	s.timer = timer
	return done
}

func (s *Sequencer) stop() *clock.Future {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	p := s.pending
	s.pending = nil
	return p
}

func (s *Sequencer) set(alpha float64) {
	s.opacity = alpha
	s.overlay.SetOpacity(alpha)
}
