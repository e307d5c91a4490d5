// Package autoplay advances through the years on a fixed interval.
package autoplay

import (
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
)

const DefaultInterval = 15 * time.Second

// Advancer moves the experience to a year. The scene machine satisfies it;
// a busy or failed request simply skips that tick.
type Advancer interface {
	CurrentYear() timeline.Year
	RequestTransition(year timeline.Year) (*clock.Future, error)
}

// Scheduler is Stopped or Running. Start always creates a fresh interval, so
// callers that may already be running go through Reset.
type Scheduler struct {
	clock    *clock.Clock
	log      zerolog.Logger
	timeline timeline.Timeline
	target   Advancer
	interval time.Duration
	timer    *clock.Timer
	ticks    int
}

func New(c *clock.Clock, logger zerolog.Logger, tl timeline.Timeline, target Advancer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{clock: c, log: logger, timeline: tl, target: target, interval: interval}
}

func (s *Scheduler) Running() bool { return s.timer.Active() }

func (s *Scheduler) Interval() time.Duration { return s.interval }

// Ticks counts intervals that fired since construction.
func (s *Scheduler) Ticks() int { return s.ticks }

// Start creates a new interval unconditionally.
func (s *Scheduler) Start() {
	s.timer = s.clock.Every(s.interval, s.tick)
	s.log.Debug().Dur("interval", s.interval).Msg("autoplay start")
}

// Stop clears the interval. It is safe when already stopped.
func (s *Scheduler) Stop() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
	s.log.Debug().Msg("autoplay stop")
}

// Toggle flips between running and stopped and reports the new state.
func (s *Scheduler) Toggle() bool {
	if s.Running() {
		s.Stop()
		return false
	}
	s.Start()
	return true
}

// Reset restarts the countdown from zero if running. A manual year change
// calls it so auto-play never fires right after the user acted.
func (s *Scheduler) Reset() {
	if !s.Running() {
		return
	}
	s.Stop()
	s.Start()
}

// Progress is the fraction of the current interval that has elapsed.
func (s *Scheduler) Progress() float64 {
	if !s.Running() {
		return 0
	}
	p := float64(s.timer.Elapsed()) / float64(s.interval)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (s *Scheduler) tick() {
	s.ticks++
	next, err := s.timeline.Next(s.target.CurrentYear())
	if err != nil {
		s.log.Error().Err(err).Msg("autoplay next year")
		return
	}
	if _, err := s.target.RequestTransition(next); err != nil {
		s.log.Debug().Err(err).Stringer("year", next).Msg("autoplay tick skipped")
	}
}
