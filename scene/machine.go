// Package scene owns the current year and sequences every side effect of
// moving from one year to another.
package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
)

const DefaultSettle = 300 * time.Millisecond

var (
	ErrInvalidTarget  = errors.New("scene: invalid target year")
	ErrTransitionBusy = errors.New("scene: transition in progress")
	ErrCancelled      = errors.New("scene: transition cancelled")
)

// Fader darkens and restores the screen.
type Fader interface {
	FadeToOpaque() *clock.Future
	FadeFromOpaque() *clock.Future
}

// Audio starts and stops the per-year soundtrack.
type Audio interface {
	StopYear(year timeline.Year) *clock.Future
	StartYear(year timeline.Year) *clock.Future
	PlayCue()
}

// Visuals toggles the objects that belong to a year.
type Visuals interface {
	HideYear(year timeline.Year) error
	ShowYear(year timeline.Year) error
}

// InfoDisplay shows the year's title, description and subtitle area.
type InfoDisplay interface {
	UpdateSceneInfo(year timeline.Year)
}

// Animator applies year-specific visual parameters such as water level.
type Animator interface {
	Animate(year timeline.Year) error
}

// State is the transition guard.
type State int

const (
	Idle State = iota
	InProgress
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}

// Deps are the collaborators a Machine drives. Fader and Animator may be nil.
type Deps struct {
	Clock    *clock.Clock
	Logger   zerolog.Logger
	Timeline timeline.Timeline
	Fader    Fader
	Audio    Audio
	Visuals  Visuals
	Info     InfoDisplay
	Animator Animator
	Settle   time.Duration
}

// Machine is the authoritative year state. At most one transition runs at
// a time; requests made while one runs are dropped.
type Machine struct {
	deps    Deps
	log     zerolog.Logger
	current timeline.Year
	state   State
	from    timeline.Year
	to      timeline.Year

	// halted stops the running chain before its next step.
	halted  bool
	settle  *clock.Timer
	settled *clock.Future

	committed []func(timeline.Year)
}

func New(deps Deps) (*Machine, error) {
	if deps.Clock == nil {
		return nil, errors.New("scene: nil clock")
	}
	if deps.Timeline.Len() == 0 {
		return nil, errors.New("scene: empty timeline")
	}
	if deps.Audio == nil || deps.Visuals == nil || deps.Info == nil {
		return nil, errors.New("scene: audio, visuals and info collaborators are required")
	}
	if deps.Settle <= 0 {
		deps.Settle = DefaultSettle
	}
	return &Machine{
		deps:    deps,
		log:     deps.Logger,
		current: deps.Timeline.First(),
	}, nil
}

// CurrentYear returns the last committed year. It changes in the middle of
// a transition, together with the swap of visible objects.
func (m *Machine) CurrentYear() timeline.Year { return m.current }

func (m *Machine) State() State { return m.state }

func (m *Machine) InProgress() bool { return m.state == InProgress }

func (m *Machine) Timeline() timeline.Timeline { return m.deps.Timeline }

// Transitioning returns the endpoints of the running transition.
func (m *Machine) Transitioning() (from, to timeline.Year, ok bool) {
	if m.state != InProgress {
		return 0, 0, false
	}
	return m.from, m.to, true
}

// OnCommit registers fn to run whenever a new year is committed.
func (m *Machine) OnCommit(fn func(timeline.Year)) {
	if fn != nil {
		m.committed = append(m.committed, fn)
	}
}

// Begin presents the initial year without a transition.
func (m *Machine) Begin() *clock.Future {
	y := m.current
	if err := m.deps.Visuals.ShowYear(y); err != nil {
		m.log.Error().Err(err).Stringer("year", y).Msg("show initial year")
	}
	m.deps.Info.UpdateSceneInfo(y)
	started := m.deps.Audio.StartYear(y)
	m.animate(y)
	return started
}

// RequestTransition moves to target. Unknown years fail with
// ErrInvalidTarget and a request during a transition fails with
// ErrTransitionBusy; neither changes state. Requesting the current year
// succeeds without side effects.
func (m *Machine) RequestTransition(target timeline.Year) (*clock.Future, error) {
	if !m.deps.Timeline.Contains(target) {
		err := fmt.Errorf("%w: %d", ErrInvalidTarget, target)
		m.log.Warn().Err(err).Msg("transition rejected")
		return nil, err
	}
	if m.state == InProgress {
		m.log.Debug().Stringer("from", m.from).Stringer("to", m.to).Stringer("requested", target).Msg("transition busy, request dropped")
		return nil, ErrTransitionBusy
	}
	if target == m.current {
		return clock.Resolved(nil), nil
	}

	from := m.current
	m.state = InProgress
	m.halted = false
	m.from, m.to = from, target
	m.log.Info().Stringer("from", from).Stringer("to", target).Msg("transition start")

	steps := m.steps(from, target)
	for i := range steps {
		run := steps[i].Run
		steps[i].Run = func() *clock.Future {
			if m.halted {
				return clock.Resolved(ErrCancelled)
			}
			return run()
		}
	}

	done := clock.NewFuture()
	seq := clock.Chain(steps...)
	seq.Then(func(err error) {
		m.state = Idle
		switch {
		case errors.Is(err, ErrCancelled):
			m.log.Info().Stringer("from", from).Stringer("to", target).Stringer("year", m.current).Msg("transition cancelled")
		case err != nil:
			m.log.Error().Err(err).Stringer("from", from).Stringer("to", target).Msg("transition failed")
		default:
			m.log.Info().Stringer("year", m.current).Msg("transition complete")
		}
		done.Resolve(err)
	})
	return done, nil
}

// Next requests the year after the current one.
func (m *Machine) Next() (*clock.Future, error) {
	y, err := m.deps.Timeline.Next(m.current)
	if err != nil {
		return nil, err
	}
	return m.RequestTransition(y)
}

// Prev requests the year before the current one.
func (m *Machine) Prev() (*clock.Future, error) {
	y, err := m.deps.Timeline.Prev(m.current)
	if err != nil {
		return nil, err
	}
	return m.RequestTransition(y)
}

// Cancel stops a running transition for teardown. No further step starts
// and the pending settle delay is dropped. Steps waiting on another
// collaborator end once that collaborator is cancelled too.
func (m *Machine) Cancel() {
	if m.state != InProgress {
		return
	}
	m.halted = true
	if m.settle != nil {
		m.settle.Stop()
		settled := m.settled
		m.settle, m.settled = nil, nil
		settled.Resolve(ErrCancelled)
	}
}

// Reset returns to the first year of the timeline.
func (m *Machine) Reset() (*clock.Future, error) {
	return m.RequestTransition(m.deps.Timeline.First())
}

func (m *Machine) steps(from, to timeline.Year) []clock.Step {
	return []clock.Step{
		{Name: "fade to opaque", Run: func() *clock.Future {
			if m.deps.Fader == nil {
				return nil
			}
			return m.deps.Fader.FadeToOpaque()
		}},
		{Name: "stop audio", Run: func() *clock.Future {
			return m.deps.Audio.StopYear(from)
		}},
		{Name: "hide year", Run: func() *clock.Future {
			return clock.Resolved(m.deps.Visuals.HideYear(from))
		}},
		{Name: "commit", Run: func() *clock.Future {
			m.current = to
			for _, fn := range m.committed {
				fn(to)
			}
			return nil
		}},
		{Name: "show year", Run: func() *clock.Future {
			return clock.Resolved(m.deps.Visuals.ShowYear(to))
		}},
		{Name: "update info", Run: func() *clock.Future {
			m.deps.Info.UpdateSceneInfo(to)
			return nil
		}},
		{Name: "transition cue", Run: func() *clock.Future {
			m.deps.Audio.PlayCue()
			return nil
		}},
		{Name: "settle", Run: func() *clock.Future {
			settled := clock.NewFuture()
			m.settled = settled
			m.settle = m.deps.Clock.After(m.deps.Settle, func() {
				m.settle, m.settled = nil, nil
				settled.Resolve(nil)
			})
			return settled
		}},
		{Name: "fade from opaque", Run: func() *clock.Future {
			if m.deps.Fader == nil {
				return nil
			}
			return m.deps.Fader.FadeFromOpaque()
		}},
		{Name: "start audio", Run: func() *clock.Future {
			return m.deps.Audio.StartYear(to)
		}},
		{Name: "animate", Run: func() *clock.Future {
			if m.deps.Animator == nil {
				return nil
			}
			return clock.Resolved(m.deps.Animator.Animate(to))
		}},
	}
}

func (m *Machine) animate(y timeline.Year) {
	if m.deps.Animator == nil {
		return
	}
	if err := m.deps.Animator.Animate(y); err != nil {
		m.log.Warn().Err(err).Stringer("year", y).Msg("animate")
	}
}
