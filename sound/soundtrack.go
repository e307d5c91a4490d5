package sound

import (
	"errors"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
)

// Captioner follows narration with subtitles.
type Captioner interface {
	Begin(year timeline.Year)
	Cancel()
}

// Soundtrack maps years onto engine channels: one foreground music loop and
// an optional narration voice per year, a shared ambient bed and a
// transition cue.
type Soundtrack struct {
	engine    *Engine
	log       zerolog.Logger
	fade      time.Duration
	music     map[timeline.Year]string
	narration map[timeline.Year]string
	ambient   string
	cue       string
	captions  Captioner
}

func NewSoundtrack(engine *Engine, logger zerolog.Logger, fade time.Duration) *Soundtrack {
	return &Soundtrack{
		engine:    engine,
		log:       logger,
		fade:      fade,
		music:     make(map[timeline.Year]string),
		narration: make(map[timeline.Year]string),
	}
}

// Bind assigns channel ids to a year. Either id may be empty.
func (s *Soundtrack) Bind(year timeline.Year, musicID, narrationID string) {
	if musicID != "" {
		s.music[year] = musicID
	}
	if narrationID != "" {
		s.narration[year] = narrationID
	}
}

func (s *Soundtrack) SetAmbient(id string) { s.ambient = id }

func (s *Soundtrack) SetCue(id string) { s.cue = id }

func (s *Soundtrack) SetCaptioner(c Captioner) { s.captions = c }

// StopYear fades the year's music and narration out. The future follows the
// music ramp; narration is cut on the same schedule.
func (s *Soundtrack) StopYear(year timeline.Year) *clock.Future {
	if s.captions != nil {
		s.captions.Cancel()
	}
	if id, ok := s.narration[year]; ok {
		s.engine.FadeOut(id, s.fade)
	}
	id, ok := s.music[year]
	if !ok {
		return clock.Resolved(nil)
	}
	return s.engine.FadeOut(id, s.fade)
}

// StartYear starts the year's music with a fade-in and its narration at
// full level. A platform refusal is logged and never fails the future.
func (s *Soundtrack) StartYear(year timeline.Year) *clock.Future {
	if s.ambient != "" && s.engine.Has(s.ambient) && !s.engine.Wanted(s.ambient) {
		s.engine.FadeIn(s.ambient, s.fade)
	}
	if id, ok := s.narration[year]; ok {
		if err := s.engine.PlayOnce(id); err != nil {
			s.logPlayback(id, err)
		}
	}
	if s.captions != nil {
		s.captions.Begin(year)
	}
	id, ok := s.music[year]
	if !ok {
		return clock.Resolved(nil)
	}
	return s.engine.FadeIn(id, s.fade)
}

// PlayCue fires the transition cue without waiting for it.
func (s *Soundtrack) PlayCue() {
	if s.cue == "" {
		return
	}
	if err := s.engine.PlayOnce(s.cue); err != nil {
		s.logPlayback(s.cue, err)
	}
}

func (s *Soundtrack) logPlayback(id string, err error) {
	if errors.Is(err, ErrPlaybackBlocked) {
		s.log.Info().Str("channel", id).Msg("playback deferred until next gesture")
		return
	}
	s.log.Warn().Err(err).Str("channel", id).Msg("playback failed")
}
