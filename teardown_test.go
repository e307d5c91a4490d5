package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/milk9111/timemachine/autoplay"
	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/narration"
	"github.com/milk9111/timemachine/rotation"
	"github.com/milk9111/timemachine/scene"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/sound"
	"github.com/milk9111/timemachine/timeline"
	"github.com/milk9111/timemachine/transition"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrack struct {
	playing bool
	volume  float64
	sets    int
}

func (s *stubTrack) Play()               { s.playing = true }
func (s *stubTrack) Pause()              { s.playing = false }
func (s *stubTrack) Rewind() error       { return nil }
func (s *stubTrack) Volume() float64     { return s.volume }
func (s *stubTrack) IsPlaying() bool     { return s.playing }
func (s *stubTrack) SetVolume(v float64) { s.volume = v; s.sets++ }

// stubScreen stands in for the overlay, the visuals, the info panel and the
// subtitle line.
type stubScreen struct {
	opacity  float64
	subtitle string
}

func (s *stubScreen) SetOpacity(alpha float64)                  { s.opacity = alpha }
func (s *stubScreen) ShowYear(timeline.Year) error              { return nil }
func (s *stubScreen) HideYear(timeline.Year) error              { return nil }
func (s *stubScreen) UpdateSceneInfo(timeline.Year)             {}
func (s *stubScreen) ShowSubtitle(text string, _ time.Duration) { s.subtitle = text }
func (s *stubScreen) ClearSubtitle()                            { s.subtitle = "" }
func (s *stubScreen) ApplyRotation(pitch, yaw float64)          {}

func newTestTimers(t *testing.T) (timerOwners, *clock.Clock, []*stubTrack) {
	t.Helper()
	c := clock.New()
	log := zerolog.Nop()
	tl := timeline.Default()
	screen := &stubScreen{}

	content, err := scenes.LoadContent("ocean")
	require.NoError(t, err)

	engine := sound.NewEngine(c, log, sound.Options{})
	soundtrack := sound.NewSoundtrack(engine, log, 400*time.Millisecond)
	narrator := narration.New(c, log, screen, content)
	soundtrack.SetCaptioner(narrator)

	var tracks []*stubTrack
	for _, year := range tl.Years() {
		music, voice := &stubTrack{}, &stubTrack{}
		musicID, voiceID := fmt.Sprintf("music-%d", year), fmt.Sprintf("voice-%d", year)
		require.NoError(t, engine.Register(musicID, sound.Foreground, music, 1))
		require.NoError(t, engine.Register(voiceID, sound.Voice, voice, 1))
		soundtrack.Bind(year, musicID, voiceID)
		tracks = append(tracks, music, voice)
	}

	fader := transition.New(c, log, screen, 500*time.Millisecond)
	machine, err := scene.New(scene.Deps{
		Clock:    c,
		Logger:   log,
		Timeline: tl,
		Fader:    fader,
		Audio:    soundtrack,
		Visuals:  screen,
		Info:     screen,
		Settle:   300 * time.Millisecond,
	})
	require.NoError(t, err)

	return timerOwners{
		machine:  machine,
		autoplay: autoplay.New(c, log, tl, machine, 10*time.Second),
		rotation: rotation.New(c, log, screen, rotation.Config{}),
		fader:    fader,
		narrator: narrator,
		engine:   engine,
	}, c, tracks
}

func TestStopLeavesNoPendingTimers(t *testing.T) {
	tests := []struct {
		name string
		at   time.Duration
	}{
		{name: "while fading to opaque", at: 100 * time.Millisecond},
		{name: "while music fades out", at: 700 * time.Millisecond},
		{name: "while settling", at: 1000 * time.Millisecond},
		{name: "while fading from opaque", at: 1400 * time.Millisecond},
		{name: "while music fades in", at: 1900 * time.Millisecond},
		{name: "after the transition", at: 3 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timers, c, tracks := newTestTimers(t)

			timers.machine.Begin()
			timers.autoplay.Start()
			_, err := timers.machine.RequestTransition(2010)
			require.NoError(t, err)

			require.True(t, timers.rotation.PointerDown(0, 0, "globe"))
			c.Advance(clock.FrameInterval)
			timers.rotation.PointerMove(60, 20)
			timers.rotation.PointerUp()
			require.True(t, timers.rotation.Coasting())

			c.Advance(tt.at)
			require.Positive(t, c.Pending())

			timers.stop()
			assert.Equal(t, 0, c.Pending())

			sets := make([]int, len(tracks))
			for i, tr := range tracks {
				sets[i] = tr.sets
			}
			c.Advance(30 * time.Second)

			assert.Equal(t, 0, c.Pending())
			assert.Equal(t, scene.Idle, timers.machine.State())
			assert.False(t, timers.autoplay.Running())
			assert.False(t, timers.rotation.Coasting())
			assert.Equal(t, 0, timers.narrator.Pending())
			for i, tr := range tracks {
				assert.Equal(t, sets[i], tr.sets, "track %d changed volume after stop", i)
				assert.False(t, tr.playing, "track %d still playing", i)
			}
		})
	}
}
