// Package sound ramps channel volumes on the game clock. It owns every
// channel's volume; nothing else calls SetVolume on a registered track.
package sound

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/common"
	"github.com/rs/zerolog"
)

const (
	DefaultFadeSteps = 20
	DefaultMaster    = 1.0
)

var (
	ErrUnknownChannel  = errors.New("sound: unknown channel")
	ErrPlaybackBlocked = errors.New("sound: playback blocked")
)

// Track is the playback surface the engine drives. *audio.Player from
// ebiten satisfies it.
type Track interface {
	Play()
	Pause()
	Rewind() error
	SetVolume(volume float64)
	Volume() float64
	IsPlaying() bool
}

// Kind separates the single foreground music bed from layered channels.
type Kind int

const (
	Foreground Kind = iota
	Ambient
	Voice
	Cue
)

// Channel binds a logical id to a track.
type Channel struct {
	ID    string
	Kind  Kind
	Track Track
	// Attenuation scales the master volume for this channel's steady level.
	Attenuation float64

	volume  float64
	want    bool
	blocked bool
	fade    *clock.Timer
	pending *clock.Future
}

// Options configures an Engine.
type Options struct {
	// Master caps every channel. Nil or negative uses DefaultMaster; zero
	// keeps the whole engine silent.
	Master *float64
	Steps  int
	// Ready reports whether the platform allows playback yet. Browsers hold
	// audio until a user gesture.
	Ready func() bool
}

type Engine struct {
	clock    *clock.Clock
	log      zerolog.Logger
	master   float64
	steps    int
	ready    func() bool
	muted    bool
	channels map[string]*Channel
}

func NewEngine(c *clock.Clock, logger zerolog.Logger, opts Options) *Engine {
	master := DefaultMaster
	if opts.Master != nil && *opts.Master >= 0 {
		master = math.Min(*opts.Master, 1)
	}
	steps := opts.Steps
	if steps <= 0 {
		steps = DefaultFadeSteps
	}
	return &Engine{
		clock:    c,
		log:      logger,
		master:   master,
		steps:    steps,
		ready:    opts.Ready,
		channels: make(map[string]*Channel),
	}
}

// Register adds a channel at zero volume. Re-registering an id replaces the
// previous channel after cancelling its fade.
func (e *Engine) Register(id string, kind Kind, track Track, attenuation float64) error {
	if id == "" || track == nil {
		return fmt.Errorf("sound: register %q: nil track", id)
	}
	if old, ok := e.channels[id]; ok {
		e.cancelFade(old)
		old.Track.Pause()
	}
	if attenuation <= 0 || attenuation > 1 {
		attenuation = 1
	}
	ch := &Channel{ID: id, Kind: kind, Track: track, Attenuation: attenuation}
	e.channels[id] = ch
	e.apply(ch, 0)
	return nil
}

// Has reports whether id is registered.
func (e *Engine) Has(id string) bool {
	_, ok := e.channels[id]
	return ok
}

// Master returns the master volume.
func (e *Engine) Master() float64 {
	return e.master
}

// Level returns the configured steady volume of a channel.
func (e *Engine) Level(id string) float64 {
	ch, ok := e.channels[id]
	if !ok {
		return 0
	}
	return e.level(ch)
}

func (e *Engine) level(ch *Channel) float64 {
	return e.master * ch.Attenuation
}

// Volume returns the channel's logical volume, which ignores mute.
func (e *Engine) Volume(id string) float64 {
	ch, ok := e.channels[id]
	if !ok {
		return 0
	}
	return ch.volume
}

// Fading reports whether a ramp is active on id.
func (e *Engine) Fading(id string) bool {
	ch, ok := e.channels[id]
	return ok && ch.fade.Active()
}

// FadeTo ramps a channel linearly to target over d in a fixed number of
// steps. Any ramp already running on the channel is superseded; its future
// resolves without running its completion callback. onDone runs exactly once
// when this ramp lands on target.
func (e *Engine) FadeTo(id string, target float64, d time.Duration, onDone func()) *clock.Future {
	ch, ok := e.channels[id]
	if !ok {
		return clock.Resolved(fmt.Errorf("%w: %s", ErrUnknownChannel, id))
	}
	superseded := e.detachFade(ch)
	defer superseded.Resolve(nil)

	target = common.Clamp(target, 0, e.master)
	start := ch.volume
	done := clock.NewFuture()
	finish := func() {
		ch.fade = nil
		ch.pending = nil
		e.apply(ch, target)
		if onDone != nil {
			onDone()
		}
		done.Resolve(nil)
	}

	if d <= 0 || start == target {
		finish()
		return done
	}

	lo, hi := math.Min(start, target), math.Max(start, target)
	step := 0
	interval := d / time.Duration(e.steps)
	ch.pending = done
	var timer *clock.Timer
	timer = e.clock.Every(interval, func() {
		step++
		if step >= e.steps {
			timer.Stop()
			finish()
			return
		}
		v := start + (target-start)*float64(step)/float64(e.steps)
		e.apply(ch, common.Clamp(v, lo, hi))
	})
	ch.fade = timer
	return done
}

// Play starts a channel at its current volume.
func (e *Engine) Play(id string) error {
	ch, ok := e.channels[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, id)
	}
	ch.want = true
	return e.play(ch)
}

func (e *Engine) play(ch *Channel) error {
	if e.ready != nil && !e.ready() {
		ch.blocked = true
		e.log.Warn().Str("channel", ch.ID).Msg("playback blocked until user gesture")
		return fmt.Errorf("%w: %s", ErrPlaybackBlocked, ch.ID)
	}
	ch.blocked = false
	if !ch.Track.IsPlaying() {
		ch.Track.Play()
	}
	return nil
}

// FadeIn plays a channel from silence and ramps it to its level. A blocked
// start is logged and the ramp still runs so a later retry comes in at the
// right volume. Starting a foreground channel fades out any other foreground
// channel that is still wanted.
func (e *Engine) FadeIn(id string, d time.Duration) *clock.Future {
	ch, ok := e.channels[id]
	if !ok {
		return clock.Resolved(fmt.Errorf("%w: %s", ErrUnknownChannel, id))
	}
	if ch.Kind == Foreground {
		for _, other := range e.sorted() {
			if other != ch && other.Kind == Foreground && other.want {
				e.FadeOut(other.ID, d)
			}
		}
	}
	if !ch.Track.IsPlaying() {
		e.cancelFade(ch)
		e.apply(ch, 0)
	}
	ch.want = true
	_ = e.play(ch)
	return e.FadeTo(id, e.level(ch), d, nil)
}

// FadeOut ramps a channel to silence, then pauses and rewinds it.
func (e *Engine) FadeOut(id string, d time.Duration) *clock.Future {
	ch, ok := e.channels[id]
	if !ok {
		return clock.Resolved(fmt.Errorf("%w: %s", ErrUnknownChannel, id))
	}
	ch.want = false
	ch.blocked = false
	if !ch.Track.IsPlaying() {
		d = 0
	}
	return e.FadeTo(id, 0, d, func() {
		ch.Track.Pause()
		if err := ch.Track.Rewind(); err != nil {
			e.log.Warn().Err(err).Str("channel", ch.ID).Msg("rewind failed")
		}
	})
}

// PlayOnce plays a channel from the start at its level without a ramp.
func (e *Engine) PlayOnce(id string) error {
	ch, ok := e.channels[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, id)
	}
	e.cancelFade(ch)
	if err := ch.Track.Rewind(); err != nil {
		return fmt.Errorf("sound: rewind %s: %w", id, err)
	}
	e.apply(ch, e.level(ch))
	// Cues are stale by the next gesture; voices are retried.
	ch.want = ch.Kind != Cue
	if err := e.play(ch); err != nil {
		if ch.Kind == Cue {
			ch.blocked = false
		}
		return err
	}
	return nil
}

// Wanted reports whether a channel has been started and not yet stopped.
func (e *Engine) Wanted(id string) bool {
	ch, ok := e.channels[id]
	return ok && ch.want
}

// RetryBlocked replays channels whose start was refused by the platform and
// that are still wanted. Input handlers call it on user gestures.
func (e *Engine) RetryBlocked() {
	for _, ch := range e.sorted() {
		if !ch.blocked || !ch.want {
			continue
		}
		if err := e.play(ch); err == nil {
			e.log.Debug().Str("channel", ch.ID).Msg("blocked playback resumed")
		}
	}
}

// Mute silences every track immediately. Running ramps keep their logical
// volume so unmuting mid-fade lands where the ramp is.
func (e *Engine) Mute() {
	e.muted = true
	for _, ch := range e.channels {
		ch.Track.SetVolume(0)
	}
}

// Unmute restores playing channels to their configured level immediately.
// Channels with an active ramp resume from the ramp's current value.
func (e *Engine) Unmute() {
	e.muted = false
	for _, ch := range e.sorted() {
		switch {
		case ch.fade.Active():
			e.apply(ch, ch.volume)
		case ch.Track.IsPlaying() && ch.want:
			e.apply(ch, e.level(ch))
		default:
			e.apply(ch, ch.volume)
		}
	}
}

func (e *Engine) Muted() bool {
	return e.muted
}

// Audible lists playing channels with a non-zero logical volume.
func (e *Engine) Audible() []string {
	var ids []string
	for _, ch := range e.sorted() {
		if ch.Track.IsPlaying() && ch.volume > 0 {
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

// Close cancels every outstanding ramp and pauses all tracks.
func (e *Engine) Close() {
	for _, ch := range e.channels {
		e.cancelFade(ch)
		ch.Track.Pause()
	}
}

func (e *Engine) cancelFade(ch *Channel) {
	e.detachFade(ch).Resolve(nil)
}

// detachFade stops the channel's ramp and hands back its future unresolved
// so the caller can finish its own bookkeeping before waiters run.
func (e *Engine) detachFade(ch *Channel) *clock.Future {
	if ch.fade != nil {
		ch.fade.Stop()
		ch.fade = nil
	}
	p := ch.pending
	ch.pending = nil
	return p
}

func (e *Engine) apply(ch *Channel, v float64) {
	ch.volume = v
	if e.muted {
		ch.Track.SetVolume(0)
		return
	}
	ch.Track.SetVolume(v)
}

func (e *Engine) sorted() []*Channel {
	out := make([]*Channel, 0, len(e.channels))
	for _, ch := range e.channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
