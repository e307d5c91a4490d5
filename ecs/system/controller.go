package system

import (
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
)

// Pointer targets handed to the rotation engine.
const (
	TargetGlobe    = "globe"
	TargetControls = "controls"
)

type Navigator interface {
	CurrentYear() timeline.Year
	Timeline() timeline.Timeline
	Next() (*clock.Future, error)
	Prev() (*clock.Future, error)
	RequestTransition(year timeline.Year) (*clock.Future, error)
	Reset() (*clock.Future, error)
}

type Rotator interface {
	PointerDown(x, y float64, target string) bool
	PointerMove(x, y float64)
	PointerUp()
	Reset()
}

type AutoPlayer interface {
	Toggle() bool
	Reset()
	Running() bool
	Progress() float64
}

type Mixer interface {
	Mute()
	Unmute()
	Muted() bool
	RetryBlocked()
}

type Captions interface {
	Toggle() bool
	Enabled() bool
}

// Display is the part of the HUD the controller drives directly.
type Display interface {
	ShowPopup(id, label, info string, x, y float64)
	HidePopup()
	UpdateProgress(p float64)
	SetStatus(autoPlay, muted, subtitles bool)
	ToggleContrast() bool
	SetReticle(p float64)
}

type Picker interface {
	HotspotAt(w *ecs.World, x, y float64) (*component.Hotspot, bool)
}

// YearLocator maps a screen point onto a year control, for gaze selection.
type YearLocator interface {
	YearAt(x, y int) (int, bool)
}

type Dweller interface {
	Update(target string, dt time.Duration) (string, bool)
	Progress() float64
	Reset()
}

type ControllerDeps struct {
	Logger    zerolog.Logger
	Navigator Navigator
	Rotator   Rotator
	AutoPlay  AutoPlayer
	Mixer     Mixer
	Captions  Captions
	Display   Display
	Picker    Picker
	// Years and Gaze are only set for the gaze variant.
	Years YearLocator
	Gaze  Dweller
}

// ControllerSystem turns the Input singleton into actions on the engines.
// Manual year changes restart the auto-play countdown.
type ControllerSystem struct {
	deps ControllerDeps
	log  zerolog.Logger
}

func NewControllerSystem(deps ControllerDeps) *ControllerSystem {
	return &ControllerSystem{deps: deps, log: deps.Logger}
}

func (c *ControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	input, ok := ecs.Singleton(w, component.InputComponent.Kind())
	if !ok {
		return
	}

	if input.Gesture && c.deps.Mixer != nil {
		c.deps.Mixer.RetryBlocked()
	}

	c.pointer(w, input.Pointer)
	for _, cmd := range input.Commands {
		c.command(cmd)
	}
	input.Commands = input.Commands[:0]

	if c.deps.Gaze != nil {
		c.gaze(w, input.Pointer)
	}

	if c.deps.Display != nil && c.deps.AutoPlay != nil {
		progress := 0.0
		if c.deps.AutoPlay.Running() {
			progress = c.deps.AutoPlay.Progress()
		}
		c.deps.Display.UpdateProgress(progress)
		c.status()
	}
}

func (c *ControllerSystem) pointer(w *ecs.World, p component.Pointer) {
	if c.deps.Rotator == nil {
		return
	}
	switch {
	case p.Pressed:
		if p.OverUI {
			c.deps.Rotator.PointerDown(p.X, p.Y, TargetControls)
			return
		}
		if c.deps.Picker != nil {
			if h, ok := c.deps.Picker.HotspotAt(w, p.X, p.Y); ok {
				c.showHotspot(h)
				return
			}
		}
		if c.deps.Display != nil {
			c.deps.Display.HidePopup()
		}
		c.deps.Rotator.PointerDown(p.X, p.Y, TargetGlobe)
	case p.Released:
		c.deps.Rotator.PointerUp()
	case p.Held && p.Moved:
		c.deps.Rotator.PointerMove(p.X, p.Y)
	}
}

func (c *ControllerSystem) command(cmd component.Command) {
	switch cmd.Action {
	case component.ActionPrevYear:
		c.manual(c.deps.Navigator.Prev())
	case component.ActionNextYear:
		c.manual(c.deps.Navigator.Next())
	case component.ActionSelectYear:
		year, ok := c.deps.Navigator.Timeline().At(cmd.Index)
		if !ok {
			c.log.Debug().Int("index", cmd.Index).Msg("no year in slot")
			return
		}
		c.SelectYear(year)
	case component.ActionToggleAutoPlay:
		if c.deps.AutoPlay != nil {
			running := c.deps.AutoPlay.Toggle()
			c.log.Info().Bool("running", running).Msg("autoplay toggled")
		}
	case component.ActionToggleMute:
		if c.deps.Mixer == nil {
			return
		}
		if c.deps.Mixer.Muted() {
			c.deps.Mixer.Unmute()
		} else {
			c.deps.Mixer.Mute()
		}
	case component.ActionToggleSubtitles:
		if c.deps.Captions != nil {
			c.deps.Captions.Toggle()
		}
	case component.ActionToggleContrast:
		if c.deps.Display != nil {
			c.deps.Display.ToggleContrast()
		}
	case component.ActionReset:
		c.ResetExperience()
	case component.ActionClosePopup:
		if c.deps.Display != nil {
			c.deps.Display.HidePopup()
		}
	}
}

// SelectYear is a manual year change.
func (c *ControllerSystem) SelectYear(year timeline.Year) error {
	_, err := c.deps.Navigator.RequestTransition(year)
	c.manual(nil, err)
	return err
}

// ResetExperience returns to the first year with the globe facing front.
func (c *ControllerSystem) ResetExperience() error {
	if c.deps.Rotator != nil {
		c.deps.Rotator.Reset()
	}
	if c.deps.Display != nil {
		c.deps.Display.HidePopup()
	}
	_, err := c.deps.Navigator.Reset()
	c.manual(nil, err)
	return err
}

func (c *ControllerSystem) manual(_ *clock.Future, err error) {
	if err != nil {
		c.log.Debug().Err(err).Msg("manual year change ignored")
		return
	}
	if c.deps.AutoPlay != nil {
		c.deps.AutoPlay.Reset()
	}
}

func (c *ControllerSystem) showHotspot(h *component.Hotspot) {
	if c.deps.Display == nil {
		return
	}
	c.deps.Display.ShowPopup(h.ID, h.Label, h.Info, h.ScreenX, h.ScreenY)
}

func (c *ControllerSystem) gaze(w *ecs.World, p component.Pointer) {
	target := ""
	if c.deps.Years != nil {
		if y, ok := c.deps.Years.YearAt(int(p.X), int(p.Y)); ok {
			target = "year:" + strconv.Itoa(y)
		}
	}
	if target == "" && c.deps.Picker != nil {
		if h, ok := c.deps.Picker.HotspotAt(w, p.X, p.Y); ok {
			target = "hotspot:" + h.ID
		}
	}

	fired, ok := c.deps.Gaze.Update(target, clock.FrameInterval)
	if c.deps.Display != nil {
		c.deps.Display.SetReticle(c.deps.Gaze.Progress())
	}
	if !ok {
		return
	}

	kind, value, _ := strings.Cut(fired, ":")
	switch kind {
	case "year":
		if y, err := strconv.Atoi(value); err == nil {
			c.SelectYear(timeline.Year(y))
		}
	case "hotspot":
		if h, ok := c.deps.Picker.HotspotAt(w, p.X, p.Y); ok && h.ID == value {
			c.showHotspot(h)
		}
	}
}

func (c *ControllerSystem) status() {
	muted := c.deps.Mixer != nil && c.deps.Mixer.Muted()
	subs := c.deps.Captions != nil && c.deps.Captions.Enabled()
	c.deps.Display.SetStatus(c.deps.AutoPlay.Running(), muted, subs)
}
