package main

import (
	"github.com/milk9111/timemachine/settings"
	"github.com/milk9111/timemachine/timeline"
)

// gameControls exposes the running experience to the debug console.
type gameControls struct {
	g *Game
}

func (c gameControls) SwitchYear(year int) error {
	return c.g.controller.SelectYear(timeline.Year(year))
}

func (c gameControls) MuteAudio() { c.g.engine.Mute() }

func (c gameControls) UnmuteAudio() { c.g.engine.Unmute() }

func (c gameControls) ResetExperience() error {
	return c.g.controller.ResetExperience()
}

func (c gameControls) State() map[string]any {
	g := c.g
	rot := g.rotation.State()
	pitchV, yawV := g.rotation.Velocity()

	audible := make([]any, 0, len(g.engine.Audible()))
	for _, id := range g.engine.Audible() {
		audible = append(audible, id)
	}

	state := map[string]any{
		"year":       int(g.machine.CurrentYear()),
		"transition": g.machine.State().String(),
		"muted":      g.engine.Muted(),
		"audible":    audible,
		"autoplay":   g.autoplay.Running(),
		"advances":   g.autoplay.Ticks(),
		"popup":      g.hud.PopupOpen(),
		"subtitles":  g.narrator.Enabled(),
		"pitch":      rot.Pitch,
		"yaw":        rot.Yaw,
		"velocity":   []any{pitchV, yawV},
		"dragging":   g.rotation.Dragging(),
		"coasting":   g.rotation.Coasting(),
		"inertia":    g.rotation.InertiaTicks(),
		"timers":     g.clock.Pending(),
		"variant":    g.settings.Variant,
	}
	if from, to, ok := g.machine.Transitioning(); ok {
		state["from"] = int(from)
		state["to"] = int(to)
	}
	return state
}

func (c gameControls) Config() map[string]any {
	return settings.Snapshot()
}
