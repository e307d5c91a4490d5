package system

import (
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
)

// SubtitleSystem clears the subtitle line once its display time runs out.
type SubtitleSystem struct {
	step time.Duration
}

func NewSubtitleSystem() *SubtitleSystem {
	return &SubtitleSystem{step: clock.FrameInterval}
}

func (s *SubtitleSystem) Update(w *ecs.World) {
	hud, ok := ecs.Singleton(w, component.HUDComponent.Kind())
	if !ok || hud.Subtitle == "" || hud.SubtitleLeft <= 0 {
		return
	}
	hud.SubtitleLeft -= s.step
	if hud.SubtitleLeft <= 0 {
		hud.SubtitleLeft = 0
		hud.Subtitle = ""
	}
}
