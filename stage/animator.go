package stage

import (
	"fmt"
	"time"

	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/ecs/system"
	"github.com/milk9111/timemachine/timeline"
)

const WaterTween = 2 * time.Second

// Animator eases each year's water level from wherever it is now to the
// value in the content.
type Animator struct {
	stage    *Stage
	duration time.Duration
}

func NewAnimator(s *Stage, d time.Duration) *Animator {
	if d <= 0 {
		d = WaterTween
	}
	return &Animator{stage: s, duration: d}
}

func (a *Animator) Animate(year timeline.Year) error {
	handle, ok := a.stage.built.Globes[year]
	if !ok {
		return fmt.Errorf("%w: globe for %s", ErrMissingElement, year)
	}
	spec, ok := a.stage.content.Year(year)
	if !ok {
		return fmt.Errorf("%w: content for %s", ErrMissingElement, year)
	}

	_, err := system.RequestTween(a.stage.world, component.Tween{
		Target:      uint64(handle),
		Property:    component.AttrWaterLevel,
		To:          spec.WaterLevel,
		Duration:    a.duration,
		Easing:      component.EaseInOutQuad,
		FromCurrent: true,
	})
	if err != nil {
		return fmt.Errorf("animate %s: %w", year, err)
	}
	return nil
}
