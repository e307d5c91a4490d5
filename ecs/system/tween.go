package system

import (
	"math"
	"time"

	"github.com/milk9111/timemachine/clock"
	"github.com/milk9111/timemachine/common"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
)

// TweenSystem advances tween entities and writes their value into the
// target's Attributes. Finished tweens are destroyed.
type TweenSystem struct {
	step time.Duration
}

func NewTweenSystem() *TweenSystem {
	return &TweenSystem{step: clock.FrameInterval}
}

// RequestTween spawns a tween entity. Any running tween on the same target
// and property is replaced.
func RequestTween(w *ecs.World, tw component.Tween) (ecs.Entity, error) {
	ecs.ForEach(w, component.TweenComponent.Kind(), func(e ecs.Entity, other *component.Tween) {
		if other.Target == tw.Target && other.Property == tw.Property {
			ecs.DestroyEntity(w, e)
		}
	})
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.TweenComponent.Kind(), &tw); err != nil {
		return 0, err
	}
	return ent, nil
}

func (s *TweenSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TweenComponent.Kind(), func(e ecs.Entity, tw *component.Tween) {
		target := ecs.Entity(tw.Target)
		attrs, ok := ecs.Get(w, target, component.AttributesComponent.Kind())
		if !ok {
			ecs.DestroyEntity(w, e)
			return
		}
		if !tw.Started() {
			tw.Start(attrs.Get(tw.Property))
		}

		tw.Elapsed += s.step
		progress := 1.0
		if tw.Duration > 0 {
			progress = math.Min(1, float64(tw.Elapsed)/float64(tw.Duration))
		}
		attrs.Set(tw.Property, common.Lerp(tw.From, tw.To, Ease(tw.Easing, progress)))

		if progress < 1 {
			return
		}
		if tw.Repeat {
			tw.Elapsed = 0
			return
		}
		ecs.DestroyEntity(w, e)
	})
}

// Ease maps linear progress in [0,1] through an easing curve.
func Ease(e component.Easing, t float64) float64 {
	t = common.Clamp01(t)
	switch e {
	case component.EaseInOutQuad:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 2)/2
	case component.EaseOutCubic:
		return 1 - math.Pow(1-t, 3)
	default:
		return t
	}
}
