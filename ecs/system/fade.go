package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/timemachine/common"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
)

// FadeSystem draws the screen overlay. The alpha is driven elsewhere.
type FadeSystem struct{}

func NewFadeSystem() *FadeSystem { return &FadeSystem{} }

func (f *FadeSystem) Update(w *ecs.World) {}

func (f *FadeSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	fade, ok := ecs.Singleton(w, component.ScreenFadeComponent.Kind())
	if !ok || fade.Alpha <= 0 {
		return
	}
	b := screen.Bounds()
	a := uint8(common.Clamp01(fade.Alpha) * 255)
	vector.FillRect(screen, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()), color.RGBA{A: a}, false)
}
