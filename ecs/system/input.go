package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
)

var keyBindings = []struct {
	key ebiten.Key
	cmd component.Command
}{
	{ebiten.KeyArrowLeft, component.Command{Action: component.ActionPrevYear}},
	{ebiten.KeyArrowRight, component.Command{Action: component.ActionNextYear}},
	{ebiten.KeyDigit1, component.Command{Action: component.ActionSelectYear, Index: 0}},
	{ebiten.KeyDigit2, component.Command{Action: component.ActionSelectYear, Index: 1}},
	{ebiten.KeyDigit3, component.Command{Action: component.ActionSelectYear, Index: 2}},
	{ebiten.KeyDigit4, component.Command{Action: component.ActionSelectYear, Index: 3}},
	{ebiten.KeySpace, component.Command{Action: component.ActionToggleAutoPlay}},
	{ebiten.KeyM, component.Command{Action: component.ActionToggleMute}},
	{ebiten.KeyS, component.Command{Action: component.ActionToggleSubtitles}},
	{ebiten.KeyC, component.Command{Action: component.ActionToggleContrast}},
	{ebiten.KeyR, component.Command{Action: component.ActionReset}},
	{ebiten.KeyEscape, component.Command{Action: component.ActionClosePopup}},
}

// InputSystem samples the mouse, the first touch and the keyboard into the
// Input singleton.
type InputSystem struct {
	overUI  func(x, y int) bool
	touchID ebiten.TouchID
	touched bool
	lastX   int
	lastY   int
}

func NewInputSystem(overUI func(x, y int) bool) *InputSystem {
	return &InputSystem{overUI: overUI}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	input, ok := ecs.Singleton(w, component.InputComponent.Kind())
	if !ok {
		return
	}

	p := i.samplePointer()
	p.Moved = p.Held && (int(p.X) != i.lastX || int(p.Y) != i.lastY)
	i.lastX, i.lastY = int(p.X), int(p.Y)
	if i.overUI != nil {
		p.OverUI = i.overUI(int(p.X), int(p.Y))
	}

	input.Pointer = p
	input.Commands = input.Commands[:0]
	input.Gesture = p.Pressed
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			input.Commands = append(input.Commands, b.cmd)
			input.Gesture = true
		}
	}
}

func (i *InputSystem) samplePointer() component.Pointer {
	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 && !i.touched {
		i.touchID = ids[0]
		i.touched = true
		x, y := ebiten.TouchPosition(i.touchID)
		return component.Pointer{X: float64(x), Y: float64(y), Pressed: true, Held: true, Touch: true}
	}
	if i.touched {
		if inpututil.IsTouchJustReleased(i.touchID) {
			i.touched = false
			x, y := inpututil.TouchPositionInPreviousTick(i.touchID)
			return component.Pointer{X: float64(x), Y: float64(y), Released: true, Touch: true}
		}
		x, y := ebiten.TouchPosition(i.touchID)
		return component.Pointer{X: float64(x), Y: float64(y), Held: true, Touch: true}
	}

	x, y := ebiten.CursorPosition()
	return component.Pointer{
		X:        float64(x),
		Y:        float64(y),
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Held:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}
