package stage

import (
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/timeline"
)

const (
	barHeight     = 48
	yearButtonW   = 72
	toggleButtonW = 112
	buttonH       = 36
)

// Controls is the on-screen control bar: one radio button per year and a
// button per toggle. Clicks become Commands on the Input singleton so the
// controller handles them exactly like keys.
type Controls struct {
	ui    *ebitenui.UI
	bar   *widget.Container
	world *ecs.World

	years       []timeline.Year
	yearButtons []*widget.Button
	group       *widget.RadioGroup
	// active is the index of the committed year. ebitenui delivers group
	// changes deferred, so a change to this slot is never a user request.
	active int

	autoPlay  *widget.Button
	mute      *widget.Button
	subtitles *widget.Button
	contrast  *widget.Button
	reset     *widget.Button
}

func NewControls(w *ecs.World, tl timeline.Timeline, face text.Face) *Controls {
	c := &Controls{world: w, years: tl.Years()}
	theme := newControlsTheme(&face)

	c.bar = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{R: 0x08, G: 0x12, B: 0x20, A: 200})),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, barHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)

	elements := make([]widget.RadioGroupElement, 0, len(c.years))
	for _, year := range c.years {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(year.String(), &face, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(yearButtonW, buttonH)),
		)
		c.yearButtons = append(c.yearButtons, btn)
		elements = append(elements, btn)
		c.bar.AddChild(btn)
	}

	c.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for idx, b := range c.yearButtons {
				if args.Active == b && idx != c.active {
					c.push(component.Command{Action: component.ActionSelectYear, Index: idx})
					return
				}
			}
		}),
	)

	c.autoPlay = c.button(theme, &face, component.ActionToggleAutoPlay)
	c.mute = c.button(theme, &face, component.ActionToggleMute)
	c.subtitles = c.button(theme, &face, component.ActionToggleSubtitles)
	c.contrast = c.button(theme, &face, component.ActionToggleContrast)
	c.reset = c.button(theme, &face, component.ActionReset)
	c.reset.Text().Label = "Reset"

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(c.bar)
	c.ui = &ebitenui.UI{Container: root, PrimaryTheme: theme}
	return c
}

func (c *Controls) button(theme *widget.Theme, face *text.Face, action component.Action) *widget.Button {
	btn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("", face, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(toggleButtonW, buttonH)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			c.push(component.Command{Action: action})
		}),
	)
	c.bar.AddChild(btn)
	return btn
}

func (c *Controls) push(cmd component.Command) {
	input, ok := ecs.Singleton(c.world, component.InputComponent.Kind())
	if !ok {
		return
	}
	input.Commands = append(input.Commands, cmd)
	input.Gesture = true
}

// Update mirrors the HUD state onto the buttons, then lets the UI handle
// input. It runs after the input system so clicks land in the same frame.
func (c *Controls) Update(w *ecs.World) {
	if hud, ok := ecs.Singleton(w, component.HUDComponent.Kind()); ok {
		c.sync(hud)
	}
	c.ui.Update()
}

// Layer returns the drawing half of the bar, so it can be scheduled above
// the HUD while Update still runs before the controller.
func (c *Controls) Layer() ecs.System { return controlsLayer{c} }

type controlsLayer struct{ c *Controls }

func (l controlsLayer) Update(w *ecs.World) {}

func (l controlsLayer) Draw(w *ecs.World, screen *ebiten.Image) {
	l.c.ui.Draw(screen)
}

func (c *Controls) sync(hud *component.HUD) {
	labels := toggleLabels(hud)
	c.autoPlay.Text().Label = labels.autoPlay
	c.mute.Text().Label = labels.mute
	c.subtitles.Text().Label = labels.subtitles
	c.contrast.Text().Label = labels.contrast
	c.SetActiveYear(timeline.Year(hud.Year))
}

// SetActiveYear selects the year's button without issuing a command. A
// button left checked by a rejected click is moved back.
func (c *Controls) SetActiveYear(year timeline.Year) {
	idx := yearIndex(c.years, year)
	if idx < 0 {
		return
	}
	c.active = idx
	if c.group.Active() != c.yearButtons[idx] {
		c.group.SetActive(c.yearButtons[idx])
	}
}

// activeYear is the year whose button is checked.
func (c *Controls) activeYear() (timeline.Year, bool) {
	for idx, b := range c.yearButtons {
		if c.group.Active() == b {
			return c.years[idx], true
		}
	}
	return 0, false
}

// Contains reports whether a screen point is over the bar.
func (c *Controls) Contains(x, y int) bool {
	if ebuiinput.UIHovered {
		return true
	}
	return image.Pt(x, y).In(c.bar.GetWidget().Rect)
}

// YearAt returns the year whose button is under a screen point.
func (c *Controls) YearAt(x, y int) (int, bool) {
	pt := image.Pt(x, y)
	for idx, b := range c.yearButtons {
		if pt.In(b.GetWidget().Rect) {
			return int(c.years[idx]), true
		}
	}
	return 0, false
}

type labels struct {
	autoPlay  string
	mute      string
	subtitles string
	contrast  string
}

func toggleLabels(hud *component.HUD) labels {
	l := labels{
		autoPlay:  "Auto: Off",
		mute:      "Mute",
		subtitles: "Subtitles: Off",
		contrast:  "Contrast: Std",
	}
	if hud.AutoPlay {
		l.autoPlay = "Auto: On"
	}
	if hud.Muted {
		l.mute = "Unmute"
	}
	if hud.SubtitlesOn {
		l.subtitles = "Subtitles: On"
	}
	if hud.HighContrast {
		l.contrast = "Contrast: High"
	}
	return l
}

func yearIndex(years []timeline.Year, year timeline.Year) int {
	for i, y := range years {
		if y == year {
			return i
		}
	}
	return -1
}

func newControlsTheme(face *text.Face) *widget.Theme {
	return &widget.Theme{
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x1c, G: 0x3a, B: 0x5e, A: 255}),
				Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x26, G: 0x4f, B: 0x80, A: 255}),
				Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x3f, G: 0x8e, B: 0xd8, A: 255}),
			},
			TextFace: face,
			TextColor: &widget.ButtonTextColor{
				Idle:    color.White,
				Hover:   color.White,
				Pressed: color.White,
			},
		},
	}
}
