package system

import (
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	hudMargin      = 24.0
	hudLineSpacing = 1.3
	progressHeight = 4.0
	popupWidth     = 320.0
)

// HUDSystem draws the year info, subtitles, popups, the auto-play progress
// bar and the gaze reticle from the HUD singleton.
type HUDSystem struct {
	title  text.Face
	body   text.Face
	small  text.Face
	cursor func() (int, int)
}

// NewHUDSystem takes three faces from largest to smallest. cursor, when
// set, places the gaze reticle.
func NewHUDSystem(title, body, small text.Face, cursor func() (int, int)) *HUDSystem {
	return &HUDSystem{title: title, body: body, small: small, cursor: cursor}
}

func (h *HUDSystem) Update(w *ecs.World) {}

func (h *HUDSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	hud, ok := ecs.Singleton(w, component.HUDComponent.Kind())
	if !ok {
		return
	}
	b := screen.Bounds()
	width, height := float64(b.Dx()), float64(b.Dy())
	fg, panel := h.palette(hud.HighContrast)

	y := hudMargin
	if hud.Title != "" {
		y = h.drawText(screen, hud.Title, h.title, hudMargin, y, fg)
	}
	if hud.Description != "" {
		for _, line := range wrap(hud.Description, h.body, width*0.4) {
			y = h.drawText(screen, line, h.body, hudMargin, y, fg)
		}
	}

	status := statusLine(hud)
	if status != "" {
		h.drawText(screen, status, h.small, hudMargin, height-hudMargin-lineHeight(h.small), fg)
	}

	if hud.AutoPlay && hud.Progress > 0 {
		vector.FillRect(screen, 0, float32(height-progressHeight), float32(width*math.Min(1, hud.Progress)), progressHeight, colornames.Skyblue, false)
	}

	if hud.SubtitlesOn && hud.Subtitle != "" {
		h.drawSubtitle(screen, hud.Subtitle, width, height, fg, panel)
	}

	if hud.Popup != nil {
		h.drawPopup(screen, hud.Popup, width, height, fg, panel)
	}

	if hud.Reticle > 0 && h.cursor != nil {
		cx, cy := h.cursor()
		vector.StrokeCircle(screen, float32(cx), float32(cy), 14, 2, colornames.White, true)
		drawArc(screen, float64(cx), float64(cy), 14, hud.Reticle, colornames.Skyblue)
	}

	if hud.Notice != "" {
		tw, th := text.Measure(hud.Notice, h.body, lineHeight(h.body)*hudLineSpacing)
		x := (width - tw) / 2
		vector.FillRect(screen, float32(x-12), float32(height/2-th/2-8), float32(tw+24), float32(th+16), color.RGBA{160, 20, 20, 230}, false)
		h.drawText(screen, hud.Notice, h.body, x, height/2-th/2, colornames.White)
	}
}

func (h *HUDSystem) palette(highContrast bool) (fg, panel color.Color) {
	if highContrast {
		return colornames.Yellow, color.RGBA{0, 0, 0, 255}
	}
	return colornames.White, color.RGBA{0, 0, 0, 150}
}

func (h *HUDSystem) drawSubtitle(screen *ebiten.Image, line string, width, height float64, fg, panel color.Color) {
	lines := wrap(line, h.body, width*0.7)
	lh := lineHeight(h.body) * hudLineSpacing
	boxH := lh*float64(len(lines)) + 16
	top := height - hudMargin*3 - boxH
	maxW := 0.0
	for _, l := range lines {
		maxW = math.Max(maxW, text.Advance(l, h.body))
	}
	left := (width - maxW) / 2
	vector.FillRect(screen, float32(left-12), float32(top), float32(maxW+24), float32(boxH), panel, false)
	y := top + 8
	for _, l := range lines {
		lw := text.Advance(l, h.body)
		y = h.drawText(screen, l, h.body, (width-lw)/2, y, fg)
	}
}

func (h *HUDSystem) drawPopup(screen *ebiten.Image, p *component.Popup, width, height float64, fg, panel color.Color) {
	lines := wrap(p.Info, h.small, popupWidth-24)
	boxH := lineHeight(h.body)*hudLineSpacing + lineHeight(h.small)*hudLineSpacing*float64(len(lines)) + 24
	x := math.Min(p.X+16, width-popupWidth-hudMargin)
	y := math.Min(p.Y+16, height-boxH-hudMargin)
	x, y = math.Max(hudMargin, x), math.Max(hudMargin, y)

	vector.FillRect(screen, float32(x), float32(y), popupWidth, float32(boxH), panel, false)
	vector.StrokeRect(screen, float32(x), float32(y), popupWidth, float32(boxH), 1, fg, false)
	ty := h.drawText(screen, p.Label, h.body, x+12, y+12, fg)
	for _, l := range lines {
		ty = h.drawText(screen, l, h.small, x+12, ty, fg)
	}
}

// drawText draws one line and returns the y below it.
func (h *HUDSystem) drawText(screen *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) float64 {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
	return y + lineHeight(face)*hudLineSpacing
}

func lineHeight(face text.Face) float64 {
	m := face.Metrics()
	return m.HAscent + m.HDescent
}

func statusLine(hud *component.HUD) string {
	var parts []string
	if hud.AutoPlay {
		parts = append(parts, "Auto-play on")
	}
	if hud.Muted {
		parts = append(parts, "Muted")
	}
	if !hud.SubtitlesOn {
		parts = append(parts, "Subtitles off")
	}
	if hud.HighContrast {
		parts = append(parts, "High contrast")
	}
	return strings.Join(parts, "  |  ")
}

// wrap breaks s into lines no wider than maxWidth.
func wrap(s string, face text.Face, maxWidth float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if text.Advance(candidate, face) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

func drawArc(screen *ebiten.Image, cx, cy, r, fraction float64, clr color.Color) {
	const segments = 32
	n := int(math.Ceil(segments * math.Min(1, fraction)))
	for i := 0; i < n; i++ {
		a0 := -math.Pi/2 + 2*math.Pi*float64(i)/segments
		a1 := -math.Pi/2 + 2*math.Pi*float64(i+1)/segments
		vector.StrokeLine(screen,
			float32(cx+r*math.Cos(a0)), float32(cy+r*math.Sin(a0)),
			float32(cx+r*math.Cos(a1)), float32(cy+r*math.Sin(a1)),
			3, clr, true)
	}
}
