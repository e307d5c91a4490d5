package stage

import (
	"time"

	"github.com/milk9111/timemachine/common"
	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/timeline"
)

// HUD writes into the HUD singleton. It is the info display for the scene
// machine, the subtitle display for the narrator and the status display
// for the controller.
type HUD struct {
	world   *ecs.World
	content *scenes.Content
}

func NewHUD(w *ecs.World, content *scenes.Content) *HUD {
	return &HUD{world: w, content: content}
}

func (h *HUD) SetContent(content *scenes.Content) { h.content = content }

func (h *HUD) state() *component.HUD {
	hud, ok := ecs.Singleton(h.world, component.HUDComponent.Kind())
	if !ok {
		return &component.HUD{}
	}
	return hud
}

func (h *HUD) UpdateSceneInfo(year timeline.Year) {
	hud := h.state()
	hud.Year = int(year)
	spec, ok := h.content.Year(year)
	if !ok {
		hud.Title, hud.Description = year.String(), ""
		return
	}
	hud.Title, hud.Description = spec.Title, spec.Description
}

func (h *HUD) ShowSubtitle(line string, d time.Duration) {
	hud := h.state()
	hud.Subtitle, hud.SubtitleLeft = line, d
}

func (h *HUD) ClearSubtitle() {
	hud := h.state()
	hud.Subtitle, hud.SubtitleLeft = "", 0
}

func (h *HUD) ShowPopup(id, label, info string, x, y float64) {
	h.state().Popup = &component.Popup{HotspotID: id, Label: label, Info: info, X: x, Y: y}
}

func (h *HUD) HidePopup() { h.state().Popup = nil }

func (h *HUD) PopupOpen() bool { return h.state().Popup != nil }

func (h *HUD) UpdateProgress(p float64) {
	h.state().Progress = common.Clamp01(p)
}

func (h *HUD) SetStatus(autoPlay, muted, subtitles bool) {
	hud := h.state()
	hud.AutoPlay, hud.Muted, hud.SubtitlesOn = autoPlay, muted, subtitles
}

func (h *HUD) ToggleContrast() bool {
	hud := h.state()
	hud.HighContrast = !hud.HighContrast
	return hud.HighContrast
}

func (h *HUD) SetReticle(p float64) { h.state().Reticle = p }

// SetNotice shows a persistent banner. An empty string clears it.
func (h *HUD) SetNotice(msg string) { h.state().Notice = msg }
