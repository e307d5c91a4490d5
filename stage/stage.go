// Package stage adapts the ECS world to the collaborators the engines
// drive: the renderer, the HUD, the attribute animator and the controls.
package stage

import (
	"errors"
	"fmt"

	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/ecs/entity"
	"github.com/milk9111/timemachine/ecs/system"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
)

var ErrMissingElement = errors.New("stage: missing element")

// Stage is the renderer seen by the scene machine and the rotation engine.
// Every object it touches is an entity handle.
type Stage struct {
	world   *ecs.World
	built   *entity.Scene
	content *scenes.Content
	globe   *system.GlobeSystem
	log     zerolog.Logger
}

func New(w *ecs.World, built *entity.Scene, content *scenes.Content, globe *system.GlobeSystem, logger zerolog.Logger) *Stage {
	return &Stage{world: w, built: built, content: content, globe: globe, log: logger}
}

func (s *Stage) World() *ecs.World { return s.world }

// Element finds an entity by its element name.
func (s *Stage) Element(name string) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(s.world, component.ElementComponent.Kind(), func(e ecs.Entity, el *component.Element) {
		if !ok && el.Name == name {
			found, ok = e, true
		}
	})
	return found, ok
}

func (s *Stage) SetVisible(handle ecs.Entity, visible bool) error {
	vis, ok := ecs.Get(s.world, handle, component.VisibleComponent.Kind())
	if !ok {
		return fmt.Errorf("%w: %s has no visibility", ErrMissingElement, handle)
	}
	vis.Visible = visible
	if visible {
		vis.Opacity = 1
	} else {
		vis.Opacity = 0
	}
	return nil
}

func (s *Stage) SetRotation(handle ecs.Entity, pitch, yaw float64) error {
	o, ok := ecs.Get(s.world, handle, component.OrientationComponent.Kind())
	if !ok {
		return fmt.Errorf("%w: %s has no orientation", ErrMissingElement, handle)
	}
	o.Pitch, o.Yaw = pitch, yaw
	return nil
}

func (s *Stage) SetAttribute(handle ecs.Entity, name string, value float64) error {
	attrs, ok := ecs.Get(s.world, handle, component.AttributesComponent.Kind())
	if !ok {
		return fmt.Errorf("%w: %s has no attributes", ErrMissingElement, handle)
	}
	attrs.Set(name, value)
	return nil
}

// ShowYear reveals the year's globe and the hotspots that belong to it.
// An open popup whose hotspot is not part of the year is closed.
func (s *Stage) ShowYear(year timeline.Year) error {
	return s.setYear(year, true)
}

// HideYear hides the year's globe and all hotspots.
func (s *Stage) HideYear(year timeline.Year) error {
	return s.setYear(year, false)
}

func (s *Stage) setYear(year timeline.Year, visible bool) error {
	handle, ok := s.built.Globes[year]
	if !ok {
		return fmt.Errorf("%w: globe for %s", ErrMissingElement, year)
	}
	if err := s.SetVisible(handle, visible); err != nil {
		return err
	}

	var firstErr error
	ecs.ForEach(s.world, component.HotspotComponent.Kind(), func(e ecs.Entity, h *component.Hotspot) {
		err := s.SetVisible(e, visible && h.VisibleIn(int(year)))
		if err != nil && firstErr == nil {
			firstErr = err
		}
	})

	if visible {
		s.closeStalePopup(year)
	}
	return firstErr
}

func (s *Stage) closeStalePopup(year timeline.Year) {
	hud, ok := ecs.Singleton(s.world, component.HUDComponent.Kind())
	if !ok || hud.Popup == nil {
		return
	}
	h, ok := s.content.Hotspot(hud.Popup.HotspotID)
	if !ok || !h.VisibleIn(year) {
		hud.Popup = nil
	}
}

// ApplyRotation copies the shared orientation onto every rotatable entity,
// visible or not, so a newly shown year keeps the current view.
func (s *Stage) ApplyRotation(pitch, yaw float64) {
	ecs.ForEach(s.world, component.TagComponent.Kind(), func(e ecs.Entity, tag *component.Tag) {
		if !tag.Rotatable {
			return
		}
		if err := s.SetRotation(e, pitch, yaw); err != nil {
			s.log.Debug().Err(err).Msg("apply rotation")
		}
	})
}

// SetOpacity drives the full-screen overlay.
func (s *Stage) SetOpacity(alpha float64) {
	fade, ok := ecs.Get(s.world, s.built.Fade, component.ScreenFadeComponent.Kind())
	if !ok {
		return
	}
	fade.Alpha = alpha
}

func (s *Stage) HotspotAt(w *ecs.World, x, y float64) (*component.Hotspot, bool) {
	if s.globe == nil {
		return nil, false
	}
	return s.globe.HotspotAt(w, x, y)
}

// Reload swaps in edited content. Labels, info text and colors are updated
// in place; the set of years and hotspots must not change. A changed set is
// rejected before anything is touched.
func (s *Stage) Reload(content *scenes.Content) error {
	if err := s.sameShape(content); err != nil {
		return err
	}
	for _, spec := range content.Years {
		handle, ok := s.built.Globes[timeline.Year(spec.Year)]
		if !ok {
			return fmt.Errorf("%w: globe for %d", ErrMissingElement, spec.Year)
		}
		g, ok := ecs.Get(s.world, handle, component.GlobeComponent.Kind())
		if !ok {
			return fmt.Errorf("%w: globe for %d", ErrMissingElement, spec.Year)
		}
		if spec.OceanColor != "" {
			if c, err := scenes.ParseHexColor(spec.OceanColor); err == nil {
				g.OceanColor = c
			}
		}
		if spec.LandColor != "" {
			if c, err := scenes.ParseHexColor(spec.LandColor); err == nil {
				g.LandColor = c
			}
		}
	}
	for _, h := range content.Hotspots {
		handle, ok := s.built.Hotspots[h.ID]
		if !ok {
			return fmt.Errorf("%w: hotspot %s", ErrMissingElement, h.ID)
		}
		hs, ok := ecs.Get(s.world, handle, component.HotspotComponent.Kind())
		if !ok {
			return fmt.Errorf("%w: hotspot %s", ErrMissingElement, h.ID)
		}
		hs.Label, hs.Info = h.Label, h.Info
		hs.Lat, hs.Lon = h.Lat, h.Lon
		hs.Years = append(hs.Years[:0], h.Years...)
	}
	s.content = content
	return nil
}

// sameShape checks that content names exactly the years and hotspots the
// scene was built with.
func (s *Stage) sameShape(content *scenes.Content) error {
	if len(content.Years) != len(s.built.Globes) {
		return fmt.Errorf("%w: content has %d years, scene has %d", ErrMissingElement, len(content.Years), len(s.built.Globes))
	}
	if len(content.Hotspots) != len(s.built.Hotspots) {
		return fmt.Errorf("%w: content has %d hotspots, scene has %d", ErrMissingElement, len(content.Hotspots), len(s.built.Hotspots))
	}
	for _, spec := range content.Years {
		if _, ok := s.built.Globes[timeline.Year(spec.Year)]; !ok {
			return fmt.Errorf("%w: globe for %d", ErrMissingElement, spec.Year)
		}
	}
	for _, h := range content.Hotspots {
		if _, ok := s.built.Hotspots[h.ID]; !ok {
			return fmt.Errorf("%w: hotspot %s", ErrMissingElement, h.ID)
		}
	}
	return nil
}
