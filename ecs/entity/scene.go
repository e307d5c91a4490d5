package entity

import (
	"fmt"
	"time"

	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/timeline"
)

const hotspotPulse = 1600 * time.Millisecond

// Scene holds the handles created for one content file.
type Scene struct {
	Globes   map[timeline.Year]ecs.Entity
	Hotspots map[string]ecs.Entity
	HUD      ecs.Entity
	Fade     ecs.Entity
	Input    ecs.Entity
}

// BuildScene spawns a hidden globe per year, a marker per hotspot and the
// HUD, overlay and input singletons.
func BuildScene(w *ecs.World, content *scenes.Content, radius float64) (*Scene, error) {
	if w == nil {
		return nil, fmt.Errorf("scene: world is nil")
	}
	if content == nil {
		return nil, fmt.Errorf("scene: content is nil")
	}

	s := &Scene{
		Globes:   make(map[timeline.Year]ecs.Entity, len(content.Years)),
		Hotspots: make(map[string]ecs.Entity, len(content.Hotspots)),
	}
	for _, spec := range content.Years {
		ent, err := NewGlobe(w, spec, radius)
		if err != nil {
			return nil, err
		}
		s.Globes[timeline.Year(spec.Year)] = ent
	}
	for _, h := range content.Hotspots {
		ent, err := NewHotspot(w, h)
		if err != nil {
			return nil, err
		}
		s.Hotspots[h.ID] = ent
	}

	var err error
	if s.HUD, err = NewHUD(w); err != nil {
		return nil, err
	}
	if s.Fade, err = NewScreenFade(w); err != nil {
		return nil, err
	}
	if s.Input, err = NewInput(w); err != nil {
		return nil, err
	}
	return s, nil
}

func NewGlobe(w *ecs.World, spec scenes.YearSpec, radius float64) (ecs.Entity, error) {
	ocean, err := scenes.ParseHexColor(orDefault(spec.OceanColor, "#1f6fb2"))
	if err != nil {
		return 0, fmt.Errorf("globe %d: %w", spec.Year, err)
	}
	land, err := scenes.ParseHexColor(orDefault(spec.LandColor, "#3e8e41"))
	if err != nil {
		return 0, fmt.Errorf("globe %d: %w", spec.Year, err)
	}

	ent := ecs.CreateEntity(w)
	attrs := &component.Attributes{}
	attrs.Set(component.AttrWaterLevel, 0)

	if err := addAll(w, ent,
		func() error {
			return ecs.Add(w, ent, component.GlobeComponent.Kind(), &component.Globe{Year: spec.Year, OceanColor: ocean, LandColor: land, Radius: radius})
		},
		func() error {
			return ecs.Add(w, ent, component.ElementComponent.Kind(), &component.Element{Name: GlobeName(timeline.Year(spec.Year))})
		},
		func() error { return ecs.Add(w, ent, component.VisibleComponent.Kind(), &component.Visible{}) },
		func() error { return ecs.Add(w, ent, component.OrientationComponent.Kind(), &component.Orientation{}) },
		func() error { return ecs.Add(w, ent, component.TagComponent.Kind(), &component.Tag{Rotatable: true}) },
		func() error { return ecs.Add(w, ent, component.AttributesComponent.Kind(), attrs) },
	); err != nil {
		return 0, fmt.Errorf("globe %d: %w", spec.Year, err)
	}
	return ent, nil
}

func NewHotspot(w *ecs.World, h scenes.Hotspot) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := addAll(w, ent,
		func() error {
			return ecs.Add(w, ent, component.HotspotComponent.Kind(), &component.Hotspot{
				ID: h.ID, Label: h.Label, Info: h.Info, Lat: h.Lat, Lon: h.Lon, Years: append([]int(nil), h.Years...),
			})
		},
		func() error {
			return ecs.Add(w, ent, component.ElementComponent.Kind(), &component.Element{Name: HotspotName(h.ID)})
		},
		func() error { return ecs.Add(w, ent, component.VisibleComponent.Kind(), &component.Visible{}) },
		func() error { return ecs.Add(w, ent, component.OrientationComponent.Kind(), &component.Orientation{}) },
		func() error { return ecs.Add(w, ent, component.TagComponent.Kind(), &component.Tag{Rotatable: true}) },
		func() error { return ecs.Add(w, ent, component.PulseComponent.Kind(), &component.Pulse{Period: hotspotPulse}) },
	); err != nil {
		return 0, fmt.Errorf("hotspot %s: %w", h.ID, err)
	}
	return ent, nil
}

func NewHUD(w *ecs.World) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.HUDComponent.Kind(), &component.HUD{SubtitlesOn: true}); err != nil {
		return 0, fmt.Errorf("hud: add component: %w", err)
	}
	return ent, nil
}

func NewScreenFade(w *ecs.World) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.ScreenFadeComponent.Kind(), &component.ScreenFade{}); err != nil {
		return 0, fmt.Errorf("screen fade: add component: %w", err)
	}
	return ent, nil
}

func NewInput(w *ecs.World) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("input: add component: %w", err)
	}
	return ent, nil
}

func GlobeName(year timeline.Year) string { return "globe-" + year.String() }

func HotspotName(id string) string { return "hotspot-" + id }

// addAll runs each add and destroys the half-built entity on failure.
func addAll(w *ecs.World, ent ecs.Entity, adds ...func() error) error {
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, ent)
			return err
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
