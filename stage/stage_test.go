package stage

import (
	"testing"
	"time"

	"github.com/milk9111/timemachine/ecs"
	"github.com/milk9111/timemachine/ecs/component"
	"github.com/milk9111/timemachine/ecs/entity"
	"github.com/milk9111/timemachine/ecs/system"
	"github.com/milk9111/timemachine/scenes"
	"github.com/milk9111/timemachine/timeline"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStage(t *testing.T) (*Stage, *scenes.Content) {
	t.Helper()
	content, err := scenes.LoadContent("ocean")
	require.NoError(t, err)
	w := ecs.NewWorld()
	built, err := entity.BuildScene(w, content, 0.4)
	require.NoError(t, err)
	return New(w, built, content, system.NewGlobeSystem(0.4), zerolog.Nop()), content
}

func visible(t *testing.T, s *Stage, e ecs.Entity) bool {
	t.Helper()
	v, ok := ecs.Get(s.world, e, component.VisibleComponent.Kind())
	require.True(t, ok)
	return v.Visible
}

func TestShowYearTogglesGlobeAndHotspots(t *testing.T) {
	s, _ := newTestStage(t)

	tests := []struct {
		year    timeline.Year
		visible map[string]bool
	}{
		{2000, map[string]bool{"great_barrier_reef": true, "pacific_garbage_patch": false, "gulf_dead_zone": false, "arctic_ice": true}},
		{2010, map[string]bool{"great_barrier_reef": true, "pacific_garbage_patch": true, "gulf_dead_zone": false, "arctic_ice": true}},
		{2050, map[string]bool{"great_barrier_reef": true, "pacific_garbage_patch": true, "gulf_dead_zone": true, "arctic_ice": true}},
	}

	for _, tc := range tests {
		t.Run(tc.year.String(), func(t *testing.T) {
			require.NoError(t, s.ShowYear(tc.year))
			assert.True(t, visible(t, s, s.built.Globes[tc.year]))
			for id, want := range tc.visible {
				assert.Equal(t, want, visible(t, s, s.built.Hotspots[id]), id)
			}

			require.NoError(t, s.HideYear(tc.year))
			assert.False(t, visible(t, s, s.built.Globes[tc.year]))
			for id := range tc.visible {
				assert.False(t, visible(t, s, s.built.Hotspots[id]), id)
			}
		})
	}
}

func TestShowYearUnknown(t *testing.T) {
	s, _ := newTestStage(t)
	assert.ErrorIs(t, s.ShowYear(1999), ErrMissingElement)
}

func TestShowYearClosesStalePopup(t *testing.T) {
	s, content := newTestStage(t)
	hud := NewHUD(s.world, content)

	hud.ShowPopup("gulf_dead_zone", "Gulf", "info", 10, 10)
	require.NoError(t, s.ShowYear(2050))
	assert.True(t, hud.PopupOpen(), "hotspot still belongs to 2050")

	require.NoError(t, s.ShowYear(2000))
	assert.False(t, hud.PopupOpen())
}

func TestRendererOperationsRejectMissingComponents(t *testing.T) {
	s, _ := newTestStage(t)
	bare := ecs.CreateEntity(s.world)

	assert.ErrorIs(t, s.SetVisible(bare, true), ErrMissingElement)
	assert.ErrorIs(t, s.SetRotation(bare, 1, 2), ErrMissingElement)
	assert.ErrorIs(t, s.SetAttribute(bare, component.AttrWaterLevel, 1), ErrMissingElement)
}

func TestElementLookup(t *testing.T) {
	s, _ := newTestStage(t)
	e, ok := s.Element(entity.GlobeName(2020))
	require.True(t, ok)
	assert.Equal(t, s.built.Globes[2020], e)

	_, ok = s.Element("nope")
	assert.False(t, ok)
}

func TestApplyRotationReachesEveryRotatable(t *testing.T) {
	s, _ := newTestStage(t)
	s.ApplyRotation(12, -40)

	count := 0
	ecs.ForEach(s.world, component.OrientationComponent.Kind(), func(e ecs.Entity, o *component.Orientation) {
		assert.Equal(t, 12.0, o.Pitch)
		assert.Equal(t, -40.0, o.Yaw)
		count++
	})
	assert.Equal(t, len(s.built.Globes)+len(s.built.Hotspots), count)
}

func TestSetOpacity(t *testing.T) {
	s, _ := newTestStage(t)
	s.SetOpacity(0.75)
	fade, ok := ecs.Get(s.world, s.built.Fade, component.ScreenFadeComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 0.75, fade.Alpha)
}

func TestAnimatorEasesWaterLevel(t *testing.T) {
	s, content := newTestStage(t)
	a := NewAnimator(s, 100*time.Millisecond)
	spec, ok := content.Year(2050)
	require.True(t, ok)

	require.NoError(t, a.Animate(2050))
	assert.Equal(t, 1, ecs.Count(s.world, component.TweenComponent.Kind()))

	tweens := system.NewTweenSystem()
	for i := 0; i < 10; i++ {
		tweens.Update(s.world)
	}

	attrs, ok := ecs.Get(s.world, s.built.Globes[2050], component.AttributesComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, spec.WaterLevel, attrs.Get(component.AttrWaterLevel), 1e-9)
	assert.Equal(t, 0, ecs.Count(s.world, component.TweenComponent.Kind()))

	assert.ErrorIs(t, a.Animate(1999), ErrMissingElement)
}

func TestReloadUpdatesHotspotText(t *testing.T) {
	s, content := newTestStage(t)
	edited := *content
	edited.Hotspots = append([]scenes.Hotspot(nil), content.Hotspots...)
	edited.Hotspots[0].Info = "updated"

	require.NoError(t, s.Reload(&edited))
	h, ok := ecs.Get(s.world, s.built.Hotspots[edited.Hotspots[0].ID], component.HotspotComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "updated", h.Info)
}

func TestReloadRejectsChangedShape(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *scenes.Content)
	}{
		{
			name: "added hotspot",
			edit: func(c *scenes.Content) { c.Hotspots = append(c.Hotspots, scenes.Hotspot{ID: "new"}) },
		},
		{
			name: "removed hotspot",
			edit: func(c *scenes.Content) { c.Hotspots = c.Hotspots[:len(c.Hotspots)-1] },
		},
		{
			name: "removed year",
			edit: func(c *scenes.Content) { c.Years = c.Years[:len(c.Years)-1] },
		},
		{
			name: "renamed hotspot",
			edit: func(c *scenes.Content) { c.Hotspots[0].ID = "renamed" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, content := newTestStage(t)
			edited := *content
			edited.Years = append([]scenes.YearSpec(nil), content.Years...)
			edited.Hotspots = append([]scenes.Hotspot(nil), content.Hotspots...)
			edited.Hotspots[len(edited.Hotspots)-1].Info = "changed"
			tt.edit(&edited)

			assert.ErrorIs(t, s.Reload(&edited), ErrMissingElement)
			assert.Same(t, content, s.content)

			last := content.Hotspots[len(content.Hotspots)-1]
			h, ok := ecs.Get(s.world, s.built.Hotspots[last.ID], component.HotspotComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, last.Info, h.Info)

			final := timeline.Year(content.Years[len(content.Years)-1].Year)
			assert.NoError(t, NewAnimator(s, WaterTween).Animate(final))
		})
	}
}
